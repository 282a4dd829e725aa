package product

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/catalog-admin/internal/validation"
)

// fakeGateway serves canned listings and records every filter it receives.
type fakeGateway struct {
	all     []Product
	total   int
	filters []ListFilter
	listErr error
	created []ProductInput
	deleted []int
	patched map[int]ProductPatch
}

func newFakeGateway(n int) *fakeGateway {
	all := make([]Product, n)
	for i := range all {
		all[i] = Product{ID: i + 1, Title: fmt.Sprintf("Product %d", i+1)}
	}
	return &fakeGateway{all: all, total: n, patched: map[int]ProductPatch{}}
}

func (f *fakeGateway) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	f.filters = append(f.filters, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if filter.Search != "" || filter.Category != "" {
		return &ListResult{Products: f.all, Total: 30}, nil
	}
	end := filter.Skip + filter.Limit
	if end > len(f.all) {
		end = len(f.all)
	}
	page := []Product{}
	if filter.Skip < len(f.all) {
		page = f.all[filter.Skip:end]
	}
	return &ListResult{Products: page, Total: f.total, Skip: filter.Skip, Limit: filter.Limit}, nil
}

func (f *fakeGateway) Get(ctx context.Context, id int) (*Product, error) {
	for _, p := range f.all {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeGateway) Create(ctx context.Context, in ProductInput) (*Product, error) {
	f.created = append(f.created, in)
	return &Product{ID: len(f.all) + 1, Title: in.Title}, nil
}

func (f *fakeGateway) Update(ctx context.Context, id int, patch ProductPatch) (*Product, error) {
	f.patched[id] = patch
	return f.Get(ctx, id)
}

func (f *fakeGateway) Delete(ctx context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGateway) CategoryList(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestListProductsPlainUsesServerPagination(t *testing.T) {
	gw := newFakeGateway(25)
	gw.total = 194
	svc := NewService(gw, 10)

	res, err := svc.ListProducts(context.Background(), ListQuery{Page: 3, PageSize: 10})
	require.NoError(t, err)

	require.Len(t, gw.filters, 1)
	assert.Equal(t, ListFilter{Limit: 10, Skip: 20}, gw.filters[0])
	assert.Equal(t, 194, res.Total)
	assert.Len(t, res.Products, 5)
	assert.Equal(t, 21, res.Products[0].ID)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, 10, res.PageSize)
}

func TestListProductsPageBounds(t *testing.T) {
	for page := 1; page <= 4; page++ {
		for _, size := range []int{1, 7, 10} {
			gw := newFakeGateway(25)
			svc := NewService(gw, 10)

			res, err := svc.ListProducts(context.Background(), ListQuery{Page: page, PageSize: size})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(res.Products), size)
			assert.Equal(t, 25, res.Total)
			assert.Equal(t, (page-1)*size, gw.filters[0].Skip)
		}
	}
}

func TestListProductsDefaults(t *testing.T) {
	gw := newFakeGateway(3)
	svc := NewService(gw, 7)

	res, err := svc.ListProducts(context.Background(), ListQuery{Page: -2})
	require.NoError(t, err)
	assert.Equal(t, ListFilter{Limit: 7, Skip: 0}, gw.filters[0])
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 7, res.PageSize)
}

func TestListProductsFilteredPagesInMemory(t *testing.T) {
	tests := []struct {
		name       string
		query      ListQuery
		wantFilter ListFilter
	}{
		{
			name:       "search",
			query:      ListQuery{Page: 2, PageSize: 10, Search: "phone"},
			wantFilter: ListFilter{Search: "phone"},
		},
		{
			name:       "category",
			query:      ListQuery{Page: 2, PageSize: 10, Category: "beauty"},
			wantFilter: ListFilter{Search: "category:beauty"},
		},
		{
			name:       "category wins over search",
			query:      ListQuery{Page: 2, PageSize: 10, Search: "phone", Category: "beauty"},
			wantFilter: ListFilter{Search: "category:beauty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway(23)
			svc := NewService(gw, 10)

			res, err := svc.ListProducts(context.Background(), tt.query)
			require.NoError(t, err)

			require.Len(t, gw.filters, 1)
			assert.Equal(t, tt.wantFilter, gw.filters[0])
			assert.Equal(t, 23, res.Total, "total is the full filtered set, not the remote total")
			assert.Equal(t, gw.all[10:20], res.Products)
		})
	}
}

func TestListProductsFilteredLastPartialPage(t *testing.T) {
	gw := newFakeGateway(23)
	svc := NewService(gw, 10)

	res, err := svc.ListProducts(context.Background(), ListQuery{Page: 3, Search: "x"})
	require.NoError(t, err)
	assert.Equal(t, gw.all[20:23], res.Products)

	res, err = svc.ListProducts(context.Background(), ListQuery{Page: 9, Search: "x"})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.Equal(t, 23, res.Total)
}

func TestListProductsPropagatesFetchFailure(t *testing.T) {
	gw := newFakeGateway(1)
	gw.listErr = fmt.Errorf("%w: GET /products: status 500", ErrFetchFailed)

	_, err := NewService(gw, 10).ListProducts(context.Background(), ListQuery{})
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestCreateProductValidates(t *testing.T) {
	gw := newFakeGateway(0)
	svc := NewService(gw, 10)

	_, err := svc.CreateProduct(context.Background(), ProductInput{Title: "", Price: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, validation.ErrInvalid)
	assert.Empty(t, gw.created)

	p, err := svc.CreateProduct(context.Background(), ProductInput{
		Title:       "Lamp",
		Description: "Warm light",
		Price:       19.99,
		Category:    "lighting",
		Thumbnail:   "https://cdn.dummyjson.com/lamp.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Title)
	assert.Len(t, gw.created, 1)
}

func TestUpdateProduct(t *testing.T) {
	gw := newFakeGateway(2)
	svc := NewService(gw, 10)

	empty := ""
	_, err := svc.UpdateProduct(context.Background(), 1, ProductPatch{Title: &empty})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	price := 0.0
	_, err = svc.UpdateProduct(context.Background(), 1, ProductPatch{Price: &price})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	title := "New"
	_, err = svc.UpdateProduct(context.Background(), 2, ProductPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", *gw.patched[2].Title)

	_, err = svc.UpdateProduct(context.Background(), 0, ProductPatch{Title: &title})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetAndDeleteProduct(t *testing.T) {
	gw := newFakeGateway(2)
	svc := NewService(gw, 10)

	p, err := svc.GetProduct(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)

	_, err = svc.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteProduct(context.Background(), 2))
	require.NoError(t, svc.DeleteProduct(context.Background(), 2))
	assert.Equal(t, []int{2, 2}, gw.deleted)
}
