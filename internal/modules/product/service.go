package product

import (
	"context"
	"fmt"

	"github.com/georgemunganga/catalog-admin/internal/pagination"
	"github.com/georgemunganga/catalog-admin/internal/validation"
)

// Service defines product business logic.
type Service interface {
	// ListProducts serves plain pages from the remote catalog, or pages the
	// full filtered set in memory when a search or category is given.
	ListProducts(ctx context.Context, q ListQuery) (*PageResult, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

type service struct {
	gateway  Gateway
	pageSize int
}

// NewService returns the product service. pageSize is used when a query
// does not carry one.
func NewService(gateway Gateway, pageSize int) Service {
	if pageSize <= 0 {
		pageSize = pagination.DefaultLimit
	}
	return &service{gateway: gateway, pageSize: pageSize}
}

func (s *service) ListProducts(ctx context.Context, q ListQuery) (*PageResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = s.pageSize
	}
	window := pagination.FromNumber(q.Page, q.PageSize)

	if q.Search == "" && q.Category == "" {
		res, err := s.gateway.List(ctx, ListFilter{Limit: window.Limit, Skip: window.Skip})
		if err != nil {
			return nil, err
		}
		return &PageResult{Products: res.Products, Total: res.Total, Page: q.Page, PageSize: q.PageSize}, nil
	}

	// Filtered endpoints have no offset support: fetch everything, page here.
	search := q.Search
	if q.Category != "" {
		search = CategorySearchPrefix + q.Category
	}
	res, err := s.gateway.List(ctx, ListFilter{Search: search})
	if err != nil {
		return nil, err
	}
	return &PageResult{
		Products: pagination.Slice(res.Products, window),
		Total:    len(res.Products),
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id int) (*Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.gateway.Get(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.gateway.Create(ctx, in)
}

func (s *service) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}
	return s.gateway.Update(ctx, id, patch)
}

func (s *service) DeleteProduct(ctx context.Context, id int) error {
	if id <= 0 {
		return nil
	}
	return s.gateway.Delete(ctx, id)
}
