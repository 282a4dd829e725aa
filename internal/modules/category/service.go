package category

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/catalog-admin/internal/pagination"
	"github.com/georgemunganga/catalog-admin/internal/slot"
	"github.com/georgemunganga/catalog-admin/internal/validation"
)

// DefaultSlot is the slot name holding the category collection.
const DefaultSlot = "categories"

var (
	// ErrNotFound is returned when no category has the requested id.
	ErrNotFound = errors.New("category not found")
	// ErrConflict is returned when the collection changed between read and write.
	ErrConflict = errors.New("category store modified concurrently")
	// ErrCorrupt is returned when the stored collection cannot be decoded.
	ErrCorrupt = errors.New("category store corrupted")
	// ErrSeedFailed wraps a Seeder failure.
	ErrSeedFailed = errors.New("failed to fetch seed categories")
)

// Seeder supplies the initial category slugs. The product gateway implements it.
type Seeder interface {
	CategoryList(ctx context.Context) ([]string, error)
}

// Service defines category business logic over the persisted collection.
type Service interface {
	// Seed fills an empty store from the Seeder. It reports whether this call
	// did the seeding; an existing collection is never replaced.
	Seed(ctx context.Context) (bool, error)
	// EnsureSeeded seeds on first use and is a no-op afterwards.
	EnsureSeeded(ctx context.Context) error
	List(ctx context.Context, page pagination.Page) (*ListResult, error)
	Get(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, in CategoryInput) (*Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (*Category, error)
	// Delete removes id; a missing id is a no-op that writes nothing.
	Delete(ctx context.Context, id string) error
}

// Option customizes the service.
type Option func(*service)

// WithSlot overrides DefaultSlot.
func WithSlot(name string) Option {
	return func(s *service) { s.slotName = name }
}

// WithPublisher sends store events to p.
func WithPublisher(p Publisher) Option {
	return func(s *service) { s.publisher = p }
}

// WithIDGenerator replaces the id source for created categories.
func WithIDGenerator(fn func() string) Option {
	return func(s *service) { s.newID = fn }
}

// WithClock replaces time.Now for event timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *service) { s.now = fn }
}

type service struct {
	store     slot.Store
	seeder    Seeder
	slotName  string
	publisher Publisher
	newID     func() string
	now       func() time.Time

	// mu serializes read-modify-write cycles within this process; the slot
	// version check covers other processes.
	mu     sync.Mutex
	seeded bool
}

func NewService(store slot.Store, seeder Seeder, opts ...Option) Service {
	s := &service{
		store:    store,
		seeder:   seeder,
		slotName: DefaultSlot,
		newID:    func() string { return "cat-" + uuid.NewString() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Seed(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seedLocked(ctx)
}

func (s *service) EnsureSeeded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSeededLocked(ctx)
}

func (s *service) ensureSeededLocked(ctx context.Context) error {
	if s.seeded {
		return nil
	}
	_, err := s.seedLocked(ctx)
	return err
}

func (s *service) seedLocked(ctx context.Context) (bool, error) {
	_, err := s.store.Load(ctx, s.slotName)
	if err == nil {
		s.seeded = true
		return false, nil
	}
	if !errors.Is(err, slot.ErrNotFound) {
		return false, fmt.Errorf("failed to load categories: %w", err)
	}

	var slugs []string
	if s.seeder != nil {
		slugs, err = s.seeder.CategoryList(ctx)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrSeedFailed, err)
		}
	}

	cats := make([]Category, 0, len(slugs))
	for i, remote := range slugs {
		cats = append(cats, Category{
			ID:   fmt.Sprintf("cat-%d", i),
			Name: Humanize(remote),
			Slug: Slugify(remote),
		})
	}

	data, err := json.Marshal(cats)
	if err != nil {
		return false, fmt.Errorf("failed to encode categories: %w", err)
	}
	if _, err := s.store.Save(ctx, s.slotName, data, 0); err != nil {
		if errors.Is(err, slot.ErrVersionConflict) {
			// Another process seeded first.
			s.seeded = true
			return false, nil
		}
		return false, fmt.Errorf("failed to save seeded categories: %w", err)
	}

	s.seeded = true
	slog.Info("seeded categories", "slot", s.slotName, "count", len(cats))
	s.publish(Event{Type: EventSeeded, Count: len(cats)})
	return true, nil
}

// load reads the whole collection and the version it was stored under.
func (s *service) load(ctx context.Context) ([]Category, int64, error) {
	rec, err := s.store.Load(ctx, s.slotName)
	if errors.Is(err, slot.ErrNotFound) {
		return []Category{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load categories: %w", err)
	}
	var cats []Category
	if err := json.Unmarshal(rec.Value, &cats); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if cats == nil {
		cats = []Category{}
	}
	return cats, rec.Version, nil
}

// save writes the whole collection back, failing if it changed since read.
func (s *service) save(ctx context.Context, cats []Category, version int64) error {
	data, err := json.Marshal(cats)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	if _, err := s.store.Save(ctx, s.slotName, data, version); err != nil {
		if errors.Is(err, slot.ErrVersionConflict) {
			return fmt.Errorf("%w: expected version %d", ErrConflict, version)
		}
		return fmt.Errorf("failed to save categories: %w", err)
	}
	return nil
}

func (s *service) List(ctx context.Context, page pagination.Page) (*ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSeededLocked(ctx); err != nil {
		return nil, err
	}
	cats, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()
	return &ListResult{
		Categories: pagination.Slice(cats, page),
		Total:      len(cats),
		Skip:       page.Skip,
		Limit:      page.Limit,
	}, nil
}

func (s *service) Get(ctx context.Context, id string) (*Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSeededLocked(ctx); err != nil {
		return nil, err
	}
	cats, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(cats, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := cats[i]
	return &c, nil
}

func (s *service) Create(ctx context.Context, in CategoryInput) (*Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSeededLocked(ctx); err != nil {
		return nil, err
	}
	cats, version, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	c := Category{ID: s.newID(), Name: in.Name, Slug: Slugify(in.Name)}
	if indexOf(cats, c.ID) >= 0 {
		return nil, fmt.Errorf("%w: duplicate id %s", ErrConflict, c.ID)
	}
	if err := s.save(ctx, append(cats, c), version); err != nil {
		return nil, err
	}

	slog.Info("created category", "id", c.ID, "slug", c.Slug)
	s.publish(Event{Type: EventCreated, Category: &c})
	return &c, nil
}

func (s *service) Update(ctx context.Context, id string, patch CategoryPatch) (*Category, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSeededLocked(ctx); err != nil {
		return nil, err
	}
	cats, version, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(cats, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	c := cats[i]
	if patch.Name != nil {
		c.Name = *patch.Name
		c.Slug = Slugify(c.Name)
	}
	cats[i] = c
	if err := s.save(ctx, cats, version); err != nil {
		return nil, err
	}

	slog.Info("updated category", "id", c.ID, "slug", c.Slug)
	s.publish(Event{Type: EventUpdated, Category: &c})
	return &c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSeededLocked(ctx); err != nil {
		return err
	}
	cats, version, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(cats, id)
	if i < 0 {
		return nil
	}

	removed := cats[i]
	kept := append(cats[:i:i], cats[i+1:]...)
	if err := s.save(ctx, kept, version); err != nil {
		return err
	}

	slog.Info("deleted category", "id", id)
	s.publish(Event{Type: EventDeleted, Category: &removed})
	return nil
}

func (s *service) publish(e Event) {
	if s.publisher == nil {
		return
	}
	e.At = s.now()
	s.publisher.Publish(e)
}

func indexOf(cats []Category, id string) int {
	for i, c := range cats {
		if c.ID == id {
			return i
		}
	}
	return -1
}
