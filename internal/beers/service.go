package beers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mbeecher/beerworks/internal/cache"
	"github.com/mbeecher/beerworks/internal/domain"
	"github.com/mbeecher/beerworks/internal/logger"
)

type Store interface {
	GetByID(ctx context.Context, id string) (domain.Beer, error)
	List(ctx context.Context, q domain.BeerQuery) ([]domain.Beer, int64, error)
	Insert(ctx context.Context, b domain.Beer) (domain.Beer, error)
	Update(ctx context.Context, b domain.Beer) (domain.Beer, error)
	Delete(ctx context.Context, id string) error
}

type Cache interface {
	GetEntity(ctx context.Context, kind, id string, out any) bool
	PutEntity(ctx context.Context, kind, id string, v any)
	GetCollection(ctx context.Context, kind, sig string, out any) bool
	PutCollection(ctx context.Context, kind, sig string, v any)
	InvalidateEntity(ctx context.Context, kind, id string)
	InvalidateCollection(ctx context.Context, kind string)
}

// Auditor is fire-and-forget: it must never block or fail the mutation.
type Auditor interface {
	Publish(beer domain.Beer, eventType, principal string)
}

type Service struct {
	store Store
	cache Cache
	audit Auditor
	log   *logger.Logger
}

func NewService(store Store, c Cache, audit Auditor, log *logger.Logger) *Service {
	return &Service{store: store, cache: c, audit: audit, log: log}
}

type ListParams struct {
	Name          string
	Style         domain.Style
	ShowInventory bool
	PageNumber    int
	PageSize      int
}

type Page struct {
	Content       []domain.Beer `json:"content"`
	PageNumber    int           `json:"page_number"`
	PageSize      int           `json:"page_size"`
	TotalElements int64         `json:"total_elements"`
}

type Patch struct {
	Name           *string          `json:"beer_name"`
	Style          *domain.Style    `json:"beer_style"`
	UPC            *string          `json:"upc"`
	QuantityOnHand *int32           `json:"quantity_on_hand"`
	Price          *decimal.Decimal `json:"price"`
}

// GetByID is a read-through lookup: entity cache first, store on miss,
// populate on the way out.
func (s *Service) GetByID(ctx context.Context, id string) (domain.Beer, error) {
	var cached domain.Beer
	if s.cache.GetEntity(ctx, cache.KindBeer, id, &cached) {
		return cached, nil
	}
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Beer{}, err
	}
	s.cache.PutEntity(ctx, cache.KindBeer, id, b)
	return b, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (Page, error) {
	q := Plan(p.Name, p.Style, p.PageNumber, p.PageSize)
	sig := signature(q, p.ShowInventory)

	var cached Page
	if s.cache.GetCollection(ctx, cache.KindBeer, sig, &cached) {
		return cached, nil
	}

	content, total, err := s.store.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	if !p.ShowInventory {
		// view-level suppression only; the stored value is untouched
		for i := range content {
			content[i].QuantityOnHand = nil
		}
	}
	page := Page{
		Content:       content,
		PageNumber:    q.Offset / q.Limit,
		PageSize:      q.Limit,
		TotalElements: total,
	}
	s.cache.PutCollection(ctx, cache.KindBeer, sig, page)
	return page, nil
}

func (s *Service) Create(ctx context.Context, b domain.Beer, principal string) (domain.Beer, error) {
	if err := validate(b); err != nil {
		return domain.Beer{}, err
	}
	saved, err := s.store.Insert(ctx, b)
	if err != nil {
		return domain.Beer{}, err
	}
	s.cache.InvalidateCollection(ctx, cache.KindBeer)
	s.audit.Publish(saved, domain.EventBeerCreated, principal)
	return saved, nil
}

// Update is a full replace guarded by the version the caller read.
func (s *Service) Update(ctx context.Context, id string, b domain.Beer, principal string) (domain.Beer, error) {
	if err := validate(b); err != nil {
		return domain.Beer{}, err
	}
	b.ID = id
	saved, err := s.store.Update(ctx, b)
	if err != nil {
		return domain.Beer{}, err
	}
	s.invalidate(ctx, id)
	s.audit.Publish(saved, domain.EventBeerUpdated, principal)
	return saved, nil
}

// PatchByID applies only the fields present in the patch. The write is
// guarded by the version current at read time, so a concurrent full update
// still conflicts instead of being silently overwritten.
func (s *Service) PatchByID(ctx context.Context, id string, p Patch, principal string) (domain.Beer, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Beer{}, err
	}
	if p.Name != nil && *p.Name != "" {
		b.Name = *p.Name
	}
	if p.Style != nil && *p.Style != "" {
		b.Style = *p.Style
	}
	if p.UPC != nil && *p.UPC != "" {
		b.UPC = *p.UPC
	}
	if p.QuantityOnHand != nil {
		b.QuantityOnHand = p.QuantityOnHand
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if err := validate(b); err != nil {
		return domain.Beer{}, err
	}
	saved, err := s.store.Update(ctx, b)
	if err != nil {
		return domain.Beer{}, err
	}
	s.invalidate(ctx, id)
	s.audit.Publish(saved, domain.EventBeerPatched, principal)
	return saved, nil
}

// DeleteByID records the last stored snapshot in the audit trail before the
// row goes away.
func (s *Service) DeleteByID(ctx context.Context, id string, principal string) error {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.audit.Publish(b, domain.EventBeerDeleted, principal)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	s.cache.InvalidateEntity(ctx, cache.KindBeer, id)
	s.cache.InvalidateCollection(ctx, cache.KindBeer)
}

func validate(b domain.Beer) error {
	if b.Name == "" {
		return &domain.ValidationError{Field: "beer_name", Reason: "must not be empty"}
	}
	if len(b.Name) > 50 {
		return &domain.ValidationError{Field: "beer_name", Reason: "must be at most 50 characters"}
	}
	if !b.Style.Valid() {
		return &domain.ValidationError{Field: "beer_style", Reason: "unknown style"}
	}
	if b.UPC == "" {
		return &domain.ValidationError{Field: "upc", Reason: "must not be empty"}
	}
	if b.Price.IsNegative() {
		return &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}
