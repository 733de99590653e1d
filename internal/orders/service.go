package orders

import (
	"context"
	"fmt"

	"github.com/mbeecher/beerworks/internal/cache"
	"github.com/mbeecher/beerworks/internal/domain"
	"github.com/mbeecher/beerworks/internal/logger"
)

type Store interface {
	GetByID(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, int64, error)
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
	UpdateAggregate(ctx context.Context, o domain.Order) (domain.Order, error)
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

type Service struct {
	store     Store
	customers CustomerResolver
	beers     BeerResolver
	cache     Cache
	log       *logger.Logger
}

func NewService(store Store, customers CustomerResolver, beers BeerResolver, c Cache, log *logger.Logger) *Service {
	return &Service{store: store, customers: customers, beers: beers, cache: c, log: log}
}

type LineCreate struct {
	BeerID        string `json:"beer_id"`
	OrderQuantity int32  `json:"order_quantity"`
}

type CreateRequest struct {
	CustomerID  string       `json:"customer_id"`
	CustomerRef string       `json:"customer_ref"`
	Lines       []LineCreate `json:"beer_order_lines"`
}

type Page struct {
	Content       []domain.Order `json:"content"`
	PageNumber    int            `json:"page_number"`
	PageSize      int            `json:"page_size"`
	TotalElements int64          `json:"total_elements"`
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Order, error) {
	var cached domain.Order
	if s.cache.GetEntity(ctx, cache.KindOrder, id, &cached) {
		return cached, nil
	}
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	s.cache.PutEntity(ctx, cache.KindOrder, id, o)
	return o, nil
}

func (s *Service) List(ctx context.Context, pageNumber, pageSize int) (Page, error) {
	limit, offset := normalizePage(pageNumber, pageSize)
	sig := fmt.Sprintf("%d|%d", limit, offset)

	var cached Page
	if s.cache.GetCollection(ctx, cache.KindOrder, sig, &cached) {
		return cached, nil
	}
	content, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return Page{}, err
	}
	page := Page{
		Content:       content,
		PageNumber:    offset / limit,
		PageSize:      limit,
		TotalElements: total,
	}
	s.cache.PutCollection(ctx, cache.KindOrder, sig, page)
	return page, nil
}

// Create builds a new aggregate: the customer and every line's beer must
// resolve, or nothing is persisted.
func (s *Service) Create(ctx context.Context, req CreateRequest) (domain.Order, error) {
	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	lines := make([]domain.OrderLine, 0, len(req.Lines))
	for _, lc := range req.Lines {
		beer, err := s.beers.GetByID(ctx, lc.BeerID)
		if err != nil {
			return domain.Order{}, err
		}
		lines = append(lines, domain.OrderLine{
			BeerID:        beer.ID,
			OrderQuantity: lc.OrderQuantity,
			Status:        domain.LineStatusNew,
		})
	}

	saved, err := s.store.Create(ctx, domain.Order{
		CustomerID:  customer.ID,
		CustomerRef: req.CustomerRef,
		Lines:       lines,
	})
	if err != nil {
		return domain.Order{}, err
	}
	s.cache.InvalidateCollection(ctx, cache.KindOrder)
	return saved, nil
}

// Update loads the aggregate, reconciles the request into it, and persists
// the result through the version guard, all-or-nothing.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (domain.Order, error) {
	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := Reconcile(ctx, &order, req, s.customers, s.beers); err != nil {
		return domain.Order{}, err
	}
	saved, err := s.store.UpdateAggregate(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}
	s.invalidate(ctx, id)
	return saved, nil
}

func (s *Service) DeleteByID(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	s.cache.InvalidateEntity(ctx, cache.KindOrder, id)
	s.cache.InvalidateCollection(ctx, cache.KindOrder)
}

func normalizePage(pageNumber, pageSize int) (limit, offset int) {
	page := 0
	if pageNumber > 0 {
		page = pageNumber - 1
	}
	size := pageSize
	if size <= 0 {
		size = 25
	}
	if size > 1000 {
		size = 1000
	}
	return size, page * size
}
