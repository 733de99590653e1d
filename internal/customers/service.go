package customers

import (
	"context"
	"fmt"

	"github.com/mbeecher/beerworks/internal/cache"
	"github.com/mbeecher/beerworks/internal/domain"
	"github.com/mbeecher/beerworks/internal/logger"
)

type Store interface {
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]domain.Customer, int64, error)
	Insert(ctx context.Context, c domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (domain.Customer, error)
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
	store Store
	cache Cache
	log   *logger.Logger
}

func NewService(store Store, c Cache, log *logger.Logger) *Service {
	return &Service{store: store, cache: c, log: log}
}

type Page struct {
	Content       []domain.Customer `json:"content"`
	PageNumber    int               `json:"page_number"`
	PageSize      int               `json:"page_size"`
	TotalElements int64             `json:"total_elements"`
}

type Patch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	var cached domain.Customer
	if s.cache.GetEntity(ctx, cache.KindCustomer, id, &cached) {
		return cached, nil
	}
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	s.cache.PutEntity(ctx, cache.KindCustomer, id, c)
	return c, nil
}

func (s *Service) List(ctx context.Context, pageNumber, pageSize int) (Page, error) {
	limit, offset := normalizePage(pageNumber, pageSize)
	sig := fmt.Sprintf("%d|%d", limit, offset)

	var cached Page
	if s.cache.GetCollection(ctx, cache.KindCustomer, sig, &cached) {
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
	s.cache.PutCollection(ctx, cache.KindCustomer, sig, page)
	return page, nil
}

func (s *Service) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if c.Name == "" {
		return domain.Customer{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	saved, err := s.store.Insert(ctx, c)
	if err != nil {
		return domain.Customer{}, err
	}
	s.cache.InvalidateCollection(ctx, cache.KindCustomer)
	return saved, nil
}

func (s *Service) Update(ctx context.Context, id string, c domain.Customer) (domain.Customer, error) {
	if c.Name == "" {
		return domain.Customer{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	c.ID = id
	saved, err := s.store.Update(ctx, c)
	if err != nil {
		return domain.Customer{}, err
	}
	s.invalidate(ctx, id)
	return saved, nil
}

func (s *Service) PatchByID(ctx context.Context, id string, p Patch) (domain.Customer, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if p.Name != nil && *p.Name != "" {
		c.Name = *p.Name
	}
	if p.Email != nil && *p.Email != "" {
		c.Email = *p.Email
	}
	saved, err := s.store.Update(ctx, c)
	if err != nil {
		return domain.Customer{}, err
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
	s.cache.InvalidateEntity(ctx, cache.KindCustomer, id)
	s.cache.InvalidateCollection(ctx, cache.KindCustomer)
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
