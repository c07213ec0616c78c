// Package cart keeps the client-side shopping cart: a flat list of line items
// serialized as JSON under a single storage key.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"coffee-shop/internal/domain"
	"coffee-shop/internal/format"
)

const StorageKey = "cart"

var (
	ErrInvalidPrice = errors.New("invalid price")
	ErrInvalidItem  = errors.New("invalid cart item")
	ErrCorrupt      = errors.New("stored cart is not valid JSON")
)

// Store is the persistence port, shaped like browser local storage.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Display receives the rendered count and total.
type Display interface {
	SetCount(text string)
	SetTotal(text string)
}

type Summary struct {
	Count int
	Total float64
}

type Service struct {
	store Store
	mu    sync.Mutex // read-modify-write of the stored list
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ParsePrice parses a price attribute. Non-numeric, non-finite and negative
// values are rejected.
func ParsePrice(raw string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return p, nil
}

func (s *Service) Items(ctx context.Context) ([]domain.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add merges into the entry with the same id or appends a new one with quantity 1.
func (s *Service) Add(ctx context.Context, id, name string, price float64) ([]domain.LineItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty menu id", ErrInvalidItem)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range items {
		if items[i].MenuID == id {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.LineItem{MenuID: id, MenuName: name, MenuPrice: price, Quantity: 1})
	}
	if err := s.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddRaw is Add with the price still in its attribute form.
func (s *Service) AddRaw(ctx context.Context, id, name, rawPrice string) ([]domain.LineItem, error) {
	price, err := ParsePrice(rawPrice)
	if err != nil {
		return nil, err
	}
	return s.Add(ctx, id, name, price)
}

// Clear drops the whole collection.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}

// Render recomputes the summary from storage and writes it to d.
func (s *Service) Render(ctx context.Context, d Display) (Summary, error) {
	sum, err := s.Summary(ctx)
	if err != nil {
		return Summary{}, err
	}
	if d != nil {
		d.SetCount(strconv.Itoa(sum.Count))
		d.SetTotal(format.Currency(sum.Total))
	}
	return sum, nil
}

func Summarize(items []domain.LineItem) Summary {
	var sum Summary
	for _, it := range items {
		sum.Count += it.Quantity
		sum.Total += it.MenuPrice * float64(it.Quantity)
	}
	return sum
}

func (s *Service) load(ctx context.Context) ([]domain.LineItem, error) {
	raw, ok, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !ok || raw == "" {
		return []domain.LineItem{}, nil
	}
	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, items []domain.LineItem) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.store.Set(ctx, StorageKey, string(b)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
