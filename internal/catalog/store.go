package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"ShopEase/internal/docstore"
	"ShopEase/internal/validate"
)

const (
	DocumentName    = "shops"
	DefaultCategory = "Uncategorized"
)

var (
	ErrShopNotFound    = errors.New("shop not found")
	ErrProductNotFound = errors.New("product not found")
)

type Product struct {
	Stock    int     `json:"stock"`
	Price    float64 `json:"Price"`
	Sizes    []int   `json:"Sizes"`
	Category string  `json:"Category,omitempty"`
}

// DisplayCategory returns the category, or DefaultCategory when none was set.
func (p Product) DisplayCategory() string {
	if strings.TrimSpace(p.Category) == "" {
		return DefaultCategory
	}
	return p.Category
}

type Shop struct {
	Location string             `json:"Location"`
	Products map[string]Product `json:"Products"`
}

// Catalog maps shop name to shop. It is persisted as one document.
type Catalog map[string]Shop

// ProductUpdate carries the optional fields of an update; nil means unchanged.
type ProductUpdate struct {
	Price    *float64
	Stock    *int
	Sizes    []int
	Category *string
}

type Store struct {
	mu   sync.RWMutex
	docs docstore.Store
	log  *zap.Logger
	m    Catalog
}

// NewStore loads the catalog, seeding and persisting the built-in shops when
// nothing usable is stored yet.
func NewStore(ctx context.Context, docs docstore.Store, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{docs: docs, log: log}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m Catalog
	seeded, err := docstore.LoadOrInit(ctx, s.docs, DocumentName, &m, func() { m = SeedCatalog() })
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if seeded {
		s.log.Warn("catalog missing or unreadable, seeded defaults", zap.Int("shops", len(m)))
	}

	if m == nil {
		m = Catalog{}
	}
	normalize(m)
	s.m = m
	return nil
}

func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.docs.Ping(ctx)
}

func (s *Store) AddProduct(ctx context.Context, shopName, productName string, p Product) error {
	productName = strings.TrimSpace(productName)

	s.mu.Lock()
	defer s.mu.Unlock()

	shop, ok := s.m[shopName]
	if !ok {
		return ErrShopNotFound
	}
	if productName == "" {
		return validate.ErrEmptyProductName
	}
	if p.Stock < 0 {
		return validate.ErrInvalidStock
	}
	if !validate.ValidPrice(p.Price) {
		return validate.ErrInvalidPrice
	}
	if len(p.Sizes) == 0 {
		return validate.ErrEmptySizes
	}

	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	p.Sizes = append([]int(nil), p.Sizes...)
	shop.Products[productName] = p

	s.log.Info("product saved",
		zap.String("shop", shopName),
		zap.String("product", productName),
		zap.Int("stock", p.Stock),
		zap.Float64("price", p.Price),
	)
	return s.persist(ctx)
}

func (s *Store) DeleteProduct(ctx context.Context, shopName, productName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shop, ok := s.m[shopName]
	if !ok {
		return ErrShopNotFound
	}
	if _, ok := shop.Products[productName]; !ok {
		return ErrProductNotFound
	}
	delete(shop.Products, productName)

	s.log.Info("product deleted", zap.String("shop", shopName), zap.String("product", productName))
	return s.persist(ctx)
}

// UpdateProduct validates every supplied field before applying any of them and
// persists once, even when u is empty.
func (s *Store) UpdateProduct(ctx context.Context, shopName, productName string, u ProductUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shop, ok := s.m[shopName]
	if !ok {
		return ErrShopNotFound
	}
	p, ok := shop.Products[productName]
	if !ok {
		return ErrProductNotFound
	}

	if u.Price != nil && !validate.ValidPrice(*u.Price) {
		return validate.ErrInvalidPrice
	}
	if u.Stock != nil && *u.Stock < 0 {
		return validate.ErrInvalidStock
	}
	if u.Sizes != nil && len(u.Sizes) == 0 {
		return validate.ErrEmptySizes
	}

	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Sizes != nil {
		p.Sizes = append([]int(nil), u.Sizes...)
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) != "" {
		p.Category = strings.TrimSpace(*u.Category)
	}
	shop.Products[productName] = p

	s.log.Info("product updated", zap.String("shop", shopName), zap.String("product", productName))
	return s.persist(ctx)
}

// persist must be called with s.mu held. A failed write leaves the in-memory
// change in place.
func (s *Store) persist(ctx context.Context) error {
	if err := s.docs.Save(ctx, DocumentName, s.m); err != nil {
		s.log.Error("catalog save failed", zap.Error(err))
		return err
	}
	return nil
}

func normalize(m Catalog) {
	for name, shop := range m {
		if shop.Products == nil {
			shop.Products = map[string]Product{}
			m[name] = shop
		}
	}
}
