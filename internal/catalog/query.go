package catalog

import (
	"sort"
	"strings"

	"ShopEase/internal/validate"
)

// Match is one product row of a search result together with its shop.
type Match struct {
	Shop     string  `json:"shop"`
	Location string  `json:"location"`
	Brand    string  `json:"brand"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
	Sizes    []int   `json:"sizes"`
	Category string  `json:"category"`
}

type ShopInfo struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	ProductCount int      `json:"product_count"`
	Products     []string `json:"products"`
	ProductList  string   `json:"product_list"`
}

// SearchByExactName returns one match per shop stocking a product whose name
// equals query, ignoring case. No match yields an empty slice.
func (s *Store) SearchByExactName(query string) []Match {
	query = strings.TrimSpace(query)
	return s.collect(func(brand string, _ Product) bool {
		return strings.EqualFold(brand, query)
	})
}

// SearchByMaxPrice returns every product priced at or below maxPrice.
func (s *Store) SearchByMaxPrice(maxPrice float64) ([]Match, error) {
	if !validate.ValidPrice(maxPrice) {
		return nil, validate.ErrInvalidPrice
	}
	return s.collect(func(_ string, p Product) bool {
		return p.Price <= maxPrice
	}), nil
}

// ListBrands returns the distinct product names of all shops, sorted.
func (s *Store) ListBrands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, shop := range s.m {
		for brand := range shop.Products {
			seen[brand] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func (s *Store) ShopNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.m))
	for name := range s.m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Store) ShopDetails(shopName string) (ShopInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shop, ok := s.m[shopName]
	if !ok {
		return ShopInfo{}, ErrShopNotFound
	}

	names := productNames(shop)
	return ShopInfo{
		Name:         shopName,
		Location:     shop.Location,
		ProductCount: len(names),
		Products:     names,
		ProductList:  strings.Join(names, ", "),
	}, nil
}

// Snapshot returns a deep copy of the whole catalog.
func (s *Store) Snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Catalog, len(s.m))
	for name, shop := range s.m {
		products := make(map[string]Product, len(shop.Products))
		for brand, p := range shop.Products {
			p.Sizes = append([]int(nil), p.Sizes...)
			products[brand] = p
		}
		out[name] = Shop{Location: shop.Location, Products: products}
	}
	return out
}

// collect walks shops and products in name order.
func (s *Store) collect(keep func(brand string, p Product) bool) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Match{}
	for _, shopName := range sortedShopNames(s.m) {
		shop := s.m[shopName]
		for _, brand := range productNames(shop) {
			p := shop.Products[brand]
			if !keep(brand, p) {
				continue
			}
			out = append(out, Match{
				Shop:     shopName,
				Location: shop.Location,
				Brand:    brand,
				Stock:    p.Stock,
				Price:    p.Price,
				Sizes:    append([]int(nil), p.Sizes...),
				Category: p.DisplayCategory(),
			})
		}
	}
	return out
}

func sortedShopNames(m Catalog) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func productNames(shop Shop) []string {
	out := make([]string, 0, len(shop.Products))
	for brand := range shop.Products {
		out = append(out, brand)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Product(shopName, productName string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shop, ok := s.m[shopName]
	if !ok {
		return Product{}, ErrShopNotFound
	}
	p, ok := shop.Products[productName]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	p.Sizes = append([]int(nil), p.Sizes...)
	return p, nil
}
