package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ShopEase/internal/docstore"
)

var inventoryHeader = []string{"Product", "Stock", "Price", "Sizes", "Category"}

// WriteInventory writes the products of one shop as CSV.
func (s *Store) WriteInventory(w io.Writer, shopName string) error {
	rows, err := s.inventoryRows(shopName)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// ExportInventory writes the inventory CSV of one shop to path.
func (s *Store) ExportInventory(shopName, path string) error {
	if _, err := s.inventoryRows(shopName); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		s.log.Error("export inventory failed", zap.String("path", path), zap.Error(err))
		return errors.Join(docstore.ErrWriteFailed, err)
	}

	werr := s.WriteInventory(f, shopName)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		s.log.Error("export inventory failed", zap.String("path", path), zap.Error(err))
		return errors.Join(docstore.ErrWriteFailed, fmt.Errorf("write %s: %w", path, err))
	}

	s.log.Info("inventory exported", zap.String("shop", shopName), zap.String("path", path))
	return nil
}

func (s *Store) inventoryRows(shopName string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shop, ok := s.m[shopName]
	if !ok {
		return nil, ErrShopNotFound
	}

	rows := make([][]string, 0, len(shop.Products))
	for _, brand := range productNames(shop) {
		p := shop.Products[brand]
		rows = append(rows, []string{
			brand,
			strconv.Itoa(p.Stock),
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			joinSizes(p.Sizes),
			p.DisplayCategory(),
		})
	}
	return rows, nil
}

func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
