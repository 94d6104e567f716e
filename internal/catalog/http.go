package catalog

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"ShopEase/internal/docstore"
	"ShopEase/internal/validate"
	"ShopEase/pkg/kit"
)

type Server struct {
	Store *Store
	Log   *zap.Logger

	// RequireAdmin guards every mutating route. When nil those routes answer 403.
	RequireAdmin func(http.Handler) http.Handler
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/products", s.searchByName)
	r.Get("/products/under", s.searchByPrice)
	r.Get("/brands", s.brands)
	r.Get("/shops", s.shops)
	r.Get("/shops/{shop}", s.shopDetails)
	r.Get("/shops/{shop}/products/{product}", s.product)
	r.Get("/suggest/products", s.suggestProducts)
	r.Get("/suggest/shops", s.suggestShops)

	r.Group(func(ar chi.Router) {
		ar.Use(s.adminOnly)
		ar.Post("/shops/{shop}/products", s.addProduct)
		ar.Patch("/shops/{shop}/products/{product}", s.updateProduct)
		ar.Delete("/shops/{shop}/products/{product}", s.deleteProduct)
		ar.Get("/shops/{shop}/inventory.csv", s.exportInventory)
	})

	return r
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	if s.RequireAdmin == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		})
	}
	return s.RequireAdmin(next)
}

func (s *Server) searchByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "name required", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, s.Store.SearchByExactName(name))
}

func (s *Server) searchByPrice(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("max_price"))
	maxPrice, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.writeError(w, r, validate.ErrInvalidPrice)
		return
	}

	matches, err := s.Store.SearchByMaxPrice(maxPrice)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, matches)
}

func (s *Server) brands(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.ListBrands())
}

func (s *Server) shops(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.ShopNames())
}

func (s *Server) shopDetails(w http.ResponseWriter, r *http.Request) {
	info, err := s.Store.ShopDetails(pathParam(r, "shop"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, info)
}

func (s *Server) product(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "product")
	p, err := s.Store.Product(pathParam(r, "shop"), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, newProductView(name, p))
}

func (s *Server) suggestProducts(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.SuggestProducts(r.URL.Query().Get("q")))
}

func (s *Server) suggestShops(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Store.SuggestShops(r.URL.Query().Get("q")))
}

// ProductView is the wire shape of one product, keyed like Match.
type ProductView struct {
	Name     string  `json:"name"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
	Sizes    []int   `json:"sizes"`
	Category string  `json:"category"`
}

func newProductView(name string, p Product) ProductView {
	return ProductView{
		Name:     name,
		Stock:    p.Stock,
		Price:    p.Price,
		Sizes:    p.Sizes,
		Category: p.DisplayCategory(),
	}
}

// productForm carries the raw text of the product form. Blank fields of an
// update leave the stored value unchanged.
type productForm struct {
	Name     string `json:"name"`
	Stock    string `json:"stock"`
	Price    string `json:"price"`
	Sizes    string `json:"sizes"`
	Category string `json:"category"`
}

func (f productForm) product() (Product, error) {
	if strings.TrimSpace(f.Name) == "" {
		return Product{}, validate.ErrEmptyProductName
	}
	stock, err := validate.ParseStock(f.Stock)
	if err != nil {
		return Product{}, err
	}
	price, err := validate.ParsePrice(f.Price)
	if err != nil {
		return Product{}, err
	}
	sizes, err := validate.ParseSizes(f.Sizes)
	if err != nil {
		return Product{}, err
	}
	return Product{Stock: stock, Price: price, Sizes: sizes, Category: strings.TrimSpace(f.Category)}, nil
}

func (f productForm) update() (ProductUpdate, error) {
	var u ProductUpdate

	if strings.TrimSpace(f.Price) != "" {
		price, err := validate.ParsePrice(f.Price)
		if err != nil {
			return u, err
		}
		u.Price = &price
	}
	if strings.TrimSpace(f.Stock) != "" {
		stock, err := validate.ParseStock(f.Stock)
		if err != nil {
			return u, err
		}
		u.Stock = &stock
	}
	if strings.TrimSpace(f.Sizes) != "" {
		sizes, err := validate.ParseSizes(f.Sizes)
		if err != nil {
			return u, err
		}
		u.Sizes = sizes
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		u.Category = &c
	}
	return u, nil
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	shop := pathParam(r, "shop")

	var form productForm
	if err := kit.DecodeJSON(w, r, &form); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	if _, err := s.Store.ShopDetails(shop); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := form.product()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := strings.TrimSpace(form.Name)
	if err := s.Store.AddProduct(r.Context(), shop, name, p); err != nil {
		s.writeError(w, r, err)
		return
	}

	saved, err := s.Store.Product(shop, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, newProductView(name, saved))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	shop, name := pathParam(r, "shop"), pathParam(r, "product")

	var form productForm
	if err := kit.DecodeJSON(w, r, &form); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	if _, err := s.Store.Product(shop, name); err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := form.update()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.Store.UpdateProduct(r.Context(), shop, name, u); err != nil {
		s.writeError(w, r, err)
		return
	}

	updated, err := s.Store.Product(shop, name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, newProductView(name, updated))
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteProduct(r.Context(), pathParam(r, "shop"), pathParam(r, "product")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportInventory(w http.ResponseWriter, r *http.Request) {
	shop := pathParam(r, "shop")
	if _, err := s.Store.ShopDetails(shop); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := s.Store.WriteInventory(w, shop); err != nil && s.Log != nil {
		s.Log.Error("write inventory failed", zap.Error(err), zap.String("shop", shop))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrShopNotFound), errors.Is(err, ErrProductNotFound):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, validate.ErrEmptyProductName),
		errors.Is(err, validate.ErrInvalidStock),
		errors.Is(err, validate.ErrInvalidPrice),
		errors.Is(err, validate.ErrEmptySizes),
		errors.Is(err, validate.ErrInvalidSizes):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, docstore.ErrWriteFailed):
		kit.WriteError(w, r, http.StatusInternalServerError, docstore.ErrWriteFailed.Error(), nil)
	default:
		if s.Log != nil {
			s.Log.Error("catalog request failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

// pathParam returns the decoded URL parameter. chi matches on RawPath when the
// request carried one (an escaped "/"), leaving the parameter still escaped.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if dec, err := url.PathUnescape(v); err == nil {
		return dec
	}
	return v
}
