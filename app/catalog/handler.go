package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
	"github.com/italianshoes/catalog/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Response struct {
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Products []Product `json:"products"`
}

type Product struct {
	ID           string `json:"id"`
	Handle       string `json:"handle"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	DisplayPrice string `json:"displayPrice"`
	Currency     string `json:"currency"`
	IsActive     bool   `json:"isActive"`
}

type productInput struct {
	Handle      string `json:"handle" validate:"required,max=64"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Price       *int64 `json:"price" validate:"required,gte=0"`
	Currency    string `json:"currency" validate:"omitempty,oneof=USD EUR GBP INR"`
	IsActive    *bool  `json:"isActive"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(ctx context.Context, ref string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type CatalogHandler struct {
	repo   ProductProvider
	logger *zap.Logger
}

func NewCatalogHandler(r ProductProvider, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{
		repo:   r,
		logger: logger,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	page := 1
	limit := defaultLimit

	if pStr := r.URL.Query().Get("page"); pStr != "" {
		if p, err := strconv.Atoi(pStr); err == nil && p >= 1 {
			page = p
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > maxLimit {
				limit = maxLimit
			} else {
				limit = l
			}
		}
	}

	// Parse filters
	filters := models.ProductFilters{
		Query:      r.URL.Query().Get("q"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), (page-1)*limit, limit, filters)
	if err != nil {
		h.logger.Error("listing products", zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	api.OKResponse(w, http.StatusOK, Response{
		Total:    int(total),
		Page:     page,
		Limit:    limit,
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	api.OKResponse(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	product := &models.Product{Currency: "INR", IsActive: true}
	input.apply(product)

	if err := h.repo.CreateProduct(r.Context(), product); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			api.ErrorResponse(w, http.StatusConflict, "Product with this handle already exists")
			return
		}
		h.logger.Error("creating product", zap.String("handle", product.Handle), zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	api.OKResponse(w, http.StatusCreated, toProduct(*product))
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := api.DecodeJSON(r, &input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	input.apply(product)

	if err := h.repo.UpdateProduct(r.Context(), product); err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicate):
			api.ErrorResponse(w, http.StatusConflict, "Product with this handle already exists")
		case errors.Is(err, models.ErrProductNotFound):
			api.ErrorResponse(w, http.StatusNotFound, "Product not found")
		default:
			h.logger.Error("updating product", zap.String("product_id", product.ID), zap.Error(err))
			api.ErrorResponse(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	api.OKResponse(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			api.ErrorResponse(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("deleting product", zap.String("product", r.PathValue("id")), zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	api.OKResponse(w, http.StatusOK, map[string]string{
		"message": "Product deleted successfully",
	})
}

func (h *CatalogHandler) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	product, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			api.ErrorResponse(w, http.StatusNotFound, "Product not found")
			return nil, false
		}
		h.logger.Error("loading product", zap.String("product", r.PathValue("id")), zap.Error(err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve product")
		return nil, false
	}
	return product, true
}

// apply copies the input onto p. Omitted currency and isActive keep the
// values p already holds.
func (in productInput) apply(p *models.Product) {
	p.Handle = in.Handle
	p.Title = in.Title
	p.Description = in.Description
	p.Price = *in.Price
	if in.Currency != "" {
		p.Currency = in.Currency
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func toProduct(p models.Product) Product {
	return Product{
		ID:           p.ID,
		Handle:       p.Handle,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		DisplayPrice: api.FormatPrice(p.Price),
		Currency:     p.Currency,
		IsActive:     p.IsActive,
	}
}
