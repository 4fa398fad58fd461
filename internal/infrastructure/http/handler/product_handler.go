package handler

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/product-catalog-api/internal/app/dto"
	"github.com/mrops-br/product-catalog-api/internal/app/service"
	"github.com/mrops-br/product-catalog-api/internal/domain"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/response"
)

var errInvalidID = errors.New("invalid product id")

// multipart overhead allowed on top of the image size limit
const formOverhead = 1 << 20

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	service      *service.CatalogService
	maxImageSize int64
	logger       *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(svc *service.CatalogService, maxImageSize int64, logger *slog.Logger) *ProductHandler {
	if maxImageSize <= 0 {
		maxImageSize = service.DefaultMaxImageSize
	}
	return &ProductHandler{
		service:      svc,
		maxImageSize: maxImageSize,
		logger:       logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.ViewAll)
}

// Shop handles GET /shop, the listing of active products
func (h *ProductHandler) Shop(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.ViewActive)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, view domain.View) {
	q := r.URL.Query()
	catalog, err := h.service.ListProducts(r.Context(), view, q.Get("search"), q.Get("category"))
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, catalog)
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	response.JSON(w, http.StatusOK, categories)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /products with a multipart form
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, upload, cleanup, err := h.parseProductForm(w, r)
	defer cleanup()
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req, upload)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/{id}. The image part is optional.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	req, upload, cleanup, err := h.parseProductForm(w, r)
	defer cleanup()
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, req, upload)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}
	response.NoContent(w)
}

func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		h.logger.WarnContext(r.Context(), "Invalid product ID format",
			slog.String("product_id", raw),
		)
		response.Error(w, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return id, true
}

// parseProductForm reads the product fields and the optional "image" file.
// The returned cleanup func must always be called.
func (h *ProductHandler) parseProductForm(w http.ResponseWriter, r *http.Request) (*dto.ProductRequest, *service.ImageUpload, func(), error) {
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageSize+formOverhead)
	if err := r.ParseMultipartForm(h.maxImageSize + formOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, cleanup, domain.ErrImageTooLarge
		}
		return nil, nil, cleanup, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "form", Message: "malformed form body"},
		}}
	}
	if r.MultipartForm == nil {
		if err := r.ParseForm(); err != nil {
			return nil, nil, cleanup, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "form", Message: "malformed form body"},
			}}
		}
	} else {
		cleanup = func() { _ = r.MultipartForm.RemoveAll() }
	}

	req := &dto.ProductRequest{Name: r.FormValue("name")}
	var fieldErrs []domain.FieldError

	if v := strings.TrimSpace(r.FormValue("price")); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
			fieldErrs = append(fieldErrs, domain.FieldError{Field: "price", Message: "price must be a finite number"})
		}
		req.Price = price
	}
	if v := strings.TrimSpace(r.FormValue("category_id")); v != "" {
		categoryID, err := strconv.Atoi(v)
		if err != nil {
			fieldErrs = append(fieldErrs, domain.FieldError{Field: "category_id", Message: "category_id must be an integer"})
		}
		req.CategoryID = categoryID
	}
	if v := strings.TrimSpace(r.FormValue("is_active")); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil && !strings.EqualFold(v, "on") {
			fieldErrs = append(fieldErrs, domain.FieldError{Field: "is_active", Message: "is_active must be a boolean"})
		}
		req.IsActive = active || strings.EqualFold(v, "on")
	}
	if len(fieldErrs) > 0 {
		return nil, nil, cleanup, &domain.ValidationError{Fields: fieldErrs}
	}

	if r.MultipartForm == nil {
		return req, nil, cleanup, nil
	}
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, cleanup, nil
	}
	if err != nil {
		return nil, nil, cleanup, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "image", Message: "unreadable image part"},
		}}
	}

	removeForm := cleanup
	cleanup = func() {
		_ = file.Close()
		removeForm()
	}
	return req, &service.ImageUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, cleanup, nil
}
