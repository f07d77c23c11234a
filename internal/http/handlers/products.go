package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/veiling/veiling-be/internal/http/respond"
	"github.com/veiling/veiling-be/internal/metrics"
	"github.com/veiling/veiling-be/internal/models"
	"github.com/veiling/veiling-be/internal/models/dto"
	"github.com/veiling/veiling-be/internal/service"
)

// ProductService is the product use-case surface the handler needs.
type ProductService interface {
	Create(ctx context.Context, p service.NewProduct) (models.Product, error)
	ListBySellerEmail(ctx context.Context, email string) ([]models.Product, error)
}

// ProductsHandler serves the /api/products routes.
type ProductsHandler struct {
	products ProductService
	validate *requestValidator
	log      *zap.Logger
}

func NewProductsHandler(products ProductService, log *zap.Logger) *ProductsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductsHandler{products: products, validate: newRequestValidator(), log: log}
}

// Register attaches product routes to the mux.
func (h *ProductsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/products", h.handleCreate)
	mux.HandleFunc("GET /api/products/mine", h.handleMine)
}

func (h *ProductsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := h.validate.Validate(req); errs != nil {
		respond.ErrorDetails(w, http.StatusBadRequest, summary(errs), errs)
		return
	}

	created, err := h.products.Create(r.Context(), service.NewProduct{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		SellerEmail: strings.TrimSpace(req.SellerEmail),
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	metrics.ProductsCreatedTotal.Inc()
	respond.Created(w, "", "product created", dto.NewProductResponse(created))
}

func (h *ProductsHandler) handleMine(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	products, err := h.products.ListBySellerEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, "products retrieved", dto.NewProductResponses(products))
}
