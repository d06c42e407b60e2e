package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/bodega-pos/bodega/internal/platform/httpx"
	"github.com/bodega-pos/bodega/internal/shared"
)

// Handler wires HTTP endpoints for ledger mutations.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/intake", h.handleIntake)
	r.Post("/sales", h.handleSale)
	r.Delete("/products/{id}", h.handleDeleteProduct)
}

type intakeRequest struct {
	Name         string  `json:"name" validate:"required"`
	Category     string  `json:"category" validate:"required"`
	Cost         float64 `json:"cost" validate:"gte=0"`
	ProfitMargin float64 `json:"profit_margin" validate:"gte=0,lte=100"`
	Quantity     int64   `json:"quantity" validate:"gte=1"`
}

type saleRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

func (h *Handler) handleIntake(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := h.service.UpsertStock(r.Context(), IntakeInput{
		Name:         req.Name,
		Category:     req.Category,
		Cost:         req.Cost,
		ProfitMargin: req.ProfitMargin,
		Quantity:     req.Quantity,
	})
	if err != nil {
		h.respondServiceError(w, "upsert stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey != "" {
		if _, err := uuid.Parse(idemKey); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "Idempotency-Key must be a UUID")
			return
		}
	}

	result, err := h.service.RecordSale(r.Context(), SaleInput{
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		h.respondServiceError(w, "record sale", err)
		return
	}
	if !result.Accepted {
		// Unknown product and insufficient stock surface identically: the
		// sale did not happen and stock is unchanged.
		httpx.JSON(w, http.StatusConflict, result)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "product id must be a positive integer")
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.respondServiceError(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidCost), errors.Is(err, ErrInvalidMargin):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrConflict, err))
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
