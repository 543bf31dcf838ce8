package controller

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vitrine/internal/domain"
	"vitrine/internal/dto"
	apperrors "vitrine/internal/errors"
	"vitrine/internal/response"
	"vitrine/internal/validation"
)

type ProductService interface {
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	GetProducts(ctx context.Context, ids []int) ([]domain.Product, []int, error)
}

type Controller struct {
	service  ProductService
	validate *validatorv10.Validate
	logger   *zap.Logger
}

func NewController(service ProductService, validate *validatorv10.Validate, logger *zap.Logger) *Controller {
	return &Controller{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

func (c *Controller) GetProduct(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	id, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil || id <= 0 {
		response.ValidationError(w, traceID, "invalid productId", logger, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	p, err := c.service.GetProduct(r.Context(), id)
	if err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	response.JSON(w, http.StatusOK, toProductResponse(*p), logger)
}

func (c *Controller) SearchProducts(w http.ResponseWriter, r *http.Request) {
	traceID := response.NewTraceID()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.SearchProductsRequest
	if !response.DecodeJSON(w, r, traceID, &req, logger) {
		return
	}

	if err := validation.Struct(c.validate, req); err != nil {
		response.AppError(w, traceID, err, logger)
		return
	}

	found, notFound, err := c.service.GetProducts(r.Context(), req.ProductIDs)
	if err != nil {
		logger.Error("search products failed", zap.Error(err))
		response.AppError(w, traceID, err, logger)
		return
	}

	resp := dto.SearchProductsResponse{
		Products:    make([]dto.ProductResponse, 0, len(found)),
		NotFoundIDs: notFound,
	}
	if resp.NotFoundIDs == nil {
		resp.NotFoundIDs = []int{}
	}
	for _, p := range found {
		resp.Products = append(resp.Products, toProductResponse(p))
	}

	response.JSON(w, http.StatusOK, resp, logger)
}

func toProductResponse(p domain.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:                  p.ID,
		CreatorID:           p.CreatorID,
		Slug:                p.Slug,
		Name:                p.Name,
		Kind:                string(p.Kind),
		PriceCents:          p.PriceCents,
		CompareAtPriceCents: p.CompareAtPriceCents,
		Active:              p.Active,
		InStock:             true,
	}
	if p.IsPhysical() {
		resp.StockQuantity = p.StockQuantity
		resp.InStock = p.AvailableStock() > 0
	}
	return resp
}
