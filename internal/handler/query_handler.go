package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/dto"
	"github.com/octobees/place-finder/internal/entity"
	middlewarepkg "github.com/octobees/place-finder/internal/middleware"
	"github.com/octobees/place-finder/internal/service"
)

// QueryResolver runs the place query pipeline.
type QueryResolver interface {
	Resolve(ctx context.Context, req service.QueryRequest) (*entity.QueryResult, error)
}

// QueryHandler serves natural-language place queries.
type QueryHandler struct {
	resolver    QueryResolver
	development bool
	logger      *zap.Logger
}

// NewQueryHandler wires the handler. development exposes internal error
// detail in 500 responses.
func NewQueryHandler(resolver QueryResolver, development bool, logger *zap.Logger) *QueryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryHandler{resolver: resolver, development: development, logger: logger}
}

// Query resolves a prompt into places and a narrative.
func (h *QueryHandler) Query(c echo.Context) error {
	rid := middlewarepkg.RequestIDFromContext(c)

	var req dto.QueryRequest
	if err := c.Bind(&req); err != nil {
		return ErrorWithDetail(c, http.StatusBadRequest, ErrorResponse{Message: "invalid payload", RequestID: rid})
	}
	req.Normalize()
	if err := req.Validate(service.MaxResultsLimit); err != nil {
		return ErrorWithDetail(c, http.StatusBadRequest, ErrorResponse{Message: err.Error(), RequestID: rid})
	}

	in := service.QueryRequest{
		Prompt:     req.Prompt,
		MaxResults: req.MaxResultsOr(service.DefaultMaxResults),
		UseCache:   req.CacheEnabled(),
		RequestID:  rid,
	}
	if req.UserLocation != nil {
		in.UserLocation = &entity.Coordinates{Lat: req.UserLocation.Lat, Lng: req.UserLocation.Lng}
	}

	result, err := h.resolver.Resolve(c.Request().Context(), in)
	if err != nil {
		return h.queryError(c, rid, err)
	}
	return Success(c, http.StatusOK, "", result)
}

func (h *QueryHandler) queryError(c echo.Context, rid string, err error) error {
	var qe *service.QueryError
	if errors.As(err, &qe) && qe.RequestID != "" {
		rid = qe.RequestID
	}

	if errors.Is(err, service.ErrNoResults) {
		payload := ErrorResponse{
			Message:   "no places found for your request",
			Error:     service.ErrNoResults.Error(),
			RequestID: rid,
		}
		if qe != nil {
			payload.LLMText = &qe.NarrativeText
		}
		return ErrorWithDetail(c, http.StatusNotFound, payload)
	}

	payload := ErrorResponse{
		Message:   service.ErrQueryFailed.Error(),
		Error:     "internal error",
		RequestID: rid,
	}
	if h.development {
		payload.Error = err.Error()
	}
	h.logger.Error("query request failed", zap.String("request_id", rid), zap.Error(err))
	return ErrorWithDetail(c, http.StatusInternalServerError, payload)
}
