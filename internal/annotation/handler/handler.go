package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"varhub/internal/annotation/models"
	"varhub/internal/annotation/service"
	"varhub/internal/platform/metrics"
	"varhub/internal/platform/middleware"
	dErrors "varhub/pkg/domain-errors"
	"varhub/pkg/httputil"
)

// Service defines the interface for annotation aggregation.
type Service interface {
	GetEnhancedAnnotations(ctx context.Context, req service.Request) (*models.EnhancedAnnotation, error)
}

// Handler handles the variant annotation endpoints.
type Handler struct {
	logger       *slog.Logger
	annotations  Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new annotation Handler.
func New(
	annotations Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		annotations:  annotations,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the annotation routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	annotationRouter := chi.NewRouter()
	annotationRouter.Use(middleware.Recovery(h.logger))
	annotationRouter.Use(middleware.RequestID)
	annotationRouter.Use(middleware.Logger(h.logger))
	annotationRouter.Use(middleware.Timeout(60 * time.Second))
	annotationRouter.Use(middleware.ContentTypeJSON)
	annotationRouter.Use(middleware.Latency(h.metrics))
	annotationRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	annotationRouter.Post("/v1/variants/annotations", h.handleAnnotate)

	r.Mount("/", annotationRouter)
}

// annotateRequest is the wire form of an aggregation request. The include
// flags default to true when omitted.
type annotateRequest struct {
	VariantID              string         `json:"variant_id"`
	IncludeTCGA            *bool          `json:"include_tcga"`
	IncludeThousandGenomes *bool          `json:"include_1000g"`
	IncludeCBioPortal      *bool          `json:"include_cbioportal"`
	VariantData            map[string]any `json:"variant_data"`
	SkipCache              bool           `json:"skip_cache"`
}

func boolOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// handleAnnotate aggregates annotations for one variant.
func (h *Handler) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid annotation request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.VariantID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "variant_id is required"))
		return
	}

	annotation, err := h.annotations.GetEnhancedAnnotations(ctx, service.Request{
		VariantID:              req.VariantID,
		IncludeTCGA:            boolOrTrue(req.IncludeTCGA),
		IncludeThousandGenomes: boolOrTrue(req.IncludeThousandGenomes),
		IncludeCBioPortal:      boolOrTrue(req.IncludeCBioPortal),
		VariantData:            req.VariantData,
		SkipCache:              req.SkipCache,
	})
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "invalid annotation request",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "annotation aggregation failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to aggregate annotations"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, annotation.Render())
}
