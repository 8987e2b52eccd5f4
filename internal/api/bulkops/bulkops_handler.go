package bulkops

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/atlasvoyages/trip-console/internal/api"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	ImportHandler(w http.ResponseWriter, r *http.Request)
	ExportHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// ImportHandler loads a batch of reference data. The response is 200 even
// when individual rows failed; the per-item report says which.
func (h *HandlerImpl) ImportHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BulkOpsHandler").Start(r.Context(), "Import")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ImportHandler"))

	var req types.BulkImportRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Locations)+len(req.Talent)+len(req.Amenities) == 0 {
		span.SetStatus(codes.Error, "Empty batch")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Import batch is empty")
		return
	}

	result, err := h.service.ImportReferenceData(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Bulk import failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bulk import failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Bulk import failed")
		return
	}

	span.SetAttributes(
		attribute.Int("import.total", result.Total),
		attribute.Int("import.failed", result.Failed),
	)
	span.SetStatus(codes.Ok, "Import finished")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *HandlerImpl) ExportHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("BulkOpsHandler").Start(r.Context(), "Export")
	defer span.End()
	l := h.logger.With(slog.String("handler", "ExportHandler"))

	export, err := h.service.Export(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Export failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Export failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="trip-console-export.json"`)
	span.SetStatus(codes.Ok, "Export served")
	api.WriteJSONResponse(w, r, http.StatusOK, export)
}
