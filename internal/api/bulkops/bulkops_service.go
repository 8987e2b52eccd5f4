package bulkops

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/atlasvoyages/trip-console/app/observability/metrics"
	"github.com/atlasvoyages/trip-console/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ImportReferenceData(ctx context.Context, req types.BulkImportRequest) (types.BulkImportResult, error)
	Export(ctx context.Context) (types.BulkExport, error)
}

// ExportSources are the per-domain read paths the export fans out over.
// Each field is the listing slice of the matching domain repository.
type ExportSources struct {
	Trips interface {
		ListTrips(ctx context.Context, filter types.TripFilter) ([]*types.Trip, error)
	}
	Talent interface {
		ListTalent(ctx context.Context, category string) ([]*types.Talent, error)
	}
	Locations interface {
		ListLocations(ctx context.Context, country string) ([]*types.Location, error)
	}
	Ships interface {
		ListShips(ctx context.Context) ([]*types.Ship, error)
	}
	Resorts interface {
		ListResorts(ctx context.Context) ([]*types.Resort, error)
	}
	Venues interface {
		ListVenues(ctx context.Context, venueTypeID *uuid.UUID) ([]*types.Venue, error)
	}
	Amenities interface {
		ListAmenities(ctx context.Context, category string) ([]*types.Amenity, error)
	}
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
	sources    ExportSources
}

func NewService(repo Repository, sources ExportSources, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repo,
		sources:    sources,
	}
}

func (s *ServiceImpl) ImportReferenceData(ctx context.Context, req types.BulkImportRequest) (types.BulkImportResult, error) {
	ctx, span := otel.Tracer("BulkOpsService").Start(ctx, "ImportReferenceData", trace.WithAttributes(
		attribute.Int("import.locations", len(req.Locations)),
		attribute.Int("import.talent", len(req.Talent)),
		attribute.Int("import.amenities", len(req.Amenities)),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "ImportReferenceData"))

	result, err := s.repository.ImportReferenceData(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Bulk import failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bulk import failed")
		return types.BulkImportResult{}, fmt.Errorf("bulk import: %w", err)
	}

	metrics.Get().BulkImportRowsTotal.Add(ctx, int64(result.Total))
	l.InfoContext(ctx, "Bulk import finished",
		slog.Int("total", result.Total),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))
	span.SetAttributes(
		attribute.Int("import.succeeded", result.Succeeded),
		attribute.Int("import.failed", result.Failed),
	)
	span.SetStatus(codes.Ok, "Bulk import finished")
	return result, nil
}

// Export reads every entity family concurrently and assembles a full
// snapshot. Any single read failing fails the export.
func (s *ServiceImpl) Export(ctx context.Context) (types.BulkExport, error) {
	ctx, span := otel.Tracer("BulkOpsService").Start(ctx, "Export")
	defer span.End()
	l := s.logger.With(slog.String("method", "Export"))

	var export types.BulkExport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		export.Trips, err = s.sources.Trips.ListTrips(gctx, types.TripFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		export.Talent, err = s.sources.Talent.ListTalent(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		export.Locations, err = s.sources.Locations.ListLocations(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		export.Ships, err = s.sources.Ships.ListShips(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		export.Resorts, err = s.sources.Resorts.ListResorts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		export.Venues, err = s.sources.Venues.ListVenues(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		export.Amenities, err = s.sources.Amenities.ListAmenities(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		l.ErrorContext(ctx, "Export failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Export failed")
		return types.BulkExport{}, fmt.Errorf("bulk export: %w", err)
	}

	span.SetAttributes(attribute.Int("export.trips", len(export.Trips)))
	span.SetStatus(codes.Ok, "Export assembled")
	return export, nil
}
