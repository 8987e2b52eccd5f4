package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/atlasvoyages/trip-console/app/db"
	"github.com/atlasvoyages/trip-console/config"
	"github.com/atlasvoyages/trip-console/internal/api/amenities"
	"github.com/atlasvoyages/trip-console/internal/api/auth"
	"github.com/atlasvoyages/trip-console/internal/api/bulkops"
	"github.com/atlasvoyages/trip-console/internal/api/locations"
	"github.com/atlasvoyages/trip-console/internal/api/resorts"
	"github.com/atlasvoyages/trip-console/internal/api/ships"
	"github.com/atlasvoyages/trip-console/internal/api/talent"
	"github.com/atlasvoyages/trip-console/internal/api/trips"
	"github.com/atlasvoyages/trip-console/internal/api/tripwizard"
	"github.com/atlasvoyages/trip-console/internal/api/venues"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool

	AuthHandler      *auth.HandlerImpl
	TripsHandler     *trips.HandlerImpl
	WizardHandler    *tripwizard.HandlerImpl
	TalentHandler    *talent.HandlerImpl
	LocationsHandler *locations.HandlerImpl
	ShipsHandler     *ships.HandlerImpl
	ResortsHandler   *resorts.HandlerImpl
	VenuesHandler    *venues.HandlerImpl
	AmenitiesHandler *amenities.HandlerImpl
	BulkOpsHandler   *bulkops.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	authRepo := auth.NewRepository(pool, logger)
	authService := auth.NewService(authRepo, cfg.Auth, logger)
	authHandler := auth.NewHandler(authService, logger)

	tripsRepo := trips.NewRepository(pool, logger)
	tripsService := trips.NewServiceImpl(tripsRepo, logger)
	tripsHandler := trips.NewHandler(tripsService, logger)

	wizardRepo := tripwizard.NewRepository(pool, logger)
	wizardService := tripwizard.NewServiceImpl(wizardRepo, tripwizard.NewSessionStore(), logger)
	wizardHandler := tripwizard.NewHandler(wizardService, logger)

	talentRepo := talent.NewRepository(pool, logger)
	talentHandler := talent.NewHandler(talentRepo, logger)

	locationsRepo := locations.NewRepository(pool, logger)
	locationsHandler := locations.NewHandler(locationsRepo, logger)

	shipsRepo := ships.NewRepository(pool, logger)
	shipsHandler := ships.NewHandler(shipsRepo, logger)

	resortsRepo := resorts.NewRepository(pool, logger)
	resortsHandler := resorts.NewHandler(resortsRepo, logger)

	venuesRepo := venues.NewRepository(pool, logger)
	venuesService := venues.NewServiceImpl(venuesRepo, logger)
	venuesHandler := venues.NewHandler(venuesService, logger)

	amenitiesRepo := amenities.NewRepository(pool, logger)
	amenitiesHandler := amenities.NewHandler(amenitiesRepo, logger)

	bulkRepo := bulkops.NewRepository(pool, logger)
	bulkService := bulkops.NewService(bulkRepo, bulkops.ExportSources{
		Trips:     tripsRepo,
		Talent:    talentRepo,
		Locations: locationsRepo,
		Ships:     shipsRepo,
		Resorts:   resortsRepo,
		Venues:    venuesRepo,
		Amenities: amenitiesRepo,
	}, logger)
	bulkHandler := bulkops.NewHandler(bulkService, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		Pool:   pool,

		AuthHandler:      authHandler,
		TripsHandler:     tripsHandler,
		WizardHandler:    wizardHandler,
		TalentHandler:    talentHandler,
		LocationsHandler: locationsHandler,
		ShipsHandler:     shipsHandler,
		ResortsHandler:   resortsHandler,
		VenuesHandler:    venuesHandler,
		AmenitiesHandler: amenitiesHandler,
		BulkOpsHandler:   bulkHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
