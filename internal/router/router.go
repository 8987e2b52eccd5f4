package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appMiddleware "github.com/atlasvoyages/trip-console/app/middleware"
	"github.com/atlasvoyages/trip-console/internal/api/auth"
	"github.com/atlasvoyages/trip-console/internal/container"
)

// SetupRouter wires every console route. Server-wide middleware (request ID,
// logger, recoverer) is applied by main before mounting this router.
//
// Route tiers:
//   - public: login and refresh
//   - authenticated: reads for any signed-in user
//   - content editor: every write to trips and reference data
//   - admin: user management and bulk operations
func SetupRouter(c *container.Container) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	authenticate := auth.Authenticate(c.Logger, c.Config.Auth)
	requireEditor := auth.RequireRole(c.Logger, auth.RoleContentEditor, auth.RoleAdmin)
	requireAdmin := auth.RequireRole(c.Logger, auth.RoleAdmin)
	audit := appMiddleware.AuditLog(c.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/login", c.AuthHandler.LoginHandler)
			r.Post("/auth/refresh", c.AuthHandler.RefreshHandler)
		})

		// Signed-in routes: reads plus account self-service
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/auth/logout", c.AuthHandler.LogoutHandler)
			r.Get("/auth/me", c.AuthHandler.MeHandler)
			r.Put("/auth/password", c.AuthHandler.ChangePasswordHandler)

			r.Get("/trips", c.TripsHandler.ListTripsHandler)
			r.Get("/trips/stats", c.TripsHandler.GetTripStatsHandler)
			r.Get("/trips/{tripID}", c.TripsHandler.GetTripHandler)
			r.Get("/trips/{tripID}/talent", c.TripsHandler.GetTripTalentHandler)

			r.Get("/talent", c.TalentHandler.ListTalentHandler)
			r.Get("/talent/{talentID}", c.TalentHandler.GetTalentHandler)

			r.Get("/locations", c.LocationsHandler.ListLocationsHandler)
			r.Get("/locations/stats", c.LocationsHandler.GetLocationStatsHandler)
			r.Get("/locations/{locationID}", c.LocationsHandler.GetLocationHandler)

			r.Get("/ships", c.ShipsHandler.ListShipsHandler)
			r.Get("/ships/{shipID}", c.ShipsHandler.GetShipHandler)
			r.Get("/ships/{shipID}/amenities", c.ShipsHandler.ListShipAmenitiesHandler)
			r.Get("/ships/{shipID}/venues", c.ShipsHandler.ListShipVenuesHandler)

			r.Get("/resorts", c.ResortsHandler.ListResortsHandler)
			r.Get("/resorts/{resortID}", c.ResortsHandler.GetResortHandler)
			r.Get("/resorts/{resortID}/amenities", c.ResortsHandler.ListResortAmenitiesHandler)
			r.Get("/resorts/{resortID}/venues", c.ResortsHandler.ListResortVenuesHandler)

			r.Get("/venues", c.VenuesHandler.ListVenuesHandler)
			r.Get("/venues/{venueID}", c.VenuesHandler.GetVenueHandler)
			r.Get("/venue-types", c.VenuesHandler.ListVenueTypesHandler)

			r.Get("/amenities", c.AmenitiesHandler.ListAmenitiesHandler)
			r.Get("/amenities/stats", c.AmenitiesHandler.GetAmenityStatsHandler)
			r.Get("/amenities/{amenityID}", c.AmenitiesHandler.GetAmenityHandler)
		})

		// Content-editor routes: all writes, audited
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requireEditor)
			r.Use(audit)

			r.Post("/trips", c.TripsHandler.CreateTripHandler)
			r.Put("/trips/{tripID}", c.TripsHandler.UpdateTripHandler)
			r.Delete("/trips/{tripID}", c.TripsHandler.DeleteTripHandler)
			r.Put("/trips/{tripID}/dates", c.TripsHandler.ChangeTripDatesHandler)
			r.Put("/trips/{tripID}/talent", c.TripsHandler.SetTripTalentHandler)

			r.Route("/trip-wizard", func(r chi.Router) {
				r.Post("/", c.WizardHandler.StartSessionHandler)
				r.Get("/drafts", c.WizardHandler.ListDraftsHandler)
				r.Post("/drafts/{draftID}/resume", c.WizardHandler.ResumeDraftHandler)
				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", c.WizardHandler.GetSessionHandler)
					r.Put("/dates", c.WizardHandler.UpdateDatesHandler)
					r.Post("/days", c.WizardHandler.AddDayHandler)
					r.Put("/days/{date}", c.WizardHandler.UpdateDayHandler)
					r.Put("/meta", c.WizardHandler.UpdateMetaHandler)
					r.Post("/draft", c.WizardHandler.SaveDraftHandler)
					r.Post("/commit", c.WizardHandler.CommitHandler)
				})
			})

			r.Post("/talent", c.TalentHandler.CreateTalentHandler)
			r.Put("/talent/{talentID}", c.TalentHandler.UpdateTalentHandler)
			r.Delete("/talent/{talentID}", c.TalentHandler.DeleteTalentHandler)

			r.Post("/locations", c.LocationsHandler.CreateLocationHandler)
			r.Put("/locations/{locationID}", c.LocationsHandler.UpdateLocationHandler)
			r.Delete("/locations/{locationID}", c.LocationsHandler.DeleteLocationHandler)

			r.Post("/ships", c.ShipsHandler.CreateShipHandler)
			r.Put("/ships/{shipID}", c.ShipsHandler.UpdateShipHandler)
			r.Delete("/ships/{shipID}", c.ShipsHandler.DeleteShipHandler)
			r.Put("/ships/{shipID}/amenities", c.ShipsHandler.SetShipAmenitiesHandler)
			r.Put("/ships/{shipID}/venues", c.ShipsHandler.SetShipVenuesHandler)

			r.Post("/resorts", c.ResortsHandler.CreateResortHandler)
			r.Put("/resorts/{resortID}", c.ResortsHandler.UpdateResortHandler)
			r.Delete("/resorts/{resortID}", c.ResortsHandler.DeleteResortHandler)
			r.Put("/resorts/{resortID}/amenities", c.ResortsHandler.SetResortAmenitiesHandler)
			r.Put("/resorts/{resortID}/venues", c.ResortsHandler.SetResortVenuesHandler)

			r.Post("/venues", c.VenuesHandler.CreateVenueHandler)
			r.Put("/venues/{venueID}", c.VenuesHandler.UpdateVenueHandler)
			r.Delete("/venues/{venueID}", c.VenuesHandler.DeleteVenueHandler)

			r.Post("/amenities", c.AmenitiesHandler.CreateAmenityHandler)
			r.Put("/amenities/{amenityID}", c.AmenitiesHandler.UpdateAmenityHandler)
			r.Delete("/amenities/{amenityID}", c.AmenitiesHandler.DeleteAmenityHandler)
		})

		// Admin routes: user management and bulk operations
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(requireAdmin)
			r.Use(audit)

			r.Post("/auth/register", c.AuthHandler.RegisterHandler)
			r.Post("/bulk/import", c.BulkOpsHandler.ImportHandler)
			r.Get("/bulk/export", c.BulkOpsHandler.ExportHandler)
		})
	})

	return r
}
