package appMiddleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/atlasvoyages/trip-console/internal/api/auth"
)

// AuditLog records every mutating request made through the console, keyed
// by the acting user. Reads are not audited. Runs AFTER Authenticate so
// the user ID is in the context.
func AuditLog(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			userID, _ := auth.GetUserIDFromContext(ctx)
			role, _ := auth.GetUserRoleFromContext(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.InfoContext(ctx, "Audit",
				slog.String("action", auditAction(r)),
				slog.String("path", r.URL.Path),
				slog.String("user_id", userID),
				slog.String("role", role),
				slog.Int("status", ww.Status()),
			)
		})
	}
}

// auditAction turns "PUT /api/v1/trips/{id}/dates" into "admin.trips.update".
func auditAction(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/")
	entity := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		entity = path[:i]
	}

	var verb string
	switch r.Method {
	case http.MethodPost:
		verb = "create"
	case http.MethodDelete:
		verb = "delete"
	default:
		verb = "update"
	}
	return "admin." + entity + "." + verb
}
