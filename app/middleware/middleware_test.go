package appMiddleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditedProbe(t *testing.T, logs *bytes.Buffer) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return AuditLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
}

func TestAuditLog_RecordsMutatingRequests(t *testing.T) {
	var logs bytes.Buffer
	handler := auditedProbe(t, &logs)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	out := logs.String()
	assert.Contains(t, out, "action=admin.trips.create")
	assert.Contains(t, out, "status=201")
}

func TestAuditLog_SkipsReads(t *testing.T) {
	var logs bytes.Buffer
	handler := auditedProbe(t, &logs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Empty(t, logs.String())
}

func TestAuditAction(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"create", http.MethodPost, "/api/v1/trips", "admin.trips.create"},
		{"nested update", http.MethodPut, "/api/v1/trips/abc/dates", "admin.trips.update"},
		{"delete", http.MethodDelete, "/api/v1/amenities/abc", "admin.amenities.delete"},
		{"bulk import", http.MethodPost, "/api/v1/bulk/import", "admin.bulk.create"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			assert.Equal(t, tt.want, auditAction(r))
		})
	}
}
