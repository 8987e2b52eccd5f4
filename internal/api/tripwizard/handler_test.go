package tripwizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasvoyages/trip-console/internal/types"
)

func setupWizardRouter(t *testing.T) (*chi.Mux, *ServiceImpl) {
	t.Helper()
	svc := newTestService(new(MockRepository))
	handler := NewHandler(svc, svc.logger)

	r := chi.NewRouter()
	r.Route("/trip-wizard", func(r chi.Router) {
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", handler.GetSessionHandler)
			r.Patch("/dates", handler.UpdateDatesHandler)
			r.Post("/days", handler.AddDayHandler)
			r.Patch("/days/{date}", handler.UpdateDayHandler)
			r.Patch("/meta", handler.UpdateMetaHandler)
		})
	})
	return r, svc
}

func startSession(t *testing.T, svc *ServiceImpl) types.WizardState {
	t.Helper()
	state, err := svc.StartSession(context.Background(), uuid.New(), types.StartWizardRequest{
		Name:      "Norwegian Fjords",
		TripType:  types.TripTypeCruise,
		StartDate: date(2026, 6, 1),
		EndDate:   date(2026, 6, 4),
	})
	require.NoError(t, err)
	return state
}

// Shrinking the range over a content-bearing day answers 409 with the doomed
// entries; repeating the request with confirm=true applies the deletion.
func TestUpdateDatesHandler_ConflictThenConfirm(t *testing.T) {
	router, svc := setupWizardRouter(t)
	state := startSession(t, svc)

	desc := "Farewell dinner"
	_, err := svc.UpdateDay(context.Background(), state.SessionID, date(2026, 6, 4), types.UpdateDayRequest{Description: &desc})
	require.NoError(t, err)

	body := `{"start_date":"2026-06-01","end_date":"2026-06-03"}`
	rec := doJSON(router, http.MethodPatch,
		fmt.Sprintf("/trip-wizard/%s/dates", state.SessionID), body)
	require.Equal(t, http.StatusConflict, rec.Code)

	var conflict types.DateChangeConflict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conflict))
	require.Len(t, conflict.EntriesToDelete, 1)
	assert.Equal(t, "Farewell dinner", conflict.EntriesToDelete[0].Description)

	// State must be untouched after the conflict.
	current, err := svc.GetSession(context.Background(), state.SessionID)
	require.NoError(t, err)
	assert.True(t, current.Dates.End.Equal(date(2026, 6, 4)))

	body = `{"start_date":"2026-06-01","end_date":"2026-06-03","confirm":true}`
	rec = doJSON(router, http.MethodPatch,
		fmt.Sprintf("/trip-wizard/%s/dates", state.SessionID), body)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.WizardState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Dates.End.Equal(date(2026, 6, 3)))
	assert.Len(t, updated.Entries, 3)
}

func TestUpdateDatesHandler_CleanChangeNeedsNoConfirm(t *testing.T) {
	router, svc := setupWizardRouter(t)
	state := startSession(t, svc)

	body := `{"start_date":"2026-07-01","end_date":"2026-07-04"}`
	rec := doJSON(router, http.MethodPatch,
		fmt.Sprintf("/trip-wizard/%s/dates", state.SessionID), body)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.WizardState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Dates.Start.Equal(date(2026, 7, 1)))
}

func TestUpdateDatesHandler_InvalidRange(t *testing.T) {
	router, svc := setupWizardRouter(t)
	state := startSession(t, svc)

	body := `{"start_date":"2026-07-04","end_date":"2026-07-01"}`
	rec := doJSON(router, http.MethodPatch,
		fmt.Sprintf("/trip-wizard/%s/dates", state.SessionID), body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddDayHandler_DuplicateAnswersConflict(t *testing.T) {
	router, svc := setupWizardRouter(t)
	state := startSession(t, svc)

	body := `{"date":"2026-05-31","position":"before"}`
	rec := doJSON(router, http.MethodPost,
		fmt.Sprintf("/trip-wizard/%s/days", state.SessionID), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(router, http.MethodPost,
		fmt.Sprintf("/trip-wizard/%s/days", state.SessionID), body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetSessionHandler_UnknownSession(t *testing.T) {
	router, _ := setupWizardRouter(t)

	rec := doJSON(router, http.MethodGet, "/trip-wizard/"+uuid.New().String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func doJSON(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
