package event

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meetgrid/core/middleware"
	"meetgrid/core/utils"
	"meetgrid/modules/event/dto"
	"meetgrid/modules/event/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	mw := middleware.NewMiddleware(tokens, nil)
	Init(e, NewRepository(nil), mw, service.Options{Tokens: tokens, BaseURL: "https://meet.example.com"})
	return e
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createEvent(t *testing.T, e *echo.Echo) *dto.CreateEventResponse {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/v1/events",
		`{"name":"Team sync","dates":["2026-01-25","2026-01-26"],"start_time":"09:00","end_time":"11:00"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body envelope[dto.CreateEventResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return &body.Data
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	e := newServer(t)
	created := createEvent(t, e)
	id := created.Event.ID
	require.Len(t, created.Event.TimeSlots, 4)
	require.NotEmpty(t, created.OrganizerToken)

	rec := do(e, http.MethodPost, "/api/v1/events/"+id+"/join", `{"name":"Alice"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/v1/events/"+id+"/availability/drag",
		`{"participant":"Alice","anchor":{"date":"2026-01-25","time":"09:00"},"current":{"date":"2026-01-26","time":"09:00"}}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var mutation envelope[dto.MutationResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mutation))
	assert.Len(t, mutation.Data.Changed, 2)

	rec = do(e, http.MethodGet, "/api/v1/events/"+id+"/summary?top=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary envelope[dto.SummaryResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Data.TotalParticipants)
	assert.Len(t, summary.Data.BestTimes, 1)
	assert.Equal(t, 50, summary.Data.Participants[0].Percent)

	rec = do(e, http.MethodGet, "/api/v1/events/"+id+"/calendar.ics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/events/"+id+"/finalize", `{"date":"2026-01-25","time":"09:00"}`, created.OrganizerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/events/"+id+"/calendar.ics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/calendar")
	assert.Equal(t, `attachment; filename="team-sync.ics"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")

	rec = do(e, http.MethodGet, "/api/v1/events/"+id+"/qr.png", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
}

func TestOrganizerRoutesRequireToken(t *testing.T) {
	e := newServer(t)
	first := createEvent(t, e)
	second := createEvent(t, e)
	path := "/api/v1/events/" + first.Event.ID

	rec := do(e, http.MethodPut, path, `{"name":"Renamed"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPut, path, `{"name":"Renamed"}`, second.OrganizerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPut, path, `{"name":"Renamed"}`, first.OrganizerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodDelete, path, "", first.OrganizerToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, path+"/join", `{"name":"Bob"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/api/v1/events", `{"name":"","dates":[],"start_time":"10:00","end_time":"09:00"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Code    string `json:"code"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Len(t, body.Details, 3)

	rec = do(e, http.MethodGet, "/api/v1/events/AAAAAAAAAA", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/events/AAAAAAAAAA/summary?top=x", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
