package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/N6q/EventManagementAPI/internal/auth"
	"github.com/N6q/EventManagementAPI/internal/model"
	"github.com/N6q/EventManagementAPI/internal/repository"
	"github.com/N6q/EventManagementAPI/internal/service"
	"github.com/N6q/EventManagementAPI/internal/testutil"
)

type failingWeather struct{}

func (failingWeather) GetWeather(ctx context.Context, city string) (*model.WeatherInfo, error) {
	return nil, errors.New("weather source down")
}

type testAPI struct {
	router http.Handler
	db     *gorm.DB
	tokens *auth.TokenService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testutil.DB(t)
	log := testutil.Logger(t)
	runner := repository.NewTxRunner(db)
	eventRepo := repository.NewEventRepository(db, log)
	attendeeRepo := repository.NewAttendeeRepository(db, log)

	tokens := auth.NewTokenService("test-secret", "TestIssuer", "TestAudience", time.Hour)
	validate := validator.New()

	eventSvc := service.NewEventService(runner, eventRepo, attendeeRepo, log)
	attendeeSvc := service.NewAttendeeService(runner, eventRepo, attendeeRepo, log)
	reportSvc := service.NewReportService(eventRepo, failingWeather{}, log)

	router := NewRouter(Deps{
		Events:    NewEventHandler(eventSvc, validate),
		Attendees: NewAttendeeHandler(attendeeSvc, validate),
		Reports:   NewReportHandler(reportSvc),
		Weather:   NewWeatherHandler(failingWeather{}),
		Auth:      NewAuthHandler(tokens),
		Tokens:    tokens,
		Log:       log,
	})

	return &testAPI{router: router, db: db, tokens: tokens}
}

func (api *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func (api *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := api.tokens.Generate("admin", auth.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (api *testAPI) userToken(t *testing.T) string {
	t.Helper()
	token, _, err := api.tokens.Generate("user", auth.RoleUser)
	require.NoError(t, err)
	return token
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Username: "admin", Password: "1234"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	rec = api.do(t, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Username: "admin", Password: "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEventAuthorization(t *testing.T) {
	api := newTestAPI(t)
	req := model.CreateEventRequest{
		Title:        "DevOps Days",
		Date:         time.Now().UTC().AddDate(0, 0, 10),
		Location:     "Muscat",
		MaxAttendees: 100,
	}

	rec := api.do(t, http.MethodPost, "/api/events", req, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/events", req, api.userToken(t))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/events", req, api.adminToken(t))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.EventID)
}

func TestCreateEventValidation(t *testing.T) {
	api := newTestAPI(t)

	// Capacity below the allowed 10..500 range never reaches the service.
	req := model.CreateEventRequest{
		Title:        "Tiny",
		Date:         time.Now().UTC().AddDate(0, 0, 10),
		Location:     "Muscat",
		MaxAttendees: 5,
	}
	rec := api.do(t, http.MethodPost, "/api/events", req, api.adminToken(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEventNotFound(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/events/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEventsInvalidSortKey(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/events?page=1&sortBy=bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterRejectionIsGeneric(t *testing.T) {
	api := newTestAPI(t)

	past := testutil.SeedEvent(t, api.db, "Over", "Muscat", time.Now().UTC().AddDate(0, 0, -1), 100)

	rec := api.do(t, http.MethodPost, "/api/attendees", model.RegisterAttendeeRequest{
		FullName: "Late Person",
		Email:    "late@example.com",
		EventID:  past.EventID,
	}, api.userToken(t))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// The wire-level message never names the specific reason.
	assert.Equal(t,
		"registration failed: event not found, already registered, full, or closed",
		resp.Error)
}

func TestRegisterAndListAttendees(t *testing.T) {
	api := newTestAPI(t)

	ev := testutil.SeedEvent(t, api.db, "Summit", "Muscat", time.Now().UTC().AddDate(0, 0, 5), 100)

	rec := api.do(t, http.MethodPost, "/api/attendees", model.RegisterAttendeeRequest{
		FullName: "Attendee One",
		Email:    "one@example.com",
		EventID:  ev.EventID,
	}, api.userToken(t))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/attendees/event/%d", ev.EventID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var attendees []model.Attendee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attendees))
	assert.Len(t, attendees, 1)
}

func TestListAttendeesEmptyEvent(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/attendees/event/4242", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportDegradesInsteadOfFailing(t *testing.T) {
	api := newTestAPI(t)

	ev := testutil.SeedEvent(t, api.db, "Summit", "Muscat", time.Now().UTC().AddDate(0, 0, 5), 100)
	testutil.SeedAttendee(t, api.db, ev.EventID, "a@example.com")

	rec := api.do(t, http.MethodGet, fmt.Sprintf("/api/reports/%d", ev.EventID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report model.EventReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 1, report.AttendeeCount)
	require.NotNil(t, report.Weather)
	assert.Equal(t, "Unavailable", report.Weather.Summary)
}

func TestReportNotFound(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/reports/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEventRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)

	ev := testutil.SeedEvent(t, api.db, "Doomed", "Muscat", time.Now().UTC().AddDate(0, 0, 5), 100)

	rec := api.do(t, http.MethodDelete, fmt.Sprintf("/api/events/%d", ev.EventID), nil, api.userToken(t))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/api/events/%d", ev.EventID), nil, api.adminToken(t))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d", ev.EventID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
