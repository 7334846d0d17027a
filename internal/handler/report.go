package handler

import (
	"net/http"
	"strings"

	"github.com/N6q/EventManagementAPI/internal/model"
	"github.com/N6q/EventManagementAPI/internal/service"
)

// ReportHandler holds the HTTP handlers for event reports.
type ReportHandler struct {
	svc *service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Get handles GET /api/reports/{eventId}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r, "eventId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	report, err := h.svc.ReportFor(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "event not found or cannot generate report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Upcoming handles GET /api/reports/upcoming.
func (h *ReportHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.UpcomingReports(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate reports")
		return
	}
	if reports == nil {
		reports = []model.EventReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// WeatherHandler exposes the raw weather lookup.
type WeatherHandler struct {
	weather service.WeatherClient
}

// NewWeatherHandler constructs a WeatherHandler.
func NewWeatherHandler(weather service.WeatherClient) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

// Forecast handles GET /api/weather/forecast?city=...
func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeError(w, http.StatusBadRequest, "city name is required")
		return
	}

	info, err := h.weather.GetWeather(r.Context(), city)
	if err != nil {
		writeError(w, http.StatusNotFound, "no weather data available")
		return
	}
	if info == nil {
		writeError(w, http.StatusNotFound, "no weather data available")
		return
	}
	writeJSON(w, http.StatusOK, info)
}
