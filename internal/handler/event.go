package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/N6q/EventManagementAPI/internal/model"
	"github.com/N6q/EventManagementAPI/internal/service"
)

// EventHandler holds the HTTP handlers for the events API.
type EventHandler struct {
	svc      *service.EventService
	validate *validator.Validate
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, validate *validator.Validate) *EventHandler {
	return &EventHandler{svc: svc, validate: validate}
}

// List handles GET /api/events. Without paging parameters it returns every
// event with its attendee count; with them it returns a paged, filtered
// envelope.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("page") == "" {
		events, err := h.svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list events")
			return
		}
		if events == nil {
			events = []model.EventWithCount{}
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	q, err := parseEventQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := h.svc.ListPaged(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	ev, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	if ev == nil {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if ev.Attendees == nil {
		ev.Attendees = []model.Attendee{}
	}
	writeJSON(w, http.StatusOK, ev)
}

// Upcoming handles GET /api/events/upcoming.
func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListUpcoming(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list upcoming events")
		return
	}
	if events == nil {
		events = []model.EventWithCount{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Create handles POST /api/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ev)
}

// Update handles PUT /api/events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	applied, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, model.ErrConcurrency) {
			writeError(w, http.StatusConflict, "event was modified concurrently")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}
	if !applied {
		writeError(w, http.StatusNotFound, "event not found or cannot be updated")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "event not found or already deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func errInvalidQuery(param, value string) error {
	return fmt.Errorf("invalid %s parameter: %q", param, value)
}

func parseEventQuery(r *http.Request) (model.EventQuery, error) {
	values := r.URL.Query()

	q := model.EventQuery{
		Location: values.Get("location"),
		Desc:     values.Get("desc") == "true",
		Page:     1,
		Size:     10,
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, errInvalidQuery("page", raw)
		}
		q.Page = page
	}
	if raw := values.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return q, errInvalidQuery("size", raw)
		}
		q.Size = size
	}
	if raw := values.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, errInvalidQuery("from", raw)
		}
		utc := from.UTC()
		q.From = &utc
	}
	if raw := values.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, errInvalidQuery("to", raw)
		}
		utc := to.UTC()
		q.To = &utc
	}

	sortBy, err := model.ParseEventSort(values.Get("sortBy"))
	if err != nil {
		return q, err
	}
	q.SortBy = sortBy
	return q, nil
}
