package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/N6q/EventManagementAPI/internal/model"
	"github.com/N6q/EventManagementAPI/internal/service"
)

// AttendeeHandler holds the HTTP handlers for the attendees API.
type AttendeeHandler struct {
	svc      *service.AttendeeService
	validate *validator.Validate
}

// NewAttendeeHandler constructs an AttendeeHandler.
func NewAttendeeHandler(svc *service.AttendeeService, validate *validator.Validate) *AttendeeHandler {
	return &AttendeeHandler{svc: svc, validate: validate}
}

// Register handles POST /api/attendees.
//
// All four rejection reasons come back as the same generic message; the
// distinct sentinel errors stay internal.
func (h *AttendeeHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterAttendeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	attendee, err := h.svc.Register(r.Context(), req)
	if err != nil {
		if model.IsRegistrationRejected(err) {
			writeError(w, http.StatusBadRequest,
				"registration failed: event not found, already registered, full, or closed")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to register attendee")
		return
	}
	writeJSON(w, http.StatusCreated, attendee)
}

// ByEvent handles GET /api/attendees/event/{eventId}.
func (h *AttendeeHandler) ByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIDParam(r, "eventId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	attendees, err := h.svc.ListByEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list attendees")
		return
	}
	if len(attendees) == 0 {
		writeError(w, http.StatusNotFound, "no attendees found for this event")
		return
	}
	writeJSON(w, http.StatusOK, attendees)
}

// Delete handles DELETE /api/attendees/{id}.
func (h *AttendeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attendee id")
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete attendee")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "attendee not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
