package booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
	"github.com/linkcard/linkcard-api/internal/domain/location"
	"github.com/linkcard/linkcard-api/internal/middleware"
	"github.com/linkcard/linkcard-api/internal/pkg/errorhandler"
	"github.com/linkcard/linkcard-api/internal/pkg/response"
	"github.com/linkcard/linkcard-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetAvailability handles GET /public/locations/{id}/availability?date=YYYY-MM-DD
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid location ID")
		return
	}
	date, err := availability.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	day, err := h.service.Availability(r.Context(), locationID, date)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, AvailabilityResponseFrom(day))
}

// CreateSession handles POST /public/booking-sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	locationID := uuid.MustParse(req.LocationID)
	date, _ := availability.ParseDate(req.Date)

	sess, err := h.service.CreateSession(r.Context(), locationID, date)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.Created(w, SessionResponseFrom(sess))
}

// GetSession handles GET /public/booking-sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, SessionResponseFrom(sess))
}

// ChangeDate handles PUT /public/booking-sessions/{id}/date
func (h *Handler) ChangeDate(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req ChangeDateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}
	date, _ := availability.ParseDate(req.Date)

	sess, err := h.service.ChangeDate(r.Context(), id, date)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, SessionResponseFrom(sess))
}

// Toggle handles POST /public/booking-sessions/{id}/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}
	start, _ := availability.ParseClock(req.StartTime)

	sess, err := h.service.Toggle(r.Context(), id, start)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, SessionResponseFrom(sess))
}

// Submit handles POST /public/booking-sessions/{id}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Submit(r.Context(), id, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.Created(w, BookingResponseFromEntity(b))
}

// Abandon handles DELETE /public/booking-sessions/{id}
func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.Abandon(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	response.NoContent(w)
}

// GetBooking handles GET /bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	b, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, BookingResponseFromEntity(b))
}

// ListForOwner handles GET /locations/{id}/bookings?date=YYYY-MM-DD (owner, authenticated)
func (h *Handler) ListForOwner(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid location ID")
		return
	}
	date, err := availability.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	bookings, err := h.service.ListForOwner(r.Context(), middleware.GetUserID(r.Context()), locationID, date)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i := range bookings {
		items[i] = BookingResponseFromEntity(&bookings[i])
	}
	response.OK(w, items)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var stale *availability.StaleSelectionError

	switch {
	case errors.Is(err, location.ErrLocationNotFound):
		response.NotFound(w, "Location not found")
	case errors.Is(err, location.ErrNotLocationOwner):
		response.Forbidden(w, "You can only view bookings of your own locations")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrSessionNotFound):
		response.Gone(w, "Booking session expired, please start again")
	case errors.Is(err, ErrDateInPast):
		response.ValidationError(w, map[string]string{"date": "Date is in the past"})
	case errors.Is(err, ErrAvailabilityLoading):
		response.Conflict(w, response.CodeAvailabilityLoad, "Availability is still loading, try again")
	case errors.Is(err, ErrSubmissionInFlight):
		response.Conflict(w, response.CodeSubmissionInFlight, "Booking is already being submitted")
	case errors.Is(err, availability.ErrNoAvailability):
		response.Conflict(w, response.CodeNoAvailability, "No times are available on this date")
	case errors.Is(err, availability.ErrSlotUnavailable):
		response.Conflict(w, response.CodeSlotUnavailable, "Start time is not available on this date")
	case errors.As(err, &stale):
		response.ErrorWithDetails(w, http.StatusConflict, response.CodeStaleSelection,
			"Some selected times are no longer available, please choose again",
			map[string]string{"missing": strings.Join(availability.ClockStrings(stale.Missing), ",")})
	case errors.Is(err, ErrSlotTaken):
		errorhandler.HandleError(r.Context(), w, http.StatusConflict, response.CodeSlotTaken, "Selected time was just booked by someone else", err)
	case errors.Is(err, availability.ErrEmptySelection):
		response.Error(w, http.StatusUnprocessableEntity, response.CodeEmptySelection, "Select at least one time slot")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, response.CodeInternal, "booking request failed", err)
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
