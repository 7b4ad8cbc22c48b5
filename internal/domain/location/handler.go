package location

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/linkcard/linkcard-api/internal/domain/availability"
	"github.com/linkcard/linkcard-api/internal/middleware"
	"github.com/linkcard/linkcard-api/internal/pkg/errorhandler"
	"github.com/linkcard/linkcard-api/internal/pkg/response"
	"github.com/linkcard/linkcard-api/internal/pkg/validator"
)

// Handler handles owner location and rule HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates location handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateLocation handles POST /locations
func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	loc, err := h.service.CreateLocation(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.Created(w, LocationResponseFromEntity(loc))
}

// ListLocations handles GET /locations
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.service.ListLocations(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	items := make([]LocationResponse, len(locs))
	for i := range locs {
		items[i] = LocationResponseFromEntity(&locs[i])
	}
	response.OK(w, items)
}

// GetLocation handles GET /locations/{id}
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "Invalid location ID")
	if !ok {
		return
	}

	loc, err := h.service.GetOwnedLocation(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, LocationResponseFromEntity(loc))
}

// UpdateLocation handles PUT /locations/{id}
func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "Invalid location ID")
	if !ok {
		return
	}

	var req UpdateLocationRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	loc, err := h.service.UpdateLocation(r.Context(), middleware.GetUserID(r.Context()), id, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, LocationResponseFromEntity(loc))
}

// DeleteLocation handles DELETE /locations/{id}
func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "Invalid location ID")
	if !ok {
		return
	}

	if err := h.service.DeleteLocation(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	response.NoContent(w)
}

// CreateRule handles POST /locations/{id}/rules
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "Invalid location ID")
	if !ok {
		return
	}

	var req RuleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	rule, err := h.service.CreateRule(r.Context(), middleware.GetUserID(r.Context()), id, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.Created(w, RuleResponseFromEntity(rule))
}

// ListRules handles GET /locations/{id}/rules
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "Invalid location ID")
	if !ok {
		return
	}

	rules, err := h.service.ListRules(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	items := make([]RuleResponse, len(rules))
	for i := range rules {
		items[i] = RuleResponseFromEntity(&rules[i])
	}
	response.OK(w, items)
}

// UpdateRule handles PUT /locations/{id}/rules/{ruleID}
func (h *Handler) UpdateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "Invalid location ID")
	if !ok {
		return
	}
	ruleID, ok := parseID(w, r, "ruleID", "Invalid rule ID")
	if !ok {
		return
	}

	var req RuleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rule, err := h.service.UpdateRule(r.Context(), middleware.GetUserID(r.Context()), id, ruleID, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, RuleResponseFromEntity(rule))
}

// DeleteRule handles DELETE /locations/{id}/rules/{ruleID}
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "Invalid location ID")
	if !ok {
		return
	}
	ruleID, ok := parseID(w, r, "ruleID", "Invalid rule ID")
	if !ok {
		return
	}

	if err := h.service.DeleteRule(r.Context(), middleware.GetUserID(r.Context()), id, ruleID); err != nil {
		h.handleError(w, r, err)
		return
	}
	response.NoContent(w)
}

// Calendar handles GET /locations/{id}/calendar?month=YYYY-MM
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "Invalid location ID")
	if !ok {
		return
	}

	month, err := availability.ParseYearMonth(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "month must be YYYY-MM")
		return
	}

	proj, err := h.service.Calendar(r.Context(), middleware.GetUserID(r.Context()), id, month)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	response.OK(w, CalendarResponseFromProjection(proj))
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, ErrLocationNotFound):
		response.NotFound(w, "Location not found")
	case errors.Is(err, ErrRuleNotFound):
		response.NotFound(w, "Availability rule not found")
	case errors.Is(err, ErrNotLocationOwner):
		response.Forbidden(w, "You can only manage your own locations")
	case errors.Is(err, ErrInvalidTimezone):
		response.ValidationError(w, map[string]string{"timezone": "Invalid IANA timezone"})
	case errors.Is(err, ErrInvalidRule):
		errorhandler.HandleError(ctx, w, http.StatusUnprocessableEntity, response.CodeInvalidRule, err.Error(), err)
	default:
		errorhandler.HandleError(ctx, w, http.StatusInternalServerError, response.CodeInternal, "location request failed", err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		response.BadRequest(w, message)
		return uuid.Nil, false
	}
	return id, true
}
