package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/blaisecz/health-simulator/internal/api/validation"
	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/service"
	"github.com/blaisecz/health-simulator/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type GenerationHandler struct {
	service service.GenerationService
}

func NewGenerationHandler(service service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// Generate handles POST /v1/users/{userId}/generate
// @Summary Generate history for one user
// @Description Run the simulation engine over a historical range and persist the result. Re-running for the same range replaces the stored days.
// @Tags generation
// @Accept json
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param request body domain.GenerateRequest true "Generation parameters"
// @Success 200 {object} domain.GenerateResponse
// @Failure 400 {object} problem.Problem "Malformed JSON body or user ID"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 422 {object} problem.Problem "Validation failed"
// @Failure 500 {object} problem.Problem
// @Router /users/{userId}/generate [post]
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	var req domain.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	resp, err := h.service.Generate(r.Context(), userID, &req)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GenerateAll handles POST /v1/generate
// @Summary Generate history for every user
// @Description Run the simulation engine for all stored users concurrently.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body domain.GenerateRequest true "Generation parameters"
// @Success 200 {array} domain.GenerateResponse
// @Failure 400 {object} problem.Problem "Malformed JSON body"
// @Failure 422 {object} problem.Problem "Validation failed"
// @Failure 500 {object} problem.Problem
// @Router /generate [post]
func (h *GenerationHandler) GenerateAll(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}
	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	results, err := h.service.GenerateAll(r.Context(), &req)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// ListSleep handles GET /v1/users/{userId}/sleep
// @Summary List generated sleep sessions
// @Description Fetch stored sleep sessions in a date range, oldest first.
// @Tags series
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param from query string true "Start date (YYYY-MM-DD)" format(date) example(2024-06-01)
// @Param to query string true "End date (YYYY-MM-DD)" format(date) example(2024-06-30)
// @Success 200 {object} domain.SleepSeriesResponse
// @Failure 400 {object} problem.Problem "Malformed user ID"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 422 {object} problem.Problem "Invalid date range"
// @Failure 500 {object} problem.Problem
// @Router /users/{userId}/sleep [get]
func (h *GenerationHandler) ListSleep(w http.ResponseWriter, r *http.Request) {
	userID, from, to, ok := parseSeriesParams(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListSleep(r.Context(), userID, from, to)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListSteps handles GET /v1/users/{userId}/steps
// @Summary List generated step days
// @Description Fetch stored daily step distributions in a date range, oldest first.
// @Tags series
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param from query string true "Start date (YYYY-MM-DD)" format(date) example(2024-06-01)
// @Param to query string true "End date (YYYY-MM-DD)" format(date) example(2024-06-30)
// @Success 200 {object} domain.StepsSeriesResponse
// @Failure 400 {object} problem.Problem "Malformed user ID"
// @Failure 404 {object} problem.Problem "User not found"
// @Failure 422 {object} problem.Problem "Invalid date range"
// @Failure 500 {object} problem.Problem
// @Router /users/{userId}/steps [get]
func (h *GenerationHandler) ListSteps(w http.ResponseWriter, r *http.Request) {
	userID, from, to, ok := parseSeriesParams(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ListSteps(r.Context(), userID, from, to)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetIncrements handles GET /v1/users/{userId}/steps/{date}/increments
// @Summary Get step increments for one day
// @Description Fetch the ordered fine-grained step increments for one stored day, for gradual replay into a health store.
// @Tags series
// @Produce json
// @Param userId path string true "User UUID" format(uuid)
// @Param date path string true "Date (YYYY-MM-DD)" format(date) example(2024-06-15)
// @Success 200 {object} domain.IncrementsResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem "User or day not found"
// @Failure 500 {object} problem.Problem
// @Router /users/{userId}/steps/{date}/increments [get]
func (h *GenerationHandler) GetIncrements(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}
	date, err := time.ParseInLocation(dateLayout, chi.URLParam(r, "date"), time.UTC)
	if err != nil {
		problem.BadRequest("date must be YYYY-MM-DD").Write(w)
		return
	}

	resp, err := h.service.GetIncrements(r.Context(), userID, date)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func parseSeriesParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, time.Time, time.Time, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return uuid.Nil, time.Time{}, time.Time{}, false
	}

	var fieldErrors []problem.FieldError
	from, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("from"), time.UTC)
	if err != nil {
		fieldErrors = append(fieldErrors, problem.FieldError{Field: "from", Message: "must be a valid YYYY-MM-DD date"})
	}
	to, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("to"), time.UTC)
	if err != nil {
		fieldErrors = append(fieldErrors, problem.FieldError{Field: "to", Message: "must be a valid YYYY-MM-DD date"})
	}
	if fieldErrors == nil && to.Before(from) {
		fieldErrors = append(fieldErrors, problem.FieldError{Field: "to", Message: "must not be before from"})
	}
	if fieldErrors != nil {
		problem.ValidationError("Invalid query parameters", fieldErrors).Write(w)
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	return userID, from, to, true
}

func writeGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		problem.NotFound("Not found").Write(w)
	case errors.Is(err, domain.ErrMissingUser), errors.Is(err, domain.ErrInvalidInput):
		problem.BadRequest("Invalid generation parameters").Write(w)
	default:
		problem.InternalError("Generation failed").Write(w)
	}
}
