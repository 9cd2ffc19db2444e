package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/blaisecz/health-simulator/internal/api/validation"
	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/service"
	"github.com/blaisecz/health-simulator/pkg/problem"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// @title Health Simulator API
// @version 1.0
// @description API for generating plausible synthetic sleep and step data for virtual users
// @BasePath /v1

type VirtualUserHandler struct {
	service service.VirtualUserService
}

func NewVirtualUserHandler(service service.VirtualUserService) *VirtualUserHandler {
	return &VirtualUserHandler{service: service}
}

// Create handles POST /v1/users
// @Summary Create a virtual user
// @Description Create a virtual user. Zero baselines are randomized deterministically from the new identity.
// @Tags users
// @Accept json
// @Produce json
// @Param request body domain.CreateVirtualUserRequest true "Virtual user creation request"
// @Success 201 {object} domain.VirtualUserResponse
// @Failure 400 {object} problem.Problem "Malformed JSON body"
// @Failure 422 {object} problem.Problem "Validation failed"
// @Failure 500 {object} problem.Problem
// @Router /users [post]
func (h *VirtualUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVirtualUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	user, err := h.service.Create(r.Context(), &req)
	if err != nil {
		problem.InternalError("Failed to create virtual user").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user.ToResponse())
}

// GetByID handles GET /v1/users/{userId}
// @Summary Get virtual user by ID
// @Description Get a virtual user's details by their UUID
// @Tags users
// @Produce json
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} domain.VirtualUserResponse
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /users/{userId} [get]
func (h *VirtualUserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	user, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to get virtual user").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user.ToResponse())
}

// GetProfile handles GET /v1/users/{userId}/profile
// @Summary Get derived behavioral profile
// @Description Get the chronotype, activity level, and generation parameters classified from the user's baselines.
// @Tags users
// @Produce json
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} domain.PersonalizedProfile
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /users/{userId}/profile [get]
func (h *VirtualUserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to classify user").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profile)
}

// List handles GET /v1/users
// @Summary List virtual users
// @Description Fetch paginated virtual users, newest first.
// @Tags users
// @Produce json
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.VirtualUserListResponse
// @Failure 400 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /users [get]
func (h *VirtualUserHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter domain.VirtualUserFilter
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			problem.BadRequest("limit must be a positive integer").Write(w)
			return
		}
		filter.Limit = limit
	}
	filter.Cursor = r.URL.Query().Get("cursor")

	response, err := h.service.List(r.Context(), filter)
	if err != nil {
		problem.InternalError("Failed to list virtual users").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Delete handles DELETE /v1/users/{userId}
// @Summary Delete a virtual user
// @Description Delete a virtual user and all generated data for them.
// @Tags users
// @Param userId path string true "User ID" format(uuid)
// @Success 204 "User deleted"
// @Failure 400 {object} problem.Problem
// @Failure 404 {object} problem.Problem
// @Failure 500 {object} problem.Problem
// @Router /users/{userId} [delete]
func (h *VirtualUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		problem.BadRequest("Invalid user ID format").Write(w)
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("User not found").Write(w)
			return
		}
		problem.InternalError("Failed to delete virtual user").Write(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
