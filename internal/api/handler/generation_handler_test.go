package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func TestGenerationHandler_Generate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		userID         string
		body           string
		mockService    *MockGenerationService
		wantStatusCode int
	}{
		{
			name:           "valid request",
			userID:         userID.String(),
			body:           `{"days": 30, "boundary": "yesterday"}`,
			mockService:    &MockGenerationService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "chronotype override",
			userID:         userID.String(),
			body:           `{"days": 14, "boundary": "today", "chronotype": "irregular"}`,
			mockService:    &MockGenerationService{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid UUID",
			userID:         "nope",
			body:           `{"days": 30, "boundary": "yesterday"}`,
			mockService:    &MockGenerationService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			userID:         userID.String(),
			body:           `{`,
			mockService:    &MockGenerationService{},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing days",
			userID:         userID.String(),
			body:           `{"boundary": "yesterday"}`,
			mockService:    &MockGenerationService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown boundary",
			userID:         userID.String(),
			body:           `{"days": 30, "boundary": "tomorrow"}`,
			mockService:    &MockGenerationService{},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:   "user not found",
			userID: userID.String(),
			body:   `{"days": 30, "boundary": "yesterday"}`,
			mockService: &MockGenerationService{
				generateFunc: func(ctx context.Context, id uuid.UUID, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
					return nil, domain.ErrNotFound
				},
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewGenerationHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodPost, "/v1/users/"+tt.userID+"/generate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withURLParam(req, "userId", tt.userID)
			rec := httptest.NewRecorder()

			handler.Generate(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("Generate() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestGenerationHandler_ListSleep(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		query          string
		wantStatusCode int
	}{
		{
			name:           "valid range",
			query:          "?from=2024-06-01&to=2024-06-30",
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing from",
			query:          "?to=2024-06-30",
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "malformed date",
			query:          "?from=June-1&to=2024-06-30",
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "inverted range",
			query:          "?from=2024-06-30&to=2024-06-01",
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewGenerationHandler(&MockGenerationService{})

			req := httptest.NewRequest(http.MethodGet, "/v1/users/"+userID.String()+"/sleep"+tt.query, nil)
			req = withURLParam(req, "userId", userID.String())
			rec := httptest.NewRecorder()

			handler.ListSleep(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("ListSleep() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}

func TestGenerationHandler_GetIncrements(t *testing.T) {
	userID := uuid.New()
	date := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	mockService := &MockGenerationService{
		getIncrementsFunc: func(ctx context.Context, id uuid.UUID, d time.Time) (*domain.IncrementsResponse, error) {
			if id == userID && d.Equal(date) {
				return &domain.IncrementsResponse{
					UserID:     id.String(),
					Date:       d,
					TotalSteps: 9000,
				}, nil
			}
			return nil, domain.ErrNotFound
		},
	}

	tests := []struct {
		name           string
		date           string
		wantStatusCode int
	}{
		{name: "stored day", date: "2024-06-15", wantStatusCode: http.StatusOK},
		{name: "missing day", date: "2024-06-16", wantStatusCode: http.StatusNotFound},
		{name: "malformed date", date: "15-06-2024", wantStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewGenerationHandler(mockService)

			req := httptest.NewRequest(http.MethodGet, "/v1/users/"+userID.String()+"/steps/"+tt.date+"/increments", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("userId", userID.String())
			rctx.URLParams.Add("date", tt.date)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			handler.GetIncrements(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("GetIncrements() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}
		})
	}
}
