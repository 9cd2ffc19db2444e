package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/llm"
	"github.com/google/uuid"
)

func TestInsightsHandler_GetInsights(t *testing.T) {
	userID := uuid.New()
	okService := &MockInsightsService{
		generateFunc: func(ctx context.Context, id uuid.UUID, windowDays int) (*domain.InsightsResponse, error) {
			return &domain.InsightsResponse{
				Insights: domain.LLMInsightsOutput{Summary: "plausible"},
			}, nil
		},
	}

	tests := []struct {
		name           string
		userID         string
		query          string
		mockService    *MockInsightsService
		wantStatusCode int
	}{
		{
			name:           "success",
			userID:         userID.String(),
			mockService:    okService,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "custom window",
			userID:         userID.String(),
			query:          "?window_days=7",
			mockService:    okService,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "window too large",
			userID:         userID.String(),
			query:          "?window_days=1000",
			mockService:    okService,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid UUID",
			userID:         "nope",
			mockService:    okService,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "no generated data",
			userID:         userID.String(),
			mockService:    &MockInsightsService{},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:   "llm not configured",
			userID: userID.String(),
			mockService: &MockInsightsService{
				generateFunc: func(ctx context.Context, id uuid.UUID, windowDays int) (*domain.InsightsResponse, error) {
					return nil, llm.ErrOpenAIUnavailable
				},
			},
			wantStatusCode: http.StatusServiceUnavailable,
		},
		{
			name:   "llm request failed",
			userID: userID.String(),
			mockService: &MockInsightsService{
				generateFunc: func(ctx context.Context, id uuid.UUID, windowDays int) (*domain.InsightsResponse, error) {
					return nil, llm.ErrOpenAIRequest
				},
			},
			wantStatusCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInsightsHandler(tt.mockService)

			req := httptest.NewRequest(http.MethodGet, "/v1/users/"+tt.userID+"/insights"+tt.query, nil)
			req = withURLParam(req, "userId", tt.userID)
			rec := httptest.NewRecorder()

			handler.GetInsights(rec, req)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("GetInsights() status = %d, want %d, body: %s", rec.Code, tt.wantStatusCode, rec.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var resp domain.InsightsResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Errorf("Failed to decode response: %v", err)
				}
			}
		})
	}
}
