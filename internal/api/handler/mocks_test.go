package handler

import (
	"context"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/google/uuid"
)

// MockVirtualUserService is a mock implementation of VirtualUserService
type MockVirtualUserService struct {
	createFunc     func(ctx context.Context, req *domain.CreateVirtualUserRequest) (*domain.VirtualUser, error)
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.VirtualUser, error)
	getProfileFunc func(ctx context.Context, id uuid.UUID) (*domain.PersonalizedProfile, error)
	listFunc       func(ctx context.Context, filter domain.VirtualUserFilter) (*domain.VirtualUserListResponse, error)
	deleteFunc     func(ctx context.Context, id uuid.UUID) error
}

func (m *MockVirtualUserService) Create(ctx context.Context, req *domain.CreateVirtualUserRequest) (*domain.VirtualUser, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &domain.VirtualUser{
		ID:            uuid.New(),
		Age:           req.Age,
		Gender:        req.Gender,
		SleepBaseline: req.SleepBaseline,
		StepsBaseline: req.StepsBaseline,
		Timezone:      "UTC",
		CreatedAt:     time.Now(),
	}, nil
}

func (m *MockVirtualUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.VirtualUser, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockVirtualUserService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.PersonalizedProfile, error) {
	if m.getProfileFunc != nil {
		return m.getProfileFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *MockVirtualUserService) List(ctx context.Context, filter domain.VirtualUserFilter) (*domain.VirtualUserListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return &domain.VirtualUserListResponse{
		Data:       []domain.VirtualUserResponse{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

func (m *MockVirtualUserService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return domain.ErrNotFound
}

// MockGenerationService is a mock implementation of GenerationService
type MockGenerationService struct {
	generateFunc      func(ctx context.Context, userID uuid.UUID, req *domain.GenerateRequest) (*domain.GenerateResponse, error)
	generateAllFunc   func(ctx context.Context, req *domain.GenerateRequest) ([]domain.GenerateResponse, error)
	listSleepFunc     func(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.SleepSeriesResponse, error)
	listStepsFunc     func(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.StepsSeriesResponse, error)
	getIncrementsFunc func(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.IncrementsResponse, error)
}

func (m *MockGenerationService) Generate(ctx context.Context, userID uuid.UUID, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, userID, req)
	}
	return &domain.GenerateResponse{UserID: userID.String(), SleepDays: req.Days, StepsDays: req.Days}, nil
}

func (m *MockGenerationService) GenerateAll(ctx context.Context, req *domain.GenerateRequest) ([]domain.GenerateResponse, error) {
	if m.generateAllFunc != nil {
		return m.generateAllFunc(ctx, req)
	}
	return []domain.GenerateResponse{}, nil
}

func (m *MockGenerationService) ListSleep(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.SleepSeriesResponse, error) {
	if m.listSleepFunc != nil {
		return m.listSleepFunc(ctx, userID, from, to)
	}
	return &domain.SleepSeriesResponse{Data: []domain.SleepRecord{}}, nil
}

func (m *MockGenerationService) ListSteps(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.StepsSeriesResponse, error) {
	if m.listStepsFunc != nil {
		return m.listStepsFunc(ctx, userID, from, to)
	}
	return &domain.StepsSeriesResponse{Data: []domain.StepsRecord{}}, nil
}

func (m *MockGenerationService) GetIncrements(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.IncrementsResponse, error) {
	if m.getIncrementsFunc != nil {
		return m.getIncrementsFunc(ctx, userID, date)
	}
	return nil, domain.ErrNotFound
}

// MockInsightsService is a mock implementation of InsightsService
type MockInsightsService struct {
	generateFunc func(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.InsightsResponse, error)
}

func (m *MockInsightsService) Generate(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.InsightsResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, userID, windowDays)
	}
	return nil, domain.ErrNotFound
}
