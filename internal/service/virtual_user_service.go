package service

import (
	"context"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/repository"
	"github.com/blaisecz/health-simulator/internal/sim"
	"github.com/blaisecz/health-simulator/pkg/pagination"
	"github.com/google/uuid"
)

// Baseline bands used when a create request leaves a baseline at zero.
// Draws are deterministic per user identity, so re-creating the same
// fixture set yields the same population.
const (
	randomSleepBaselineMin = 6.0
	randomSleepBaselineMax = 9.5
	randomStepsBaselineMin = 3000
	randomStepsBaselineMax = 15000
)

type VirtualUserService interface {
	Create(ctx context.Context, req *domain.CreateVirtualUserRequest) (*domain.VirtualUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VirtualUser, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.PersonalizedProfile, error)
	List(ctx context.Context, filter domain.VirtualUserFilter) (*domain.VirtualUserListResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type virtualUserService struct {
	repo       repository.VirtualUserRepository
	classifier *sim.Classifier
}

func NewVirtualUserService(repo repository.VirtualUserRepository, classifier *sim.Classifier) VirtualUserService {
	return &virtualUserService{
		repo:       repo,
		classifier: classifier,
	}
}

func (s *virtualUserService) Create(ctx context.Context, req *domain.CreateVirtualUserRequest) (*domain.VirtualUser, error) {
	user := &domain.VirtualUser{
		ID:            uuid.New(),
		Age:           req.Age,
		Gender:        req.Gender,
		HeightCM:      req.HeightCM,
		WeightKG:      req.WeightKG,
		SleepBaseline: req.SleepBaseline,
		StepsBaseline: req.StepsBaseline,
		DeviceModel:   req.DeviceModel,
		Wearable:      req.Wearable,
		Timezone:      "UTC",
	}
	if req.Timezone != nil && *req.Timezone != "" {
		user.Timezone = *req.Timezone
	}

	// Zero baselines mean "pick for me". The draw is seeded from the new
	// identity so the resulting persona is stable.
	if user.SleepBaseline == 0 || user.StepsBaseline == 0 {
		rng := sim.Seed(user.ID, time.Unix(0, 0).UTC())
		if user.SleepBaseline == 0 {
			user.SleepBaseline = rng.Float64Between(randomSleepBaselineMin, randomSleepBaselineMax)
		}
		if user.StepsBaseline == 0 {
			user.StepsBaseline = rng.IntBetween(randomStepsBaselineMin, randomStepsBaselineMax)
		}
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *virtualUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.VirtualUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *virtualUserService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.PersonalizedProfile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.classifier.Classify(user)
}

func (s *virtualUserService) List(ctx context.Context, filter domain.VirtualUserFilter) (*domain.VirtualUserListResponse, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(users) > limit

	// Trim to actual limit
	if hasMore {
		users = users[:limit]
	}

	// Build response
	response := &domain.VirtualUserListResponse{
		Data: make([]domain.VirtualUserResponse, len(users)),
		Pagination: domain.PaginationResponse{
			HasMore: hasMore,
		},
	}

	for i, user := range users {
		response.Data[i] = user.ToResponse()
	}

	// Set next cursor if there are more results
	if hasMore && len(users) > 0 {
		last := users[len(users)-1]
		cursor := &pagination.Cursor{
			ID:        last.ID,
			CreatedAt: last.CreatedAt,
		}
		response.Pagination.NextCursor = cursor.Encode()
	}

	return response, nil
}

func (s *virtualUserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
