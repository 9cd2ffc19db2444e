package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/repository"
	"github.com/blaisecz/health-simulator/internal/sim"
	"github.com/blaisecz/health-simulator/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxConcurrentUsers bounds the fan-out when generating for the whole
// population at once.
const MaxConcurrentUsers = 4

// HistoryGenerator is the slice of the simulation engine the service
// needs. Satisfied by *sim.Orchestrator.
type HistoryGenerator interface {
	GenerateRange(ctx context.Context, user *domain.VirtualUser, numDays int, boundary sim.Boundary, mode domain.DataMode) (*sim.HistoryResult, error)
	GenerateRangeAs(ctx context.Context, user *domain.VirtualUser, chronotype domain.SleepChronotype, numDays int, boundary sim.Boundary, mode domain.DataMode) (*sim.HistoryResult, error)
}

// GenerationService runs the engine for stored users and persists the
// resulting series.
type GenerationService interface {
	Generate(ctx context.Context, userID uuid.UUID, req *domain.GenerateRequest) (*domain.GenerateResponse, error)
	GenerateAll(ctx context.Context, req *domain.GenerateRequest) ([]domain.GenerateResponse, error)
	ListSleep(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.SleepSeriesResponse, error)
	ListSteps(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.StepsSeriesResponse, error)
	GetIncrements(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.IncrementsResponse, error)
}

type generationService struct {
	generator  HistoryGenerator
	userRepo   repository.VirtualUserRepository
	healthRepo repository.HealthDataRepository
	logger     *zap.Logger
}

func NewGenerationService(
	generator HistoryGenerator,
	userRepo repository.VirtualUserRepository,
	healthRepo repository.HealthDataRepository,
	logger *zap.Logger,
) GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &generationService{
		generator:  generator,
		userRepo:   userRepo,
		healthRepo: healthRepo,
		logger:     logger,
	}
}

func (s *generationService) Generate(ctx context.Context, userID uuid.UUID, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.generateForUser(ctx, user, req)
}

// GenerateAll runs the engine for every stored user concurrently. Each
// user's range is independent, so a bounded errgroup fans the work out;
// the first failure cancels the rest.
func (s *generationService) GenerateAll(ctx context.Context, req *domain.GenerateRequest) ([]domain.GenerateResponse, error) {
	users, err := s.userRepo.List(ctx, domain.VirtualUserFilter{Limit: pagination.MaxLimit})
	if err != nil {
		return nil, err
	}
	// The repository fetches one extra row for pagination probing.
	if len(users) > pagination.MaxLimit {
		users = users[:pagination.MaxLimit]
	}

	results := make([]domain.GenerateResponse, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentUsers)

	for i := range users {
		i := i
		g.Go(func() error {
			resp, err := s.generateForUser(gctx, &users[i], req)
			if err != nil {
				return fmt.Errorf("user %s: %w", users[i].ID, err)
			}
			results[i] = *resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *generationService) generateForUser(ctx context.Context, user *domain.VirtualUser, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	mode := req.Mode
	if mode == "" {
		mode = domain.DataModeSimple
		if user.Wearable {
			mode = domain.DataModeWearable
		}
	}
	boundary := sim.Boundary(req.Boundary)

	start := time.Now()
	var (
		result *sim.HistoryResult
		err    error
	)
	if req.Chronotype != "" {
		result, err = s.generator.GenerateRangeAs(ctx, user, req.Chronotype, req.Days, boundary, mode)
	} else {
		result, err = s.generator.GenerateRange(ctx, user, req.Days, boundary, mode)
	}
	if err != nil {
		return nil, err
	}

	sleepRecords := make([]*domain.SleepRecord, len(result.Sleep))
	for i, data := range result.Sleep {
		sleepRecords[i] = domain.NewSleepRecord(user.ID, data)
	}
	stepsRecords := make([]*domain.StepsRecord, len(result.Steps))
	for i, dist := range result.Steps {
		stepsRecords[i] = domain.NewStepsRecord(user.ID, dist)
	}

	if err := s.healthRepo.UpsertSleep(ctx, sleepRecords); err != nil {
		return nil, err
	}
	if err := s.healthRepo.UpsertSteps(ctx, stepsRecords); err != nil {
		return nil, err
	}

	resp := buildGenerateResponse(user.ID, result)
	s.logger.Info("generated history",
		zap.String("user_id", user.ID.String()),
		zap.Int("days", req.Days),
		zap.String("boundary", req.Boundary),
		zap.Int("total_steps", resp.TotalSteps),
		zap.Int("issues", len(result.Issues)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func buildGenerateResponse(userID uuid.UUID, result *sim.HistoryResult) *domain.GenerateResponse {
	resp := &domain.GenerateResponse{
		UserID:    userID.String(),
		SleepDays: len(result.Sleep),
		StepsDays: len(result.Steps),
		Issues:    result.Issues,
	}
	if len(result.Steps) > 0 {
		resp.From = result.Steps[0].Date
		resp.To = result.Steps[len(result.Steps)-1].Date
	}

	var totalSleep float64
	for _, s := range result.Sleep {
		totalSleep += s.TotalSleepHours()
	}
	if len(result.Sleep) > 0 {
		resp.AvgSleepHours = totalSleep / float64(len(result.Sleep))
	}

	for _, d := range result.Steps {
		resp.TotalSteps += d.TotalSteps
	}
	if len(result.Steps) > 0 {
		resp.AvgDailySteps = resp.TotalSteps / len(result.Steps)
	}
	return resp
}

func (s *generationService) ListSleep(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.SleepSeriesResponse, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	records, err := s.healthRepo.ListSleepByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return &domain.SleepSeriesResponse{Data: records}, nil
}

func (s *generationService) ListSteps(ctx context.Context, userID uuid.UUID, from, to time.Time) (*domain.StepsSeriesResponse, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	records, err := s.healthRepo.ListStepsByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return &domain.StepsSeriesResponse{Data: records}, nil
}

func (s *generationService) GetIncrements(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.IncrementsResponse, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	record, err := s.healthRepo.GetStepsByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return &domain.IncrementsResponse{
		UserID:     userID.String(),
		Date:       record.Date,
		TotalSteps: record.TotalSteps,
		Increments: record.Increments,
	}, nil
}

func (s *generationService) requireUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}
