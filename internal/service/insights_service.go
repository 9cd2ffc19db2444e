package service

import (
	"context"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/llm"
	"github.com/blaisecz/health-simulator/internal/repository"
	"github.com/blaisecz/health-simulator/internal/sim"
	"github.com/google/uuid"
)

// DefaultInsightsWindowDays is how far back the realism assessment looks
// when the caller does not say.
const DefaultInsightsWindowDays = 30

// InsightsService asks an LLM to assess the realism of a generated window.
type InsightsService interface {
	// Generate builds aggregates over the stored window and returns the
	// LLM's assessment.
	Generate(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.InsightsResponse, error)
}

type insightsService struct {
	llmClient  llm.InsightsLLM
	classifier *sim.Classifier
	userRepo   repository.VirtualUserRepository
	healthRepo repository.HealthDataRepository
	now        func() time.Time
}

// NewInsightsService creates a new InsightsService.
func NewInsightsService(
	llmClient llm.InsightsLLM,
	classifier *sim.Classifier,
	userRepo repository.VirtualUserRepository,
	healthRepo repository.HealthDataRepository,
) InsightsService {
	return &insightsService{
		llmClient:  llmClient,
		classifier: classifier,
		userRepo:   userRepo,
		healthRepo: healthRepo,
		now:        time.Now,
	}
}

func (s *insightsService) Generate(ctx context.Context, userID uuid.UUID, windowDays int) (*domain.InsightsResponse, error) {
	if windowDays < 1 {
		windowDays = DefaultInsightsWindowDays
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.classifier.Classify(user)
	if err != nil {
		return nil, err
	}

	to := sim.Midnight(s.now())
	from := to.AddDate(0, 0, -(windowDays - 1))

	sleep, err := s.healthRepo.ListSleepByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	steps, err := s.healthRepo.ListStepsByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if len(sleep) == 0 && len(steps) == 0 {
		return nil, domain.ErrNotFound
	}

	insightsCtx := buildInsightsContext(profile, windowDays, sleep, steps)

	llmOutput, err := s.llmClient.GenerateInsights(ctx, &insightsCtx)
	if err != nil {
		return nil, err
	}

	return &domain.InsightsResponse{
		Profile:  *profile,
		Context:  insightsCtx,
		Insights: *llmOutput,
	}, nil
}

func buildInsightsContext(profile *domain.PersonalizedProfile, windowDays int, sleep []domain.SleepRecord, steps []domain.StepsRecord) domain.InsightsContext {
	out := domain.InsightsContext{
		Profile:    *profile,
		WindowDays: windowDays,
		SleepDays:  len(sleep),
		StepsDays:  len(steps),
	}

	var sumSleep float64
	for i, r := range sleep {
		d := r.ToData()
		h := d.TotalSleepHours()
		sumSleep += h
		if i == 0 || h < out.MinSleepHours {
			out.MinSleepHours = h
		}
		if h > out.MaxSleepHours {
			out.MaxSleepHours = h
		}
	}
	if len(sleep) > 0 {
		out.AvgSleepHours = sumSleep / float64(len(sleep))
	}

	var sumSteps, weekendSum, weekdaySum, weekendDays, weekdayDays int
	for i, r := range steps {
		sumSteps += r.TotalSteps
		if i == 0 || r.TotalSteps < out.MinDailySteps {
			out.MinDailySteps = r.TotalSteps
		}
		if r.TotalSteps > out.MaxDailySteps {
			out.MaxDailySteps = r.TotalSteps
		}
		if sim.IsWeekend(r.Date) {
			weekendSum += r.TotalSteps
			weekendDays++
		} else {
			weekdaySum += r.TotalSteps
			weekdayDays++
		}
	}
	if len(steps) > 0 {
		out.AvgDailySteps = sumSteps / len(steps)
	}
	if weekendDays > 0 {
		out.WeekendSteps = weekendSum / weekendDays
	}
	if weekdayDays > 0 {
		out.WeekdaySteps = weekdaySum / weekdayDays
	}
	return out
}
