package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
)

// Boundary selects where a generated range ends.
type Boundary string

const (
	// BoundaryYesterday ends the range on yesterday: the most recent day
	// whose sleep session has fully completed, so sleep and steps are
	// both emitted for every day.
	BoundaryYesterday Boundary = "yesterday"
	// BoundaryToday extends the range through today. Today's sleep
	// session has not finished before local wake time, so the final day
	// carries steps only.
	BoundaryToday Boundary = "today"
)

// DefaultBatchDays bounds how many days are generated between context
// checks. Large ranges on constrained hosts are processed batch by batch
// so intermediate buffers stay small.
const DefaultBatchDays = 14

// HistoryResult is a generated contiguous date range: one sleep session
// and one step distribution per day (the final day omits sleep under
// BoundaryToday), plus every diagnostic collected along the way.
type HistoryResult struct {
	Sleep  []domain.SleepData
	Steps  []domain.DailyStepDistribution
	Issues []domain.Issue
}

// Orchestrator drives the generators across a date range, guaranteeing
// date uniqueness, continuity, and the today/yesterday boundary semantics.
type Orchestrator struct {
	classifier *Classifier
	sleep      *SleepGenerator
	activity   *ActivityGenerator
	compliance *Compliance
	batchDays  int
	now        func() time.Time
}

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithBatchDays overrides the batch size.
func WithBatchDays(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchDays = n
		}
	}
}

// WithClock injects the time source, used by tests to pin "today".
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithQualityBounds overrides the sleep-quality clamp used for the
// cross-day coupling.
func WithQualityBounds(bounds QualityBounds) OrchestratorOption {
	return func(o *Orchestrator) {
		o.activity = NewActivityGenerator(bounds)
	}
}

// NewOrchestrator wires the full generation pipeline.
func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		classifier: NewClassifier(),
		sleep:      NewSleepGenerator(),
		activity:   NewActivityGenerator(DefaultQualityBounds()),
		compliance: NewCompliance(),
		batchDays:  DefaultBatchDays,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateRange produces numDays contiguous days ending at the boundary.
// Identical inputs yield identical output: every day draws from its own
// (user, date) seed and the previous day's sleep is threaded into the
// quality coupling deterministically.
//
// Cancellation is honored between days; a single day is atomic.
func (o *Orchestrator) GenerateRange(ctx context.Context, user *domain.VirtualUser, numDays int, boundary Boundary, mode domain.DataMode) (*HistoryResult, error) {
	if err := validateRangeArgs(user, numDays, boundary); err != nil {
		return nil, err
	}

	profile, err := o.classifier.Classify(user)
	if err != nil {
		return nil, err
	}
	return o.generateRange(ctx, user, profile, numDays, boundary, mode)
}

// GenerateRangeAs is GenerateRange with an explicitly assigned sleep
// chronotype, bypassing the baseline threshold. This is how irregular
// users are simulated.
func (o *Orchestrator) GenerateRangeAs(ctx context.Context, user *domain.VirtualUser, chronotype domain.SleepChronotype, numDays int, boundary Boundary, mode domain.DataMode) (*HistoryResult, error) {
	if err := validateRangeArgs(user, numDays, boundary); err != nil {
		return nil, err
	}
	profile, err := o.classifier.ClassifyAs(user, chronotype)
	if err != nil {
		return nil, err
	}
	return o.generateRange(ctx, user, profile, numDays, boundary, mode)
}

func validateRangeArgs(user *domain.VirtualUser, numDays int, boundary Boundary) error {
	if user == nil {
		return domain.ErrMissingUser
	}
	if numDays < 1 {
		return fmt.Errorf("%w: numDays must be positive, got %d", domain.ErrInvalidInput, numDays)
	}
	if boundary != BoundaryYesterday && boundary != BoundaryToday {
		return fmt.Errorf("%w: unknown boundary %q", domain.ErrInvalidInput, boundary)
	}
	return nil
}

func (o *Orchestrator) generateRange(ctx context.Context, user *domain.VirtualUser, profile *domain.PersonalizedProfile, numDays int, boundary Boundary, mode domain.DataMode) (*HistoryResult, error) {
	today := Midnight(o.now())
	end := today
	if boundary == BoundaryYesterday {
		end = today.AddDate(0, 0, -1)
	}
	start := end.AddDate(0, 0, -(numDays - 1))

	result := &HistoryResult{
		Sleep: make([]domain.SleepData, 0, numDays),
		Steps: make([]domain.DailyStepDistribution, 0, numDays),
	}

	for batchStart := 0; batchStart < numDays; batchStart += o.batchDays {
		batchEnd := batchStart + o.batchDays
		if batchEnd > numDays {
			batchEnd = numDays
		}
		for i := batchStart; i < batchEnd; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			date := start.AddDate(0, 0, i)
			stepsOnly := boundary == BoundaryToday && date.Equal(today)
			sleep, dist, issues := o.generateDay(user, profile, date, mode, stepsOnly)
			if sleep != nil {
				result.Sleep = append(result.Sleep, *sleep)
			}
			result.Steps = append(result.Steps, dist)
			result.Issues = append(result.Issues, issues...)
		}
	}
	return result, nil
}

// generateDay runs the full per-day pipeline: seed, sleep, activity,
// compliance. A day is atomic and never interrupted mid-flight.
func (o *Orchestrator) generateDay(user *domain.VirtualUser, profile *domain.PersonalizedProfile, date time.Time, mode domain.DataMode, stepsOnly bool) (*domain.SleepData, domain.DailyStepDistribution, []domain.Issue) {
	rng := Seed(user.ID, date)
	var issues []domain.Issue

	var sleep *domain.SleepData
	if !stepsOnly {
		session, sleepIssues := o.sleep.Generate(profile, date, mode, rng)
		issues = append(issues, sleepIssues...)

		session, repairIssues := o.compliance.EnsureSleep(session, func() domain.SleepData {
			regen, _ := o.sleep.Generate(profile, date, mode, rng)
			return regen
		})
		issues = append(issues, repairIssues...)
		sleep = &session
	}

	dist, activityIssues := o.activity.Generate(profile, date, sleep, rng)
	issues = append(issues, activityIssues...)

	dist, complianceIssues := o.compliance.EnforceSteps(dist, sleep)
	issues = append(issues, complianceIssues...)

	return sleep, dist, issues
}
