package sim

import (
	"testing"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
)

func distWith(day time.Time, increments ...domain.StepIncrement) domain.DailyStepDistribution {
	d := domain.DailyStepDistribution{Date: day, Increments: increments}
	d.TotalSteps = sumIncrements(increments)
	d.Hourly = bucketHourly(day, increments)
	return d
}

func TestEnforceStepsClampLow(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c := NewCompliance()

	// The §8-style scenario: compounded multipliers left only 15 raw steps.
	dist := distWith(day, domain.StepIncrement{
		Timestamp:    day.Add(18 * time.Hour),
		Steps:        15,
		ActivityType: domain.ActivityWalking,
	})

	out, issues := c.EnforceSteps(dist, nil)
	if out.TotalSteps != domain.MinDailySteps {
		t.Errorf("clamped total = %d, want %d", out.TotalSteps, domain.MinDailySteps)
	}
	if got := sumIncrements(out.Increments); got != out.TotalSteps {
		t.Errorf("increment sum %d != total %d after repair", got, out.TotalSteps)
	}
	if !hasIssue(issues, "steps_clamped_low") {
		t.Errorf("expected steps_clamped_low diagnostic, got %v", issues)
	}
}

func TestEnforceStepsClampHigh(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c := NewCompliance()

	var incs []domain.StepIncrement
	for h := 6; h < 22; h++ {
		incs = append(incs, domain.StepIncrement{
			Timestamp:    day.Add(time.Duration(h) * time.Hour),
			Steps:        2000,
			ActivityType: domain.ActivityWalking,
		})
	}
	dist := distWith(day, incs...)

	out, issues := c.EnforceSteps(dist, nil)
	if out.TotalSteps != domain.MaxDailySteps {
		t.Errorf("clamped total = %d, want %d", out.TotalSteps, domain.MaxDailySteps)
	}
	if got := sumIncrements(out.Increments); got != out.TotalSteps {
		t.Errorf("increment sum %d != total %d after rescale", got, out.TotalSteps)
	}
	if !hasIssue(issues, "steps_clamped_high") {
		t.Errorf("expected steps_clamped_high diagnostic, got %v", issues)
	}
}

func TestEnforceStepsWithinBoundsUntouched(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c := NewCompliance()

	dist := distWith(day,
		domain.StepIncrement{Timestamp: day.Add(9 * time.Hour), Steps: 4000, ActivityType: domain.ActivityWalking},
		domain.StepIncrement{Timestamp: day.Add(18 * time.Hour), Steps: 3000, ActivityType: domain.ActivityWalking},
	)

	out, issues := c.EnforceSteps(dist, nil)
	if out.TotalSteps != 7000 {
		t.Errorf("total changed to %d, want 7000", out.TotalSteps)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected diagnostics: %v", issues)
	}
}

func TestEnforceStepsTrimsSleepShare(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c := NewCompliance()

	bed := day.Add(-time.Hour)
	wake := day.Add(7 * time.Hour)
	sleep := &domain.SleepData{
		Date:     day,
		BedTime:  bed,
		WakeTime: wake,
		Stages:   []domain.SleepStage{{Stage: domain.StageLight, StartTime: bed, EndTime: wake}},
	}

	dist := distWith(day,
		domain.StepIncrement{Timestamp: day.Add(3 * time.Hour), Steps: 900, ActivityType: domain.ActivityWalking},
		domain.StepIncrement{Timestamp: day.Add(12 * time.Hour), Steps: 9000, ActivityType: domain.ActivityWalking},
	)

	out, issues := c.EnforceSteps(dist, sleep)

	inWindow := 0
	for _, inc := range out.Increments {
		if sleep.Covers(inc.Timestamp) {
			inWindow += inc.Steps
		}
	}
	if limit := out.TotalSteps * 2 / 100; inWindow > limit {
		t.Errorf("in-window steps %d exceed cap %d", inWindow, limit)
	}
	if !hasIssue(issues, "sleep_share_trimmed") {
		t.Errorf("expected sleep_share_trimmed diagnostic, got %v", issues)
	}
}

func TestEnforceStepsFloorHoldsAfterTrim(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	c := NewCompliance()

	bed := day.Add(-time.Hour)
	wake := day.Add(7 * time.Hour)
	sleep := &domain.SleepData{
		Date:     day,
		BedTime:  bed,
		WakeTime: wake,
		Stages:   []domain.SleepStage{{Stage: domain.StageLight, StartTime: bed, EndTime: wake}},
	}

	// Nearly everything sits inside the sleep window, so trimming the
	// share alone would drop the day far below the platform floor.
	dist := distWith(day,
		domain.StepIncrement{Timestamp: day.Add(3 * time.Hour), Steps: 850, ActivityType: domain.ActivityWalking},
		domain.StepIncrement{Timestamp: day.Add(12 * time.Hour), Steps: 50, ActivityType: domain.ActivityWalking},
	)

	out, issues := c.EnforceSteps(dist, sleep)

	if out.TotalSteps < domain.MinDailySteps {
		t.Errorf("total %d below platform floor %d after trim", out.TotalSteps, domain.MinDailySteps)
	}
	inWindow := 0
	for _, inc := range out.Increments {
		if sleep.Covers(inc.Timestamp) {
			inWindow += inc.Steps
		}
	}
	if limit := out.TotalSteps * 2 / 100; inWindow > limit {
		t.Errorf("in-window steps %d exceed cap %d", inWindow, limit)
	}
	if !hasIssue(issues, "sleep_share_trimmed") || !hasIssue(issues, "steps_clamped_low") {
		t.Errorf("expected trim and clamp diagnostics, got %v", issues)
	}
}

func TestClampQuality(t *testing.T) {
	c := NewCompliance()
	bounds := DefaultQualityBounds()

	tests := []struct {
		in   float64
		want float64
	}{
		{0.1, bounds.Min},
		{bounds.Min, bounds.Min},
		{1.0, 1.0},
		{bounds.Max, bounds.Max},
		{3.0, bounds.Max},
	}
	for _, tt := range tests {
		if got := c.ClampQuality(tt.in, bounds); got != tt.want {
			t.Errorf("ClampQuality(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}

	// Degenerate bounds fall back to the defaults.
	if got := c.ClampQuality(0.1, QualityBounds{}); got != bounds.Min {
		t.Errorf("ClampQuality with zero bounds = %f, want %f", got, bounds.Min)
	}
}

func TestEnsureSleepRegenerates(t *testing.T) {
	c := NewCompliance()
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	bed := day.Add(-time.Hour)
	wake := day.Add(7 * time.Hour)
	valid := domain.SleepData{
		Date:     day,
		BedTime:  bed,
		WakeTime: wake,
		Stages:   []domain.SleepStage{{Stage: domain.StageLight, StartTime: bed, EndTime: wake}},
	}

	// Valid sessions pass through without touching the callback.
	out, issues := c.EnsureSleep(valid, func() domain.SleepData {
		t.Fatal("regenerate called for a valid session")
		return valid
	})
	if len(issues) != 0 || !out.BedTime.Equal(bed) {
		t.Errorf("valid session modified: %v %v", out, issues)
	}

	broken := valid
	broken.Stages = nil
	out, issues = c.EnsureSleep(broken, func() domain.SleepData { return valid })
	if err := out.Validate(); err != nil {
		t.Errorf("regenerated session invalid: %v", err)
	}
	if !hasIssue(issues, "sleep_regenerated") {
		t.Errorf("expected sleep_regenerated diagnostic, got %v", issues)
	}
}

func hasIssue(issues []domain.Issue, code string) bool {
	for _, i := range issues {
		if i.Code == code {
			return true
		}
	}
	return false
}
