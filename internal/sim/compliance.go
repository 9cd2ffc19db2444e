package sim

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
)

const (
	// anomalyFloor is the physiologically implausible threshold the
	// anomaly scan double-checks even after clamping.
	anomalyFloor = 500

	// fillerChunk is the largest single filler increment used when a
	// clamped-low day is topped up.
	fillerChunk = 300
)

// Compliance is the final validation and repair gate applied after both
// generators. It guarantees every emitted value satisfies the platform
// and physiological bounds, whatever the intermediate multipliers did.
// Repairs produce corrected copies and diagnostics; nothing is thrown.
type Compliance struct{}

// NewCompliance creates the compliance gate.
func NewCompliance() *Compliance {
	return &Compliance{}
}

// EnforceSteps clamps and repairs a composed day. The total clamp into
// [MinDailySteps, MaxDailySteps] is deliberately the last multiplicative
// operation of the pipeline: weekend, intensity, and quality factors have
// all been applied by now, so compounding can no longer drive the value
// back out of range. sleep may be nil.
func (c *Compliance) EnforceSteps(dist domain.DailyStepDistribution, sleep *domain.SleepData) (domain.DailyStepDistribution, []domain.Issue) {
	var issues []domain.Issue

	increments := append([]domain.StepIncrement(nil), dist.Increments...)
	total := sumIncrements(increments)

	if total > domain.MaxDailySteps {
		increments = scaleIncrements(increments, domain.MaxDailySteps)
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityWarning,
			Code:     "steps_clamped_high",
			Date:     dist.Date,
			Detail:   fmt.Sprintf("raw total %d scaled down to %d", total, domain.MaxDailySteps),
		})
		total = sumIncrements(increments)
	}

	if sleep != nil {
		trimmed, n := trimSleepShare(increments, sleep, total)
		if n > 0 {
			increments = trimmed
			total = sumIncrements(increments)
			issues = append(issues, domain.Issue{
				Severity: domain.SeverityInfo,
				Code:     "sleep_share_trimmed",
				Date:     dist.Date,
				Detail:   fmt.Sprintf("%d steps removed from the sleep window", n),
			})
		}
	}

	// The floor fill runs after the trim: filler lands outside the sleep
	// window, so it cannot re-violate the share cap, while a trim running
	// last could undercut the floor.
	if total < domain.MinDailySteps {
		increments = fillToFloor(increments, dist.Date, domain.MinDailySteps-total)
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityWarning,
			Code:     "steps_clamped_low",
			Date:     dist.Date,
			Detail:   fmt.Sprintf("total %d raised to %d", total, domain.MinDailySteps),
		})
		total = sumIncrements(increments)
	}

	// Defensive double-check: the clamp above makes this unreachable,
	// so an anomaly here means the pipeline itself misbehaved.
	if total < anomalyFloor {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityWarning,
			Code:     "implausible_daily_total",
			Date:     dist.Date,
			Detail:   fmt.Sprintf("daily total %d below plausibility floor %d", total, anomalyFloor),
		})
	}

	out := domain.DailyStepDistribution{
		Date:       dist.Date,
		TotalSteps: total,
		Increments: increments,
	}
	out.Hourly = bucketHourly(dist.Date, increments)

	// Final structural check on the bucket view the repairs produced.
	data := out.ToStepsData()
	if err := data.Validate(); err != nil {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityWarning,
			Code:     "steps_validation_failed",
			Date:     dist.Date,
			Detail:   err.Error(),
		})
	}
	return out, issues
}

// ClampQuality bounds the sleep-quality multiplier before it is allowed
// to scale a step target.
func (c *Compliance) ClampQuality(q float64, bounds QualityBounds) float64 {
	if bounds.Min <= 0 || bounds.Max <= bounds.Min {
		bounds = DefaultQualityBounds()
	}
	if q < bounds.Min {
		return bounds.Min
	}
	if q > bounds.Max {
		return bounds.Max
	}
	return q
}

// EnsureSleep re-validates a generated session and regenerates it through
// the supplied callback if it is structurally broken. Truncating a broken
// session in place is never acceptable; records are replaced whole.
func (c *Compliance) EnsureSleep(data domain.SleepData, regenerate func() domain.SleepData) (domain.SleepData, []domain.Issue) {
	if err := data.Validate(); err == nil {
		return data, nil
	}
	repaired := regenerate()
	issues := []domain.Issue{{
		Severity: domain.SeverityWarning,
		Code:     "sleep_regenerated",
		Date:     data.Date,
		Detail:   "structural validation failed, session regenerated",
	}}
	return repaired, issues
}

// scaleIncrements proportionally rescales every increment so the total
// lands exactly on limit.
func scaleIncrements(increments []domain.StepIncrement, limit int) []domain.StepIncrement {
	total := sumIncrements(increments)
	if total <= limit {
		return increments
	}
	factor := float64(limit) / float64(total)

	out := make([]domain.StepIncrement, 0, len(increments))
	scaled := 0
	for _, inc := range increments {
		inc.Steps = int(math.Floor(float64(inc.Steps) * factor))
		if inc.Steps > 0 {
			scaled += inc.Steps
			out = append(out, inc)
		}
	}
	// Flooring leaves a small remainder; settle it on the largest increment.
	if deficit := limit - scaled; deficit > 0 && len(out) > 0 {
		largest := 0
		for i, inc := range out {
			if inc.Steps > out[largest].Steps {
				largest = i
			}
		}
		out[largest].Steps += deficit
	}
	return out
}

// fillToFloor tops a clamped-low day up with plausible afternoon and
// evening walking increments rather than inflating existing events.
func fillToFloor(increments []domain.StepIncrement, day time.Time, deficit int) []domain.StepIncrement {
	out := append([]domain.StepIncrement(nil), increments...)
	at := day.Add(16 * time.Hour)
	for deficit > 0 {
		chunk := fillerChunk
		if deficit < chunk {
			chunk = deficit
		}
		out = append(out, domain.StepIncrement{
			Timestamp:    at,
			Steps:        chunk,
			ActivityType: domain.ActivityWalking,
		})
		deficit -= chunk
		at = at.Add(20 * time.Minute)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// trimSleepShare reduces in-window increments until they carry at most
// sleepSharePercent of the daily total, largest first. Returns the new
// slice and how many steps were removed.
func trimSleepShare(increments []domain.StepIncrement, sleep *domain.SleepData, total int) ([]domain.StepIncrement, int) {
	inWindow := 0
	for _, inc := range increments {
		if sleep.Covers(inc.Timestamp) {
			inWindow += inc.Steps
		}
	}
	// Trimming shrinks the total too, so the cap is solved against the
	// post-trim total: share' = limit / (outside + limit) <= cap%.
	outside := total - inWindow
	limit := outside * sleepSharePercent / (100 - sleepSharePercent)
	if inWindow <= limit {
		return increments, 0
	}

	out := append([]domain.StepIncrement(nil), increments...)
	excess := inWindow - limit
	removed := 0
	for excess > 0 {
		largest := -1
		for i, inc := range out {
			if inc.Steps > 0 && sleep.Covers(inc.Timestamp) && (largest < 0 || inc.Steps > out[largest].Steps) {
				largest = i
			}
		}
		if largest < 0 {
			break
		}
		cut := out[largest].Steps
		if cut > excess {
			cut = excess
		}
		out[largest].Steps -= cut
		excess -= cut
		removed += cut
	}

	trimmed := out[:0]
	for _, inc := range out {
		if inc.Steps > 0 {
			trimmed = append(trimmed, inc)
		}
	}
	return trimmed, removed
}
