package sim

import (
	"fmt"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
)

const (
	// segmentRetries bounds re-segmentation before the coarse fallback.
	segmentRetries = 3

	minAwakeFragment = 2 * time.Minute
	maxAwakeFragment = 8 * time.Minute

	// splitMargin is the minimum sleep left on each side of an inserted
	// awake fragment.
	splitMargin = 10 * time.Minute
)

// SleepGenerator produces one night's bed/wake times and a stage-segmented
// session. Generation walks a fixed state sequence: choose bed time,
// choose wake time, segment stages, validate. A failed validation re-enters
// segmentation with fresh draws; after the retry budget a coarse
// segmentation that is valid by construction is used instead, so the
// generator never emits an invalid record.
type SleepGenerator struct{}

// NewSleepGenerator creates a SleepGenerator.
func NewSleepGenerator() *SleepGenerator {
	return &SleepGenerator{}
}

// Generate produces the sleep session for the night ending on the morning
// of date. date is the wake-side calendar day: a 23:00 bed time lands on
// the previous evening.
func (g *SleepGenerator) Generate(profile *domain.PersonalizedProfile, date time.Time, mode domain.DataMode, rng *Rand) (domain.SleepData, []domain.Issue) {
	day := Midnight(date)

	bedTime := g.chooseBedTime(profile, day, rng)
	wakeTime := g.chooseWakeTime(profile, bedTime, rng)

	data := domain.SleepData{
		Date:     day,
		BedTime:  bedTime,
		WakeTime: wakeTime,
	}

	if mode == domain.DataModeSimple {
		// Coarse devices report a single sleep span with no stage detail.
		data.Stages = []domain.SleepStage{{Stage: domain.StageLight, StartTime: bedTime, EndTime: wakeTime}}
		return data, nil
	}

	var issues []domain.Issue
	for attempt := 0; attempt <= segmentRetries; attempt++ {
		data.Stages = g.segmentStages(bedTime, wakeTime, rng)
		if err := data.Validate(); err == nil {
			return data, issues
		}
	}

	// Retry budget exhausted: fall back to a fixed three-way split.
	data.Stages = coarseStages(bedTime, wakeTime)
	issues = append(issues, domain.Issue{
		Severity: domain.SeverityInfo,
		Code:     "sleep_segmentation_fallback",
		Date:     day,
		Detail:   fmt.Sprintf("segmentation retried %d times, used coarse stages", segmentRetries),
	})
	return data, issues
}

// chooseBedTime draws a bed time inside the archetype window, jittered
// around the window center. Jitter amplitude scales with (1 - consistency),
// so irregular archetypes swing across the whole window while consistent
// ones stay near its center.
func (g *SleepGenerator) chooseBedTime(profile *domain.PersonalizedProfile, day time.Time, rng *Rand) time.Time {
	earliest := float64(profile.BedWindow.EarliestBedMinutes)
	latest := float64(profile.BedWindow.LatestBedMinutes)
	center := (earliest + latest) / 2
	halfWidth := (latest - earliest) / 2

	amplitude := halfWidth * (0.25 + 0.75*(1-profile.Consistency))
	offset := rng.Float64Between(-amplitude, amplitude)

	minutes := center + offset
	if minutes < earliest {
		minutes = earliest
	}
	if minutes > latest {
		minutes = latest
	}

	// Minutes count from the previous midnight, so subtract a day first.
	return day.AddDate(0, 0, -1).Add(time.Duration(minutes) * time.Minute).Round(time.Minute)
}

func (g *SleepGenerator) chooseWakeTime(profile *domain.PersonalizedProfile, bedTime time.Time, rng *Rand) time.Time {
	duration := rng.DurationBetween(profile.MinDuration, profile.MaxDuration).Round(time.Minute)
	if duration < time.Duration(domain.MinSleepHours*float64(time.Hour)) {
		duration = time.Duration(domain.MinSleepHours * float64(time.Hour))
	}
	if duration > time.Duration(domain.MaxSleepHours*float64(time.Hour)) {
		duration = time.Duration(domain.MaxSleepHours * float64(time.Hour))
	}
	return bedTime.Add(duration)
}

// stageCycle is the block order segmentation walks through; real nights
// front-load deep sleep and back-load REM.
var stageCycle = []domain.StageType{
	domain.StageLight,
	domain.StageDeep,
	domain.StageLight,
	domain.StageREM,
	domain.StageLight,
	domain.StageREM,
}

// segmentStages tiles [bedTime, wakeTime] with 4-6 sleep blocks and up to
// two short awake fragments carved out of block interiors. Block lengths
// are weight-drawn so the tiling is exact by construction; only the
// fragment insertion can push a night outside the stage-count or
// fragment-length bounds, which Validate catches.
func (g *SleepGenerator) segmentStages(bedTime, wakeTime time.Time, rng *Rand) []domain.SleepStage {
	total := wakeTime.Sub(bedTime)
	blockCount := rng.IntBetween(4, 6)

	weights := make([]float64, blockCount)
	sum := 0.0
	for i := range weights {
		weights[i] = rng.Float64Between(0.7, 1.3)
		sum += weights[i]
	}

	stages := make([]domain.SleepStage, 0, blockCount+4)
	cursor := bedTime
	for i := 0; i < blockCount; i++ {
		end := wakeTime
		if i < blockCount-1 {
			end = cursor.Add(time.Duration(float64(total) * weights[i] / sum).Round(time.Second))
		}
		stages = append(stages, domain.SleepStage{
			Stage:     stageCycle[i%len(stageCycle)],
			StartTime: cursor,
			EndTime:   end,
		})
		cursor = end
	}

	// Nocturnal waking: short awake fragments, e.g. a phone check.
	awakeCount := rng.IntBetween(0, 2)
	for i := 0; i < awakeCount; i++ {
		stages = insertAwakeFragment(stages, rng)
	}
	return stages
}

// insertAwakeFragment splits one interior block around a short awake span.
// Blocks too small to keep splitMargin on both sides are left alone.
func insertAwakeFragment(stages []domain.SleepStage, rng *Rand) []domain.SleepStage {
	idx := rng.IntBetween(1, len(stages)-1)
	block := stages[idx]
	if block.Stage == domain.StageAwake {
		return stages
	}

	fragment := rng.DurationBetween(minAwakeFragment, maxAwakeFragment)
	slack := block.Duration() - fragment - 2*splitMargin
	if slack <= 0 {
		return stages
	}

	start := block.StartTime.Add(splitMargin + rng.DurationBetween(0, slack)).Round(time.Second)
	end := start.Add(fragment)

	out := make([]domain.SleepStage, 0, len(stages)+2)
	out = append(out, stages[:idx]...)
	out = append(out,
		domain.SleepStage{Stage: block.Stage, StartTime: block.StartTime, EndTime: start},
		domain.SleepStage{Stage: domain.StageAwake, StartTime: start, EndTime: end},
		domain.SleepStage{Stage: block.Stage, StartTime: end, EndTime: block.EndTime},
	)
	out = append(out, stages[idx+1:]...)
	return out
}

// coarseStages is the guaranteed-valid fallback: light / deep / rem at
// fixed proportions.
func coarseStages(bedTime, wakeTime time.Time) []domain.SleepStage {
	total := wakeTime.Sub(bedTime)
	firstCut := bedTime.Add(time.Duration(float64(total) * 0.4).Round(time.Second))
	secondCut := bedTime.Add(time.Duration(float64(total) * 0.7).Round(time.Second))
	return []domain.SleepStage{
		{Stage: domain.StageLight, StartTime: bedTime, EndTime: firstCut},
		{Stage: domain.StageDeep, StartTime: firstCut, EndTime: secondCut},
		{Stage: domain.StageREM, StartTime: secondCut, EndTime: wakeTime},
	}
}
