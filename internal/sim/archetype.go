package sim

import (
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/blaisecz/health-simulator/internal/domain"
)

const (
	// Sleep-baseline thresholds (hours).
	nightOwlSleepThreshold  = 8.5
	earlyBirdSleepThreshold = 6.5

	// Steps-baseline thresholds.
	veryHighStepsThreshold = 15000
	highStepsThreshold     = 10000
	mediumStepsThreshold   = 5000

	profileCacheSize = 512
)

// sleepArchetype holds the per-chronotype sleep generation parameters.
// Bed windows are minutes after midnight; values past 1440 wrap into the
// next calendar day.
type sleepArchetype struct {
	window      domain.SleepWindow
	minDuration time.Duration
	maxDuration time.Duration
	consistency float64
}

var sleepArchetypes = map[domain.SleepChronotype]sleepArchetype{
	domain.ChronotypeEarlyBird: {
		window:      domain.SleepWindow{EarliestBedMinutes: 1290, LatestBedMinutes: 1350}, // 21:30-22:30
		minDuration: 6 * time.Hour,
		maxDuration: 7 * time.Hour,
		consistency: 0.85,
	},
	domain.ChronotypeNormal: {
		window:      domain.SleepWindow{EarliestBedMinutes: 1350, LatestBedMinutes: 1425}, // 22:30-23:45
		minDuration: 6*time.Hour + 30*time.Minute,
		maxDuration: 8*time.Hour + 30*time.Minute,
		consistency: 0.75,
	},
	domain.ChronotypeNightOwl: {
		window:      domain.SleepWindow{EarliestBedMinutes: 1470, LatestBedMinutes: 1560}, // 00:30-02:00
		minDuration: 7*time.Hour + 30*time.Minute,
		maxDuration: 9*time.Hour + 30*time.Minute,
		consistency: 0.6,
	},
	domain.ChronotypeIrregular: {
		window:      domain.SleepWindow{EarliestBedMinutes: 1320, LatestBedMinutes: 1590}, // 22:00-02:30
		minDuration: 5 * time.Hour,
		maxDuration: 9*time.Hour + 30*time.Minute,
		consistency: 0.3,
	},
}

// activityArchetype holds the per-level activity generation parameters.
type activityArchetype struct {
	minSteps          int
	maxSteps          int
	intensity         float64
	weekendMultiplier float64
}

var activityArchetypes = map[domain.ActivityLevel]activityArchetype{
	domain.ActivityLow:      {minSteps: 2000, maxSteps: 5000, intensity: 0.85, weekendMultiplier: 1.1},
	domain.ActivityMedium:   {minSteps: 5000, maxSteps: 9500, intensity: 1.0, weekendMultiplier: 1.05},
	domain.ActivityHigh:     {minSteps: 9500, maxSteps: 15000, intensity: 1.1, weekendMultiplier: 0.95},
	domain.ActivityVeryHigh: {minSteps: 14000, maxSteps: 22000, intensity: 1.25, weekendMultiplier: 0.9},
}

var patternWeights = map[domain.SleepChronotype][3]float64{
	domain.ChronotypeEarlyBird: {0.45, 0.30, 0.25},
	domain.ChronotypeNormal:    {0.30, 0.35, 0.35},
	domain.ChronotypeNightOwl:  {0.15, 0.30, 0.55},
	domain.ChronotypeIrregular: {0.30, 0.30, 0.40},
}

// Classifier maps a user's numeric baselines onto a full archetype
// parameter set. Classification is a pure function of the user; the LRU
// cache is an optimization only and is safe for concurrent use.
type Classifier struct {
	cache *lru.Cache[uuid.UUID, *domain.PersonalizedProfile]
}

// NewClassifier creates a Classifier with a process-lifetime profile cache.
func NewClassifier() *Classifier {
	cache, _ := lru.New[uuid.UUID, *domain.PersonalizedProfile](profileCacheSize)
	return &Classifier{cache: cache}
}

// Classify derives the user's profile from the baseline thresholds.
func (c *Classifier) Classify(user *domain.VirtualUser) (*domain.PersonalizedProfile, error) {
	if user == nil {
		return nil, domain.ErrMissingUser
	}
	if c.cache != nil {
		if p, ok := c.cache.Get(user.ID); ok {
			return p, nil
		}
	}
	p := buildProfile(user, SleepTypeFor(user.SleepBaseline))
	if c.cache != nil {
		c.cache.Add(user.ID, p)
	}
	return p, nil
}

// ClassifyAs builds a profile with an explicitly assigned chronotype,
// bypassing the baseline threshold. This is how the irregular archetype
// is produced: it models high day-to-day variance, not a baseline band.
// Overridden profiles are never cached.
func (c *Classifier) ClassifyAs(user *domain.VirtualUser, chronotype domain.SleepChronotype) (*domain.PersonalizedProfile, error) {
	if user == nil {
		return nil, domain.ErrMissingUser
	}
	if _, ok := sleepArchetypes[chronotype]; !ok {
		return nil, domain.ErrInvalidInput
	}
	return buildProfile(user, chronotype), nil
}

// SleepTypeFor applies the sleep-baseline thresholds.
func SleepTypeFor(sleepBaseline float64) domain.SleepChronotype {
	switch {
	case sleepBaseline >= nightOwlSleepThreshold:
		return domain.ChronotypeNightOwl
	case sleepBaseline <= earlyBirdSleepThreshold:
		return domain.ChronotypeEarlyBird
	default:
		return domain.ChronotypeNormal
	}
}

// ActivityLevelFor applies the steps-baseline thresholds.
func ActivityLevelFor(stepsBaseline int) domain.ActivityLevel {
	switch {
	case stepsBaseline >= veryHighStepsThreshold:
		return domain.ActivityVeryHigh
	case stepsBaseline >= highStepsThreshold:
		return domain.ActivityHigh
	case stepsBaseline >= mediumStepsThreshold:
		return domain.ActivityMedium
	default:
		return domain.ActivityLow
	}
}

func buildProfile(user *domain.VirtualUser, chronotype domain.SleepChronotype) *domain.PersonalizedProfile {
	level := ActivityLevelFor(user.StepsBaseline)
	sa := sleepArchetypes[chronotype]
	aa := activityArchetypes[level]
	w := patternWeights[chronotype]

	// Personalize the archetype bands around the user's own baselines:
	// a 1h corridor around the sleep baseline and a +/-25% corridor
	// around the steps baseline, both intersected with the archetype band.
	minDur, maxDur := personalDurationRange(user.SleepBaseline, sa)
	minSteps, maxSteps := personalStepRange(user.StepsBaseline, aa)

	return &domain.PersonalizedProfile{
		SleepType:     chronotype,
		ActivityLevel: level,
		Pattern: domain.ActivityPattern{
			MorningWeight:     w[0],
			MiddayWeight:      w[1],
			EveningWeight:     w[2],
			WeekendMultiplier: aa.weekendMultiplier,
		},
		BedWindow:   sa.window,
		MinDuration: minDur,
		MaxDuration: maxDur,
		Consistency: sa.consistency,
		MinSteps:    minSteps,
		MaxSteps:    maxSteps,
		Intensity:   aa.intensity,
	}
}

func personalDurationRange(baselineHours float64, sa sleepArchetype) (time.Duration, time.Duration) {
	if baselineHours <= 0 {
		return sa.minDuration, sa.maxDuration
	}
	base := time.Duration(baselineHours * float64(time.Hour))
	lo := base - time.Hour
	hi := base + time.Hour
	if lo < sa.minDuration {
		lo = sa.minDuration
	}
	if hi > sa.maxDuration {
		hi = sa.maxDuration
	}
	if hi <= lo {
		return sa.minDuration, sa.maxDuration
	}
	return lo, hi
}

func personalStepRange(baseline int, aa activityArchetype) (int, int) {
	if baseline <= 0 {
		return aa.minSteps, aa.maxSteps
	}
	lo := baseline - baseline/4
	hi := baseline + baseline/4
	if lo < aa.minSteps {
		lo = aa.minSteps
	}
	if hi > aa.maxSteps {
		hi = aa.maxSteps
	}
	if hi <= lo {
		return aa.minSteps, aa.maxSteps
	}
	return lo, hi
}
