package domain

import "time"

// SleepChronotype classifies a user's sleep-timing tendency.
// @Description Sleep archetype derived from the sleep baseline.
type SleepChronotype string

const (
	ChronotypeNightOwl  SleepChronotype = "night_owl"
	ChronotypeEarlyBird SleepChronotype = "early_bird"
	ChronotypeIrregular SleepChronotype = "irregular"
	ChronotypeNormal    SleepChronotype = "normal"
)

// ActivityLevel classifies a user's daily step volume.
// @Description Activity archetype derived from the steps baseline.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityMedium   ActivityLevel = "medium"
	ActivityHigh     ActivityLevel = "high"
	ActivityVeryHigh ActivityLevel = "very_high"
)

// ActivityPattern describes how a user's steps spread across the day.
type ActivityPattern struct {
	// Relative weights for morning / midday / evening activity, summing to 1.
	MorningWeight float64 `json:"morning_weight"`
	MiddayWeight  float64 `json:"midday_weight"`
	EveningWeight float64 `json:"evening_weight"`
	// WeekendMultiplier scales the step target on Saturdays and Sundays.
	WeekendMultiplier float64 `json:"weekend_multiplier"`
}

// SleepWindow is the preferred bedtime window, in minutes after midnight.
// Values past 1440 wrap into the next calendar day, so a window of
// [1470, 1560] means 00:30-02:00.
type SleepWindow struct {
	EarliestBedMinutes int `json:"earliest_bed_minutes"`
	LatestBedMinutes   int `json:"latest_bed_minutes"`
}

// PersonalizedProfile is the full archetype parameter set for one user.
// Derived deterministically from the user's baselines; never persisted.
// @Description Archetype classification with generation parameters.
type PersonalizedProfile struct {
	SleepType     SleepChronotype `json:"sleep_type"`
	ActivityLevel ActivityLevel   `json:"activity_level"`
	Pattern       ActivityPattern `json:"pattern"`

	// Sleep generation parameters.
	BedWindow   SleepWindow   `json:"bed_window"`
	MinDuration time.Duration `json:"min_duration" swaggertype:"integer"`
	MaxDuration time.Duration `json:"max_duration" swaggertype:"integer"`
	// Consistency in [0,1]; lower values widen bed/wake jitter.
	Consistency float64 `json:"consistency"`

	// Activity generation parameters.
	MinSteps int `json:"min_steps"`
	MaxSteps int `json:"max_steps"`
	// Intensity scales the drawn step target.
	Intensity float64 `json:"intensity"`
}
