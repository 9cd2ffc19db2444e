package domain

import "time"

// GenerateRequest is the request body for running the generator over a
// historical range for one user.
// @Description Parameters for historical data generation.
type GenerateRequest struct {
	// Number of contiguous days to generate
	Days int `json:"days" validate:"required,min=1,max=365" example:"30"`
	// Range boundary: yesterday (sleep + steps) or today (final day steps-only)
	Boundary string `json:"boundary" validate:"required,oneof=yesterday today" example:"yesterday"`
	// Data mode: simple or wearable (empty = derived from the user's device)
	Mode DataMode `json:"mode,omitempty" validate:"omitempty,oneof=simple wearable" example:"wearable"`
	// Optional chronotype override (e.g. irregular); empty = classify from baseline
	Chronotype SleepChronotype `json:"chronotype,omitempty" validate:"omitempty,oneof=night_owl early_bird irregular normal" example:"irregular"`
}

// GenerateResponse summarizes a completed generation run.
// @Description Result summary for a generation run.
type GenerateResponse struct {
	UserID     string    `json:"user_id"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	SleepDays  int       `json:"sleep_days"`
	StepsDays  int       `json:"steps_days"`
	TotalSteps int       `json:"total_steps"`
	// Average nightly sleep across the range, in hours
	AvgSleepHours float64 `json:"avg_sleep_hours"`
	// Average daily steps across the range
	AvgDailySteps int `json:"avg_daily_steps"`
	// Non-fatal diagnostics collected during generation
	Issues []Issue `json:"issues,omitempty"`
}

// SleepSeriesResponse lists persisted sleep snapshots for a date range.
// @Description Generated sleep sessions in a date range.
type SleepSeriesResponse struct {
	Data []SleepRecord `json:"data"`
}

// StepsSeriesResponse lists persisted step snapshots for a date range.
// @Description Generated step days in a date range.
type StepsSeriesResponse struct {
	Data []StepsRecord `json:"data"`
}

// IncrementsResponse is the flattened replay stream for one day, for
// injectors that feed a health store gradually instead of in one bulk
// write.
// @Description Ordered step increments for one day.
type IncrementsResponse struct {
	UserID     string          `json:"user_id"`
	Date       time.Time       `json:"date"`
	TotalSteps int             `json:"total_steps"`
	Increments []StepIncrement `json:"increments"`
}
