package domain

// InsightsContext is the aggregated generated data handed to the LLM.
type InsightsContext struct {
	Profile       PersonalizedProfile `json:"profile"`
	WindowDays    int                 `json:"window_days"`
	SleepDays     int                 `json:"sleep_days"`
	StepsDays     int                 `json:"steps_days"`
	AvgSleepHours float64             `json:"avg_sleep_hours"`
	MinSleepHours float64             `json:"min_sleep_hours"`
	MaxSleepHours float64             `json:"max_sleep_hours"`
	AvgDailySteps int                 `json:"avg_daily_steps"`
	MinDailySteps int                 `json:"min_daily_steps"`
	MaxDailySteps int                 `json:"max_daily_steps"`
	WeekendSteps  int                 `json:"avg_weekend_steps"`
	WeekdaySteps  int                 `json:"avg_weekday_steps"`
}

// LLMInsightsOutput is the structured commentary returned by the LLM.
// @Description Realism assessment of a generated window.
type LLMInsightsOutput struct {
	// Short overall assessment of the generated data
	Summary string `json:"summary"`
	// Observed patterns in the generated series
	Observations []string `json:"observations"`
	// Suggested tuning of baselines or archetypes
	Suggestions []string `json:"suggestions"`
}

// InsightsResponse is the response body for the insights endpoint.
// @Description Generated-data realism insights.
type InsightsResponse struct {
	Profile  PersonalizedProfile `json:"profile"`
	Context  InsightsContext     `json:"context"`
	Insights LLMInsightsOutput   `json:"insights"`
}
