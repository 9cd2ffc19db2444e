package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityType tags a step increment with the movement that produced it.
// @Description Movement kind: walking, running, stairs, or idle.
type ActivityType string

const (
	ActivityWalking ActivityType = "walking"
	ActivityRunning ActivityType = "running"
	ActivityStairs  ActivityType = "stairs"
	ActivityIdle    ActivityType = "idle"
)

const (
	// MinDailySteps and MaxDailySteps are the hard platform bounds a
	// day's total must land in, whatever the intermediate multipliers did.
	MinDailySteps = 800
	MaxDailySteps = 25000
)

// StepIncrement is the atomic unit of emitted step data. Downstream
// writers batch these; the engine only guarantees ordering and bounds.
type StepIncrement struct {
	Timestamp    time.Time    `json:"timestamp"`
	Steps        int          `json:"steps"`
	ActivityType ActivityType `json:"activity_type"`
}

// HourlySteps is one hour's bucketed step count.
type HourlySteps struct {
	Hour  int       `json:"hour"`
	Steps int       `json:"steps"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StepsData is one day's generated step series.
type StepsData struct {
	Date   time.Time     `json:"date"`
	Hourly []HourlySteps `json:"hourly"`
}

// TotalSteps sums the hourly buckets.
func (s *StepsData) TotalSteps() int {
	total := 0
	for _, h := range s.Hourly {
		total += h.Steps
	}
	return total
}

// Validate checks the platform bounds and hour indices.
func (s *StepsData) Validate() error {
	total := s.TotalSteps()
	if total < MinDailySteps || total > MaxDailySteps {
		return fmt.Errorf("%w: total steps %d outside [%d, %d]", ErrInvalidInput, total, MinDailySteps, MaxDailySteps)
	}
	for _, h := range s.Hourly {
		if h.Hour < 0 || h.Hour > 23 {
			return fmt.Errorf("%w: hour %d out of range", ErrInvalidInput, h.Hour)
		}
		if h.Steps < 0 {
			return fmt.Errorf("%w: negative steps in hour %d", ErrInvalidInput, h.Hour)
		}
	}
	return nil
}

// DailyStepDistribution is the full composed day: hourly buckets plus the
// ordered increments they were flattened from. TotalSteps always equals
// the sum of Increments.
type DailyStepDistribution struct {
	Date       time.Time       `json:"date"`
	TotalSteps int             `json:"total_steps"`
	Hourly     []HourlySteps   `json:"hourly"`
	Increments []StepIncrement `json:"increments"`
}

// ToStepsData drops the increment detail for callers that only need buckets.
func (d *DailyStepDistribution) ToStepsData() StepsData {
	return StepsData{Date: d.Date, Hourly: d.Hourly}
}

// HourlyList is a JSON-encoded hourly slice for database storage.
type HourlyList []HourlySteps

func (l HourlyList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *HourlyList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported hourly list type %T", value)
	}
}

// IncrementList is a JSON-encoded increment slice for database storage.
type IncrementList []StepIncrement

func (l IncrementList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *IncrementList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported increment list type %T", value)
	}
}

// StepsRecord is the persisted snapshot of one generated day of activity.
// Regeneration for the same (user, date) replaces the row.
type StepsRecord struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_steps_user_date" json:"user_id"`
	Date       time.Time     `gorm:"type:date;not null;uniqueIndex:idx_steps_user_date" json:"date"`
	TotalSteps int           `gorm:"not null" json:"total_steps"`
	Hourly     HourlyList    `gorm:"type:jsonb;not null" json:"hourly"`
	Increments IncrementList `gorm:"type:jsonb;not null" json:"increments"`
	CreatedAt  time.Time     `gorm:"autoCreateTime" json:"created_at"`

	User VirtualUser `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (StepsRecord) TableName() string {
	return "steps_records"
}

// NewStepsRecord snapshots a composed day for persistence.
func NewStepsRecord(userID uuid.UUID, dist DailyStepDistribution) *StepsRecord {
	return &StepsRecord{
		UserID:     userID,
		Date:       dist.Date,
		TotalSteps: dist.TotalSteps,
		Hourly:     HourlyList(dist.Hourly),
		Increments: IncrementList(dist.Increments),
	}
}
