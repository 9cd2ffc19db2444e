package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// StageType is the kind of a single sleep stage.
// @Description Sleep stage: deep, light, rem, or awake.
type StageType string

const (
	StageDeep  StageType = "deep"
	StageLight StageType = "light"
	StageREM   StageType = "rem"
	StageAwake StageType = "awake"
)

const (
	// MinSleepHours and MaxSleepHours bound a night's total duration.
	MinSleepHours = 4.0
	MaxSleepHours = 12.0

	// MaxSleepStages caps segmentation so a night never fragments
	// into pathological micro-stages.
	MaxSleepStages = 10

	// MinStageDuration rejects sub-minute stage fragments.
	MinStageDuration = time.Minute
)

// SleepStage is one contiguous span of a single stage type.
type SleepStage struct {
	Stage     StageType `json:"stage"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns the stage length.
func (s SleepStage) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// SleepData is one night's generated sleep session.
// Stages are chronologically sorted, non-overlapping, and exactly tile
// [BedTime, WakeTime]. Values are immutable after construction; repairs
// regenerate, they never patch in place.
type SleepData struct {
	Date     time.Time    `json:"date"`
	BedTime  time.Time    `json:"bed_time"`
	WakeTime time.Time    `json:"wake_time"`
	Stages   []SleepStage `json:"stages"`
}

// TotalSleepHours is the session length in hours, awake fragments included.
func (s *SleepData) TotalSleepHours() float64 {
	return s.WakeTime.Sub(s.BedTime).Hours()
}

// AwakeCount returns the number of awake fragments in the session.
func (s *SleepData) AwakeCount() int {
	n := 0
	for _, st := range s.Stages {
		if st.Stage == StageAwake {
			n++
		}
	}
	return n
}

// Covers reports whether t falls inside the sleep window.
func (s *SleepData) Covers(t time.Time) bool {
	return !t.Before(s.BedTime) && t.Before(s.WakeTime)
}

// Validate checks every structural invariant of a sleep session:
// total duration bounds, stage ordering, overlap, tiling, fragment
// length, and stage count.
func (s *SleepData) Validate() error {
	hours := s.TotalSleepHours()
	if hours < MinSleepHours || hours > MaxSleepHours {
		return fmt.Errorf("%w: total sleep %.2fh outside [%g, %g]", ErrInvalidInput, hours, MinSleepHours, MaxSleepHours)
	}
	if len(s.Stages) == 0 {
		return fmt.Errorf("%w: session has no stages", ErrInvalidInput)
	}
	if len(s.Stages) > MaxSleepStages {
		return fmt.Errorf("%w: %d stages exceeds maximum %d", ErrInvalidInput, len(s.Stages), MaxSleepStages)
	}
	if !sort.SliceIsSorted(s.Stages, func(i, j int) bool {
		return s.Stages[i].StartTime.Before(s.Stages[j].StartTime)
	}) {
		return fmt.Errorf("%w: stages are not chronologically sorted", ErrInvalidInput)
	}
	if !s.Stages[0].StartTime.Equal(s.BedTime) {
		return fmt.Errorf("%w: first stage does not start at bed time", ErrInvalidInput)
	}
	if !s.Stages[len(s.Stages)-1].EndTime.Equal(s.WakeTime) {
		return fmt.Errorf("%w: last stage does not end at wake time", ErrInvalidInput)
	}
	for i, st := range s.Stages {
		if st.Duration() < MinStageDuration {
			return fmt.Errorf("%w: stage %d shorter than %s", ErrInvalidInput, i, MinStageDuration)
		}
		if i > 0 && !st.StartTime.Equal(s.Stages[i-1].EndTime) {
			return fmt.Errorf("%w: gap or overlap between stages %d and %d", ErrInvalidInput, i-1, i)
		}
	}
	return nil
}

// StageList is a JSON-encoded stage slice for database storage.
type StageList []SleepStage

func (l StageList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StageList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported stage list type %T", value)
	}
}

// SleepRecord is the persisted snapshot of one generated night.
// Regeneration for the same (user, date) replaces the row.
type SleepRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sleep_user_date" json:"user_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_sleep_user_date" json:"date"`
	BedTime   time.Time `gorm:"not null" json:"bed_time"`
	WakeTime  time.Time `gorm:"not null" json:"wake_time"`
	Stages    StageList `gorm:"type:jsonb;not null" json:"stages"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User VirtualUser `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SleepRecord) TableName() string {
	return "sleep_records"
}

// ToData converts a persisted row back into the engine's value type.
func (r *SleepRecord) ToData() SleepData {
	return SleepData{
		Date:     r.Date,
		BedTime:  r.BedTime,
		WakeTime: r.WakeTime,
		Stages:   r.Stages,
	}
}

// NewSleepRecord snapshots a generated session for persistence.
func NewSleepRecord(userID uuid.UUID, data SleepData) *SleepRecord {
	return &SleepRecord{
		UserID:   userID,
		Date:     data.Date,
		BedTime:  data.BedTime,
		WakeTime: data.WakeTime,
		Stages:   StageList(data.Stages),
	}
}
