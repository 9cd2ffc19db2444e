package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the synthetic user's reported gender.
// @Description Gender of the virtual user: male, female, or other.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// DataMode controls how much device detail the generators model.
// @Description simple emits coarse sleep spans, wearable emits full stage granularity.
type DataMode string

const (
	// DataModeSimple collapses each night into a single sleep span.
	DataModeSimple DataMode = "simple"
	// DataModeWearable models per-stage granularity as a wearable would record it.
	DataModeWearable DataMode = "wearable"
)

// VirtualUser is a synthetic person whose biometric baselines drive generation.
// The engine only reads it; it is immutable once created.
type VirtualUser struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Age           int       `gorm:"type:smallint;not null" json:"age"`
	Gender        Gender    `gorm:"type:varchar(10);not null" json:"gender"`
	HeightCM      float64   `gorm:"not null" json:"height_cm"`
	WeightKG      float64   `gorm:"not null" json:"weight_kg"`
	SleepBaseline float64   `gorm:"not null" json:"sleep_baseline"`
	StepsBaseline int       `gorm:"not null" json:"steps_baseline"`
	DeviceModel   string    `gorm:"type:varchar(64);not null;default:''" json:"device_model"`
	Wearable      bool      `gorm:"not null;default:false" json:"wearable"`
	Timezone      string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (VirtualUser) TableName() string {
	return "virtual_users"
}

// CreateVirtualUserRequest is the request body for creating a virtual user.
// Baselines left at zero are randomized from the user's identity so repeated
// creations with the same explicit fields stay reproducible.
// @Description Request payload for creating a virtual user.
type CreateVirtualUserRequest struct {
	// Age in years
	Age int `json:"age" validate:"required,min=16,max=100" example:"34"`
	// Gender: male, female, or other
	Gender Gender `json:"gender" validate:"required,oneof=male female other" example:"female"`
	// Height in centimeters
	HeightCM float64 `json:"height_cm" validate:"required,min=120,max=230" example:"172"`
	// Weight in kilograms
	WeightKG float64 `json:"weight_kg" validate:"required,min=35,max=250" example:"64.5"`
	// Long-run average nightly sleep in hours (0 = randomize)
	SleepBaseline float64 `json:"sleep_baseline" validate:"omitempty,min=4,max=12" example:"7.5"`
	// Long-run average daily step count (0 = randomize)
	StepsBaseline int `json:"steps_baseline" validate:"omitempty,min=800,max=25000" example:"8200"`
	// Simulated device model name
	DeviceModel string `json:"device_model" validate:"omitempty,max=64" example:"Pixel Watch 2"`
	// True if the device is a wearable (enables stage granularity)
	Wearable bool `json:"wearable" example:"true"`
	// Optional IANA timezone (defaults to UTC)
	Timezone *string `json:"timezone,omitempty" validate:"omitempty,timezone" example:"Europe/Prague"`
}

// VirtualUserResponse is the response body for virtual user endpoints.
// @Description Virtual user record.
type VirtualUserResponse struct {
	ID            uuid.UUID `json:"id"`
	Age           int       `json:"age"`
	Gender        Gender    `json:"gender"`
	HeightCM      float64   `json:"height_cm"`
	WeightKG      float64   `json:"weight_kg"`
	SleepBaseline float64   `json:"sleep_baseline"`
	StepsBaseline int       `json:"steps_baseline"`
	DeviceModel   string    `json:"device_model"`
	Wearable      bool      `json:"wearable"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *VirtualUser) ToResponse() VirtualUserResponse {
	return VirtualUserResponse{
		ID:            u.ID,
		Age:           u.Age,
		Gender:        u.Gender,
		HeightCM:      u.HeightCM,
		WeightKG:      u.WeightKG,
		SleepBaseline: u.SleepBaseline,
		StepsBaseline: u.StepsBaseline,
		DeviceModel:   u.DeviceModel,
		Wearable:      u.Wearable,
		Timezone:      u.Timezone,
		CreatedAt:     u.CreatedAt,
	}
}

// VirtualUserListResponse is the response body for listing virtual users.
// @Description Paginated list of virtual users.
type VirtualUserListResponse struct {
	Data       []VirtualUserResponse `json:"data"`
	Pagination PaginationResponse    `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more"`
}

// VirtualUserFilter contains filter parameters for listing virtual users.
type VirtualUserFilter struct {
	Limit  int
	Cursor string
}
