package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blaisecz/health-simulator/internal/domain"
)

// HealthDataRepository persists generated series snapshots. Rows are
// keyed by (user, date): regeneration replaces a day whole, matching the
// engine's regenerate-never-patch discipline.
type HealthDataRepository interface {
	UpsertSleep(ctx context.Context, records []*domain.SleepRecord) error
	UpsertSteps(ctx context.Context, records []*domain.StepsRecord) error
	ListSleepByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.SleepRecord, error)
	ListStepsByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.StepsRecord, error)
	GetStepsByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.StepsRecord, error)
}

type healthDataRepository struct {
	db *gorm.DB
}

func NewHealthDataRepository(db *gorm.DB) HealthDataRepository {
	return &healthDataRepository{db: db}
}

var userDateConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
	UpdateAll: true,
}

func (r *healthDataRepository) UpsertSleep(ctx context.Context, records []*domain.SleepRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(userDateConflict).Create(records).Error
}

func (r *healthDataRepository) UpsertSteps(ctx context.Context, records []*domain.StepsRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(userDateConflict).Create(records).Error
}

func (r *healthDataRepository) ListSleepByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.SleepRecord, error) {
	var records []domain.SleepRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *healthDataRepository) ListStepsByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.StepsRecord, error) {
	var records []domain.StepsRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *healthDataRepository) GetStepsByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.StepsRecord, error) {
	var record domain.StepsRecord
	err := r.db.WithContext(ctx).
		First(&record, "user_id = ? AND date = ?", userID, date).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}
