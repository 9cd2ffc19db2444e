package seed

import (
	"context"
	"fmt"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/repository"
	"github.com/blaisecz/health-simulator/internal/sim"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const seededDays = 30

// Fixture users span the archetype spectrum so a freshly seeded database
// exercises every generation branch. IDs are fixed, so reseeding is a
// no-op for the user rows and a deterministic refresh for the series.
var fixtureUsers = []domain.VirtualUser{
	{
		ID:            uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Age:           29,
		Gender:        domain.GenderFemale,
		HeightCM:      165,
		WeightKG:      58,
		SleepBaseline: 6.2,
		StepsBaseline: 12000,
		DeviceModel:   "Pixel Watch 2",
		Wearable:      true,
		Timezone:      "Europe/Amsterdam",
	},
	{
		ID:            uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Age:           41,
		Gender:        domain.GenderMale,
		HeightCM:      182,
		WeightKG:      88,
		SleepBaseline: 7.4,
		StepsBaseline: 7000,
		DeviceModel:   "Galaxy Fit 3",
		Wearable:      true,
		Timezone:      "America/New_York",
	},
	{
		ID:            uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		Age:           23,
		Gender:        domain.GenderOther,
		HeightCM:      174,
		WeightKG:      70,
		SleepBaseline: 8.9,
		StepsBaseline: 16500,
		DeviceModel:   "Apple Watch SE",
		Wearable:      true,
		Timezone:      "Asia/Tokyo",
	},
	{
		ID:            uuid.MustParse("44444444-4444-4444-4444-444444444444"),
		Age:           67,
		Gender:        domain.GenderFemale,
		HeightCM:      158,
		WeightKG:      64,
		SleepBaseline: 7.8,
		StepsBaseline: 3500,
		DeviceModel:   "",
		Wearable:      false,
		Timezone:      "Australia/Sydney",
	},
}

// Run seeds the database with fixture users and a generated history for
// each. Safe to call multiple times.
func Run(ctx context.Context, db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.VirtualUser{}, &domain.SleepRecord{}, &domain.StepsRecord{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	for _, user := range fixtureUsers {
		if err := db.Where("id = ?", user.ID).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.ID, err)
		}
	}

	orchestrator := sim.NewOrchestrator()
	healthRepo := repository.NewHealthDataRepository(db)

	for i := range fixtureUsers {
		user := &fixtureUsers[i]
		mode := domain.DataModeSimple
		if user.Wearable {
			mode = domain.DataModeWearable
		}

		result, err := orchestrator.GenerateRange(ctx, user, seededDays, sim.BoundaryYesterday, mode)
		if err != nil {
			return fmt.Errorf("failed to generate history for %s: %w", user.ID, err)
		}

		sleepRecords := make([]*domain.SleepRecord, len(result.Sleep))
		for j, data := range result.Sleep {
			sleepRecords[j] = domain.NewSleepRecord(user.ID, data)
		}
		stepsRecords := make([]*domain.StepsRecord, len(result.Steps))
		for j, dist := range result.Steps {
			stepsRecords[j] = domain.NewStepsRecord(user.ID, dist)
		}

		if err := healthRepo.UpsertSleep(ctx, sleepRecords); err != nil {
			return fmt.Errorf("failed to store sleep for %s: %w", user.ID, err)
		}
		if err := healthRepo.UpsertSteps(ctx, stepsRecords); err != nil {
			return fmt.Errorf("failed to store steps for %s: %w", user.ID, err)
		}
	}

	return nil
}
