package service

import (
	"context"
	"errors"
	"testing"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/sim"
	"github.com/google/uuid"
)

func TestVirtualUserServiceCreate(t *testing.T) {
	repo := NewMockVirtualUserRepository()
	svc := NewVirtualUserService(repo, sim.NewClassifier())

	req := &domain.CreateVirtualUserRequest{
		Age:           34,
		Gender:        domain.GenderFemale,
		HeightCM:      168,
		WeightKG:      62,
		SleepBaseline: 7.5,
		StepsBaseline: 9000,
		DeviceModel:   "watch-se",
		Wearable:      true,
		Timezone:      strPtr("Europe/Warsaw"),
	}

	user, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("expected generated ID")
	}
	if user.SleepBaseline != 7.5 || user.StepsBaseline != 9000 {
		t.Errorf("baselines changed: %.1f / %d", user.SleepBaseline, user.StepsBaseline)
	}

	stored, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Timezone != "Europe/Warsaw" {
		t.Errorf("timezone = %q", stored.Timezone)
	}
}

func TestVirtualUserServiceCreateRandomizesZeroBaselines(t *testing.T) {
	repo := NewMockVirtualUserRepository()
	svc := NewVirtualUserService(repo, sim.NewClassifier())

	user, err := svc.Create(context.Background(), &domain.CreateVirtualUserRequest{
		Age:    28,
		Gender: domain.GenderMale,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if user.SleepBaseline < randomSleepBaselineMin || user.SleepBaseline > randomSleepBaselineMax {
		t.Errorf("sleep baseline %.2f outside randomization band", user.SleepBaseline)
	}
	if user.StepsBaseline < randomStepsBaselineMin || user.StepsBaseline > randomStepsBaselineMax {
		t.Errorf("steps baseline %d outside randomization band", user.StepsBaseline)
	}
	if user.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC default", user.Timezone)
	}
}

func TestVirtualUserServiceGetProfile(t *testing.T) {
	repo := NewMockVirtualUserRepository()
	svc := NewVirtualUserService(repo, sim.NewClassifier())

	user, err := svc.Create(context.Background(), &domain.CreateVirtualUserRequest{
		Age:           40,
		Gender:        domain.GenderMale,
		SleepBaseline: 9.0,
		StepsBaseline: 16000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if profile.SleepType != domain.ChronotypeNightOwl {
		t.Errorf("sleep type = %s, want %s", profile.SleepType, domain.ChronotypeNightOwl)
	}
	if profile.ActivityLevel != domain.ActivityVeryHigh {
		t.Errorf("activity level = %s, want %s", profile.ActivityLevel, domain.ActivityVeryHigh)
	}
}

func TestVirtualUserServiceGetProfileNotFound(t *testing.T) {
	svc := NewVirtualUserService(NewMockVirtualUserRepository(), sim.NewClassifier())

	_, err := svc.GetProfile(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestVirtualUserServiceList(t *testing.T) {
	repo := NewMockVirtualUserRepository()
	svc := NewVirtualUserService(repo, sim.NewClassifier())

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), &domain.CreateVirtualUserRequest{
			Age:           30 + i,
			Gender:        domain.GenderOther,
			SleepBaseline: 7.0,
			StepsBaseline: 6000,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	resp, err := svc.List(context.Background(), domain.VirtualUserFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(resp.Data) != 3 {
		t.Errorf("got %d users, want 3", len(resp.Data))
	}
	if resp.Pagination.HasMore {
		t.Error("unexpected has_more")
	}
}

func TestVirtualUserServiceListPagination(t *testing.T) {
	repo := NewMockVirtualUserRepository()
	svc := NewVirtualUserService(repo, sim.NewClassifier())

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(context.Background(), &domain.CreateVirtualUserRequest{
			Age:           25,
			Gender:        domain.GenderFemale,
			SleepBaseline: 7.0,
			StepsBaseline: 6000,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	resp, err := svc.List(context.Background(), domain.VirtualUserFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("got %d users, want 2", len(resp.Data))
	}
	if !resp.Pagination.HasMore {
		t.Error("expected has_more")
	}
	if resp.Pagination.NextCursor == "" {
		t.Error("expected next cursor")
	}
}

func TestVirtualUserServiceDelete(t *testing.T) {
	repo := NewMockVirtualUserRepository()
	svc := NewVirtualUserService(repo, sim.NewClassifier())

	user, err := svc.Create(context.Background(), &domain.CreateVirtualUserRequest{
		Age:           30,
		Gender:        domain.GenderMale,
		SleepBaseline: 7.0,
		StepsBaseline: 6000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(context.Background(), user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}
