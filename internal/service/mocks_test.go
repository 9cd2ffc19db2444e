package service

import (
	"context"
	"sort"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
	"github.com/blaisecz/health-simulator/internal/llm"
	"github.com/blaisecz/health-simulator/internal/sim"
	"github.com/google/uuid"
)

// MockVirtualUserRepository is a mock implementation of VirtualUserRepository
type MockVirtualUserRepository struct {
	users map[uuid.UUID]*domain.VirtualUser
	err   error
}

func NewMockVirtualUserRepository() *MockVirtualUserRepository {
	return &MockVirtualUserRepository{
		users: make(map[uuid.UUID]*domain.VirtualUser),
	}
}

func (m *MockVirtualUserRepository) Create(ctx context.Context, user *domain.VirtualUser) error {
	if m.err != nil {
		return m.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *MockVirtualUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VirtualUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *MockVirtualUserRepository) List(ctx context.Context, filter domain.VirtualUserFilter) ([]domain.VirtualUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.VirtualUser
	for _, user := range m.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() > result[j].ID.String()
	})
	return result, nil
}

func (m *MockVirtualUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.users[id]
	return ok, nil
}

func (m *MockVirtualUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockVirtualUserRepository) SetError(err error) {
	m.err = err
}

// MockHealthDataRepository is a mock implementation of HealthDataRepository
type MockHealthDataRepository struct {
	sleep map[string]*domain.SleepRecord
	steps map[string]*domain.StepsRecord
	err   error
}

func NewMockHealthDataRepository() *MockHealthDataRepository {
	return &MockHealthDataRepository{
		sleep: make(map[string]*domain.SleepRecord),
		steps: make(map[string]*domain.StepsRecord),
	}
}

func dayKey(userID uuid.UUID, date time.Time) string {
	return userID.String() + ":" + date.Format("2006-01-02")
}

func (m *MockHealthDataRepository) UpsertSleep(ctx context.Context, records []*domain.SleepRecord) error {
	if m.err != nil {
		return m.err
	}
	for _, r := range records {
		m.sleep[dayKey(r.UserID, r.Date)] = r
	}
	return nil
}

func (m *MockHealthDataRepository) UpsertSteps(ctx context.Context, records []*domain.StepsRecord) error {
	if m.err != nil {
		return m.err
	}
	for _, r := range records {
		m.steps[dayKey(r.UserID, r.Date)] = r
	}
	return nil
}

func (m *MockHealthDataRepository) ListSleepByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.SleepRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.SleepRecord
	for _, r := range m.sleep {
		if r.UserID == userID && !r.Date.Before(from) && !r.Date.After(to) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *MockHealthDataRepository) ListStepsByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.StepsRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.StepsRecord
	for _, r := range m.steps {
		if r.UserID == userID && !r.Date.Before(from) && !r.Date.After(to) {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *MockHealthDataRepository) GetStepsByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.StepsRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.steps[dayKey(userID, date)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *MockHealthDataRepository) SetError(err error) {
	m.err = err
}

// MockHistoryGenerator records calls and returns a canned result.
type MockHistoryGenerator struct {
	result     *sim.HistoryResult
	err        error
	calls      int
	chronotype domain.SleepChronotype
}

func (m *MockHistoryGenerator) GenerateRange(ctx context.Context, user *domain.VirtualUser, numDays int, boundary sim.Boundary, mode domain.DataMode) (*sim.HistoryResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *MockHistoryGenerator) GenerateRangeAs(ctx context.Context, user *domain.VirtualUser, chronotype domain.SleepChronotype, numDays int, boundary sim.Boundary, mode domain.DataMode) (*sim.HistoryResult, error) {
	m.calls++
	m.chronotype = chronotype
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// Helper functions
func strPtr(s string) *string {
	return &s
}

// MockInsightsLLM is a mock implementation of llm.InsightsLLM
type MockInsightsLLM struct {
	output  *domain.LLMInsightsOutput
	err     error
	lastCtx *domain.InsightsContext
}

var _ llm.InsightsLLM = (*MockInsightsLLM)(nil)

func (m *MockInsightsLLM) GenerateInsights(ctx context.Context, insightsCtx *domain.InsightsContext) (*domain.LLMInsightsOutput, error) {
	m.lastCtx = insightsCtx
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}
