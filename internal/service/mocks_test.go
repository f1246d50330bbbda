package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/langfuse"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("connection refused")

// MockDataPointRepository is a mock implementation of DataPointRepository
type MockDataPointRepository struct {
	points          map[uuid.UUID]*domain.DataPoint
	clientRequestID map[string]*domain.DataPoint
	listResult      []domain.DataPoint
	err             error
}

func NewMockDataPointRepository() *MockDataPointRepository {
	return &MockDataPointRepository{
		points:          make(map[uuid.UUID]*domain.DataPoint),
		clientRequestID: make(map[string]*domain.DataPoint),
	}
}

func (m *MockDataPointRepository) Create(ctx context.Context, dp *domain.DataPoint) error {
	if m.err != nil {
		return m.err
	}
	if dp.ID == uuid.Nil {
		dp.ID = uuid.New()
	}
	dp.CreatedAt = time.Now()
	m.points[dp.ID] = dp
	if dp.ClientRequestID != nil {
		m.clientRequestID[dp.UserID.String()+":"+*dp.ClientRequestID] = dp
	}
	return nil
}

func (m *MockDataPointRepository) GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.DataPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	dp, ok := m.clientRequestID[userID.String()+":"+clientRequestID]
	if !ok {
		return nil, nil
	}
	return dp, nil
}

func (m *MockDataPointRepository) ListByRange(ctx context.Context, userID uuid.UUID, dataType domain.DataType, from, to time.Time) ([]domain.DataPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.DataPoint
	for _, dp := range m.points {
		if dp.UserID == userID && dp.DataType == dataType && !dp.Timestamp.Before(from) && dp.Timestamp.Before(to) {
			out = append(out, *dp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *MockDataPointRepository) List(ctx context.Context, userID uuid.UUID, filter domain.DataPointFilter) ([]domain.DataPoint, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.listResult, nil
}

func (m *MockDataPointRepository) LatestTimestamp(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	var latest *time.Time
	for _, dp := range m.points {
		if dp.UserID == userID && (latest == nil || dp.Timestamp.After(*latest)) {
			ts := dp.Timestamp
			latest = &ts
		}
	}
	return latest, nil
}

func (m *MockDataPointRepository) ListActiveUsers(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	return nil, m.err
}

func (m *MockDataPointRepository) ListUsersWithDataBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	return nil, m.err
}

func (m *MockDataPointRepository) DeleteOlderThan(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	return 0, m.err
}

// MockConfigurationRepository is a mock implementation of ConfigurationRepository
type MockConfigurationRepository struct {
	configs map[uuid.UUID]*domain.Configuration
	saves   int
	saveErr error
	err     error
}

func NewMockConfigurationRepository() *MockConfigurationRepository {
	return &MockConfigurationRepository{configs: make(map[uuid.UUID]*domain.Configuration)}
}

func (m *MockConfigurationRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error) {
	if m.err != nil {
		return nil, m.err
	}
	cfg, ok := m.configs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *cfg
	return &copied, nil
}

func (m *MockConfigurationRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error) {
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.configs[userID]; !ok {
		m.configs[userID] = domain.DefaultConfiguration(userID)
	}
	return m.Get(ctx, userID)
}

func (m *MockConfigurationRepository) Save(ctx context.Context, cfg *domain.Configuration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *cfg
	m.configs[cfg.UserID] = &copied
	m.saves++
	return nil
}

func (m *MockConfigurationRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, ok := m.configs[userID]
	return ok, m.err
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	events   []domain.AstrologicalEvent
	upserted int
	listErr  error
}

func (m *MockEventRepository) Upsert(ctx context.Context, events []domain.AstrologicalEvent) error {
	m.events = append(m.events, events...)
	m.upserted += len(events)
	return nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AstrologicalEvent, error) {
	for i := range m.events {
		if m.events[i].ID == id {
			return &m.events[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockEventRepository) ListForUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.AstrologicalEvent, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.AstrologicalEvent
	for _, ev := range m.events {
		if !ev.StartTime.Before(from) && ev.StartTime.Before(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

// MockInsightRepository is a mock implementation of InsightRepository
type MockInsightRepository struct {
	insights map[uuid.UUID]*domain.Insight
	updates  int
	err      error
}

func NewMockInsightRepository(insights ...*domain.Insight) *MockInsightRepository {
	m := &MockInsightRepository{insights: make(map[uuid.UUID]*domain.Insight)}
	for _, in := range insights {
		m.insights[in.ID] = in
	}
	return m
}

func (m *MockInsightRepository) CreateGated(ctx context.Context, insight *domain.Insight) (repository.CreateOutcome, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.insights[insight.ID] = insight
	return repository.OutcomeCreated, nil
}

func (m *MockInsightRepository) HasLive(ctx context.Context, userID, ruleID, eventID uuid.UUID) (bool, error) {
	return false, m.err
}

func (m *MockInsightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Insight, error) {
	if m.err != nil {
		return nil, m.err
	}
	in, ok := m.insights[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *in
	return &copied, nil
}

func (m *MockInsightRepository) Update(ctx context.Context, insight *domain.Insight) error {
	if m.err != nil {
		return m.err
	}
	copied := *insight
	m.insights[insight.ID] = &copied
	m.updates++
	return nil
}

func (m *MockInsightRepository) ListActive(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Insight, error) {
	var out []domain.Insight
	for _, in := range m.insights {
		if in.UserID == userID && in.ActiveAt(now) {
			out = append(out, *in)
		}
	}
	return out, m.err
}

func (m *MockInsightRepository) ListDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]domain.Insight, error) {
	return nil, m.err
}

func (m *MockInsightRepository) ExpireStale(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	return 0, m.err
}

func (m *MockInsightRepository) CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	return 0, m.err
}

func (m *MockInsightRepository) CountActive(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	return 0, m.err
}

// MockLangfuseClient records scores and traces instead of sending them.
type MockLangfuseClient struct {
	mu      sync.Mutex
	enabled bool
	traces  []langfuse.TraceInput
	scores  []langfuse.ScoreInput
}

func (m *MockLangfuseClient) IsEnabled() bool { return m.enabled }

func (m *MockLangfuseClient) CreateTrace(ctx context.Context, in langfuse.TraceInput) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traces = append(m.traces, in)
	return in.ID, nil
}

func (m *MockLangfuseClient) CreateScore(ctx context.Context, in langfuse.ScoreInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, in)
	return nil
}
