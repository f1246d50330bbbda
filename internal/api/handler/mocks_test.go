package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// withURLParams attaches chi URL params the way the router would.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// MockDataPointService is a mock implementation of DataPointService
type MockDataPointService struct {
	recordFunc func(ctx context.Context, userID uuid.UUID, req *domain.RecordDataPointRequest) (*domain.DataPoint, bool, error)
	listFunc   func(ctx context.Context, userID uuid.UUID, filter domain.DataPointFilter) (*domain.DataPointListResponse, error)
}

func (m *MockDataPointService) Record(ctx context.Context, userID uuid.UUID, req *domain.RecordDataPointRequest) (*domain.DataPoint, bool, error) {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, userID, req)
	}
	return &domain.DataPoint{
		ID:         uuid.New(),
		UserID:     userID,
		DataType:   req.DataType,
		Timestamp:  testTime,
		Value:      *req.Value,
		Source:     req.Source,
		Confidence: 1,
	}, false, nil
}

func (m *MockDataPointService) List(ctx context.Context, userID uuid.UUID, filter domain.DataPointFilter) (*domain.DataPointListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return &domain.DataPointListResponse{
		Data:       []domain.DataPoint{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

// MockInsightService is a mock implementation of InsightService
type MockInsightService struct {
	listActiveFunc    func(ctx context.Context, userID uuid.UUID) ([]domain.Insight, error)
	listDueFunc       func(ctx context.Context, userID uuid.UUID) ([]domain.Insight, error)
	markDeliveredFunc func(ctx context.Context, insightID uuid.UUID, req *domain.MarkDeliveredRequest) (*domain.Insight, error)
	acknowledgeFunc   func(ctx context.Context, insightID uuid.UUID) (*domain.Insight, error)
	dismissFunc       func(ctx context.Context, insightID uuid.UUID) (*domain.Insight, error)
	feedbackFunc      func(ctx context.Context, insightID uuid.UUID, req *domain.FeedbackRequest) (*domain.Insight, error)
}

func mockInsight(id uuid.UUID, status domain.InsightStatus) *domain.Insight {
	return &domain.Insight{
		ID:             id,
		UserID:         uuid.New(),
		RuleID:         uuid.New(),
		TriggerEventID: uuid.New(),
		DataType:       domain.DataTypeMood,
		Type:           domain.InsightOpportunity,
		Priority:       domain.PriorityHigh,
		TriggerTime:    testTime,
		DeliveryTime:   testTime,
		ExpirationTime: testTime.Add(48 * time.Hour),
		Confidence:     0.84,
		Status:         status,
	}
}

func (m *MockInsightService) ListActive(ctx context.Context, userID uuid.UUID) ([]domain.Insight, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx, userID)
	}
	return []domain.Insight{}, nil
}

func (m *MockInsightService) ListDue(ctx context.Context, userID uuid.UUID) ([]domain.Insight, error) {
	if m.listDueFunc != nil {
		return m.listDueFunc(ctx, userID)
	}
	return []domain.Insight{}, nil
}

func (m *MockInsightService) MarkDelivered(ctx context.Context, insightID uuid.UUID, req *domain.MarkDeliveredRequest) (*domain.Insight, error) {
	if m.markDeliveredFunc != nil {
		return m.markDeliveredFunc(ctx, insightID, req)
	}
	return mockInsight(insightID, domain.InsightDelivered), nil
}

func (m *MockInsightService) Acknowledge(ctx context.Context, insightID uuid.UUID) (*domain.Insight, error) {
	if m.acknowledgeFunc != nil {
		return m.acknowledgeFunc(ctx, insightID)
	}
	return mockInsight(insightID, domain.InsightAcknowledged), nil
}

func (m *MockInsightService) Dismiss(ctx context.Context, insightID uuid.UUID) (*domain.Insight, error) {
	if m.dismissFunc != nil {
		return m.dismissFunc(ctx, insightID)
	}
	return mockInsight(insightID, domain.InsightDismissed), nil
}

func (m *MockInsightService) RecordFeedback(ctx context.Context, insightID uuid.UUID, req *domain.FeedbackRequest) (*domain.Insight, error) {
	if m.feedbackFunc != nil {
		return m.feedbackFunc(ctx, insightID, req)
	}
	in := mockInsight(insightID, domain.InsightAcknowledged)
	in.Feedback = &req.Feedback
	return in, nil
}

// MockEngine is a mock implementation of service.Engine
type MockEngine struct {
	runFunc        func(ctx context.Context, userID uuid.UUID) (*domain.PassResult, error)
	revalidateFunc func(ctx context.Context, userID uuid.UUID) (*service.RevalidationResult, error)
}

func (m *MockEngine) RunDetectionPass(ctx context.Context, userID uuid.UUID) (*domain.PassResult, error) {
	if m.runFunc != nil {
		return m.runFunc(ctx, userID)
	}
	return &domain.PassResult{UserID: userID, StartedAt: testTime, FinishedAt: testTime}, nil
}

func (m *MockEngine) Revalidate(ctx context.Context, userID uuid.UUID) (*service.RevalidationResult, error) {
	if m.revalidateFunc != nil {
		return m.revalidateFunc(ctx, userID)
	}
	return &service.RevalidationResult{UserID: userID}, nil
}

func (m *MockEngine) Purge(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

// MockConfigurationService is a mock implementation of ConfigurationService
type MockConfigurationService struct {
	getFunc    func(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error)
	updateFunc func(ctx context.Context, userID uuid.UUID, patch *domain.ConfigurationPatch) (*domain.Configuration, error)
}

func (m *MockConfigurationService) Get(ctx context.Context, userID uuid.UUID) (*domain.Configuration, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return domain.DefaultConfiguration(userID), nil
}

func (m *MockConfigurationService) Update(ctx context.Context, userID uuid.UUID, patch *domain.ConfigurationPatch) (*domain.Configuration, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, userID, patch)
	}
	cfg := domain.DefaultConfiguration(userID)
	if err := patch.Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MockHealthService is a mock implementation of HealthService
type MockHealthService struct {
	getFunc func(ctx context.Context, userID uuid.UUID) (*domain.Health, error)
}

func (m *MockHealthService) Get(ctx context.Context, userID uuid.UUID) (*domain.Health, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return &domain.Health{UserID: userID, ComputedAt: testTime}, nil
}

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	upsertFunc func(ctx context.Context, req *domain.UpsertEventsRequest) (int, error)
}

func (m *MockEventService) Upsert(ctx context.Context, req *domain.UpsertEventsRequest) (int, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, req)
	}
	return len(req.Events), nil
}

// MockPatternService is a mock implementation of PatternService
type MockPatternService struct {
	patterns []domain.Pattern
	rules    []domain.PredictiveRule
	err      error
}

func (m *MockPatternService) ListPatterns(ctx context.Context, userID uuid.UUID) ([]domain.Pattern, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.patterns == nil {
		return []domain.Pattern{}, nil
	}
	return m.patterns, nil
}

func (m *MockPatternService) ListRules(ctx context.Context, userID uuid.UUID) ([]domain.PredictiveRule, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.rules == nil {
		return []domain.PredictiveRule{}, nil
	}
	return m.rules, nil
}
