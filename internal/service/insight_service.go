package service

import (
	"context"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/langfuse"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/google/uuid"
)

// InsightService serves insights to users and delivery surfaces. Every write is
// idempotent: repeating a transition returns the insight unchanged.
type InsightService interface {
	ListActive(ctx context.Context, userID uuid.UUID) ([]domain.Insight, error)
	ListDue(ctx context.Context, userID uuid.UUID) ([]domain.Insight, error)
	MarkDelivered(ctx context.Context, insightID uuid.UUID, req *domain.MarkDeliveredRequest) (*domain.Insight, error)
	Acknowledge(ctx context.Context, insightID uuid.UUID) (*domain.Insight, error)
	Dismiss(ctx context.Context, insightID uuid.UUID) (*domain.Insight, error)
	RecordFeedback(ctx context.Context, insightID uuid.UUID, req *domain.FeedbackRequest) (*domain.Insight, error)
}

type insightService struct {
	repo    repository.InsightRepository
	scores  langfuse.Client
	metrics *telemetry.Metrics
	log     *logger.Logger
	now     Clock
}

func NewInsightService(repo repository.InsightRepository, scores langfuse.Client, metrics *telemetry.Metrics, log *logger.Logger, now Clock) InsightService {
	return &insightService{
		repo:    repo,
		scores:  scores,
		metrics: metrics,
		log:     log.With("component", "InsightService"),
		now:     now,
	}
}

func (s *insightService) ListActive(ctx context.Context, userID uuid.UUID) ([]domain.Insight, error) {
	insights, err := s.repo.ListActive(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	if insights == nil {
		insights = []domain.Insight{}
	}
	return insights, nil
}

func (s *insightService) ListDue(ctx context.Context, userID uuid.UUID) ([]domain.Insight, error) {
	insights, err := s.repo.ListDue(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	if insights == nil {
		insights = []domain.Insight{}
	}
	return insights, nil
}

func (s *insightService) MarkDelivered(ctx context.Context, insightID uuid.UUID, req *domain.MarkDeliveredRequest) (*domain.Insight, error) {
	return s.transition(ctx, insightID, func(in *domain.Insight, now time.Time) error {
		return in.MarkDelivered(now, req.Method)
	})
}

func (s *insightService) Acknowledge(ctx context.Context, insightID uuid.UUID) (*domain.Insight, error) {
	return s.transition(ctx, insightID, func(in *domain.Insight, now time.Time) error {
		return in.Acknowledge(now)
	})
}

func (s *insightService) Dismiss(ctx context.Context, insightID uuid.UUID) (*domain.Insight, error) {
	return s.transition(ctx, insightID, func(in *domain.Insight, _ time.Time) error {
		return in.Dismiss()
	})
}

// transition loads the insight, expires it if it is past its expiration, applies
// apply and saves only when the status actually changed.
func (s *insightService) transition(ctx context.Context, insightID uuid.UUID, apply func(*domain.Insight, time.Time) error) (*domain.Insight, error) {
	insight, err := s.repo.GetByID(ctx, insightID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if insight.Expire(now) {
		if err := s.repo.Update(ctx, insight); err != nil {
			return nil, err
		}
		s.metrics.RecordTransition(string(domain.InsightExpired))
	}

	before := insight.Status
	if err := apply(insight, now); err != nil {
		return nil, err
	}
	if insight.Status == before {
		return insight, nil
	}
	if err := s.repo.Update(ctx, insight); err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(insight.Status))
	return insight, nil
}

func (s *insightService) RecordFeedback(ctx context.Context, insightID uuid.UUID, req *domain.FeedbackRequest) (*domain.Insight, error) {
	if !req.Feedback.Valid() {
		return nil, domain.Invalid("feedback", "unknown value %q", req.Feedback)
	}
	insight, err := s.repo.GetByID(ctx, insightID)
	if err != nil {
		return nil, err
	}
	if !insight.SetFeedback(req.Feedback, s.now()) {
		return insight, nil
	}
	if err := s.repo.Update(ctx, insight); err != nil {
		return nil, err
	}

	if insight.Personalized {
		err := s.scores.CreateScore(ctx, langfuse.ScoreInput{
			TraceID: insight.ID.String(),
			Name:    "insight_feedback",
			Value:   req.Feedback.Score(),
			Comment: string(req.Feedback),
		})
		if err != nil {
			s.log.Warn("Failed to record feedback score", "insight_id", insight.ID, "error", err)
		}
	}
	return insight, nil
}
