package service

import (
	"context"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/repository"
)

// EventService mirrors the external ephemeris feed locally. Entries are keyed by
// external ID, so a corrected entry overwrites the earlier one.
type EventService interface {
	Upsert(ctx context.Context, req *domain.UpsertEventsRequest) (int, error)
}

type eventService struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) Upsert(ctx context.Context, req *domain.UpsertEventsRequest) (int, error) {
	events := make([]domain.AstrologicalEvent, 0, len(req.Events))
	for i, in := range req.Events {
		if in.EndTime != nil && in.EndTime.Before(in.StartTime) {
			return 0, domain.Invalid("events", "[%d].end_time is before start_time", i)
		}
		ev := domain.AstrologicalEvent{
			ExternalID:        in.ExternalID,
			UserID:            in.UserID,
			EventType:         in.EventType,
			Category:          in.Category,
			Name:              in.Name,
			StartTime:         in.StartTime.UTC(),
			Intensity:         in.Intensity,
			PersonalRelevance: in.PersonalRelevance,
		}
		if in.EndTime != nil {
			end := in.EndTime.UTC()
			ev.EndTime = &end
		}
		events = append(events, ev)
	}
	if err := s.repo.Upsert(ctx, events); err != nil {
		return 0, err
	}
	return len(events), nil
}
