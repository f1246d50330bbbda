package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/blaisecz/insight-engine/internal/telemetry"
	"github.com/blaisecz/insight-engine/pkg/pagination"
	"github.com/google/uuid"
)

// maxClockSkew is how far in the future a producer's timestamp may be.
const maxClockSkew = 5 * time.Minute

type DataPointService interface {
	// Record stores one observation. The bool is true when an earlier point with the
	// same client_request_id was returned instead.
	Record(ctx context.Context, userID uuid.UUID, req *domain.RecordDataPointRequest) (*domain.DataPoint, bool, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.DataPointFilter) (*domain.DataPointListResponse, error)
}

type dataPointService struct {
	repo    repository.DataPointRepository
	metrics *telemetry.Metrics
	now     Clock
}

func NewDataPointService(repo repository.DataPointRepository, metrics *telemetry.Metrics, now Clock) DataPointService {
	return &dataPointService{
		repo:    repo,
		metrics: metrics,
		now:     now,
	}
}

func (s *dataPointService) Record(ctx context.Context, userID uuid.UUID, req *domain.RecordDataPointRequest) (*domain.DataPoint, bool, error) {
	if !req.DataType.Valid() {
		return nil, false, domain.Invalid("data_type", "unknown data type %q", req.DataType)
	}
	if req.Value == nil {
		return nil, false, domain.Invalid("value", "is required")
	}
	lo, hi := req.DataType.Range()
	if v := *req.Value; !(v >= lo && v <= hi) {
		return nil, false, domain.Invalid("value", "must be between %g and %g for %s", lo, hi, req.DataType)
	}
	if req.RawValue != nil && (math.IsNaN(*req.RawValue) || math.IsInf(*req.RawValue, 0)) {
		return nil, false, domain.Invalid("raw_value", "must be a finite number")
	}
	if !req.Source.Valid() {
		return nil, false, domain.Invalid("source", "unknown source %q", req.Source)
	}
	if c := req.Confidence; c != nil && !(*c >= 0 && *c <= 1) {
		return nil, false, domain.Invalid("confidence", "must be between 0 and 1")
	}

	now := s.now()
	ts := now
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
		if ts.After(now.Add(maxClockSkew)) {
			return nil, false, domain.Invalid("timestamp", "must not be in the future")
		}
	}

	confidence := 1.0
	if req.Confidence != nil {
		confidence = *req.Confidence
	}

	// Check for idempotency (duplicate client_request_id)
	if req.ClientRequestID != nil && *req.ClientRequestID != "" {
		existing, err := s.repo.GetByClientRequestID(ctx, userID, *req.ClientRequestID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, true, nil
		}
	}

	dp := &domain.DataPoint{
		UserID:          userID,
		DataType:        req.DataType,
		Timestamp:       ts,
		Value:           *req.Value,
		RawValue:        req.RawValue,
		Source:          req.Source,
		Confidence:      confidence,
		ClientRequestID: req.ClientRequestID,
	}
	if err := s.repo.Create(ctx, dp); err != nil {
		// A concurrent replay inserted first; return its row.
		if errors.Is(err, domain.ErrConflict) && req.ClientRequestID != nil {
			existing, getErr := s.repo.GetByClientRequestID(ctx, userID, *req.ClientRequestID)
			if getErr == nil && existing != nil {
				return existing, true, nil
			}
		}
		return nil, false, err
	}

	s.metrics.RecordDataPoint(string(dp.DataType))
	return dp, false, nil
}

func (s *dataPointService) List(ctx context.Context, userID uuid.UUID, filter domain.DataPointFilter) (*domain.DataPointListResponse, error) {
	if filter.DataType != "" && !filter.DataType.Valid() {
		return nil, domain.Invalid("type", "unknown data type %q", filter.DataType)
	}

	points, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	points, hasMore := pagination.Page(points, filter.Limit)
	response := &domain.DataPointListResponse{
		Data: points,
		Pagination: domain.PaginationResponse{
			HasMore: hasMore,
		},
	}
	if response.Data == nil {
		response.Data = []domain.DataPoint{}
	}

	// Set next cursor if there are more results
	if hasMore && len(points) > 0 {
		last := points[len(points)-1]
		cursor := &pagination.Cursor{ID: last.ID, At: last.Timestamp}
		response.Pagination.NextCursor = cursor.Encode()
	}

	return response, nil
}
