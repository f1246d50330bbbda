package repository

import (
	"context"
	"errors"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DataPointRepository interface {
	Create(ctx context.Context, dp *domain.DataPoint) error
	GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.DataPoint, error)
	ListByRange(ctx context.Context, userID uuid.UUID, dataType domain.DataType, from, to time.Time) ([]domain.DataPoint, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.DataPointFilter) ([]domain.DataPoint, error)
	LatestTimestamp(ctx context.Context, userID uuid.UUID) (*time.Time, error)
	ListActiveUsers(ctx context.Context, since time.Time) ([]uuid.UUID, error)
	ListUsersWithDataBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error)
	DeleteOlderThan(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error)
}

type dataPointRepository struct {
	db *gorm.DB
}

func NewDataPointRepository(db *gorm.DB) DataPointRepository {
	return &dataPointRepository{db: db}
}

func (r *dataPointRepository) Create(ctx context.Context, dp *domain.DataPoint) error {
	if dp.ID == uuid.Nil {
		dp.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Create(dp).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *dataPointRepository) GetByClientRequestID(ctx context.Context, userID uuid.UUID, clientRequestID string) (*domain.DataPoint, error) {
	var dp domain.DataPoint
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND client_request_id = ?", userID, clientRequestID).
		First(&dp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found is not an error for idempotency check
		}
		return nil, err
	}
	return &dp, nil
}

// ListByRange returns a user's data points of one type in [from, to), oldest first.
func (r *dataPointRepository) ListByRange(ctx context.Context, userID uuid.UUID, dataType domain.DataType, from, to time.Time) ([]domain.DataPoint, error) {
	var points []domain.DataPoint
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND data_type = ?", userID, dataType).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp ASC").
		Find(&points).Error
	return points, err
}

func (r *dataPointRepository) List(ctx context.Context, userID uuid.UUID, filter domain.DataPointFilter) ([]domain.DataPoint, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("id DESC")

	if filter.DataType != "" {
		query = query.Where("data_type = ?", filter.DataType)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", filter.To)
	}

	if filter.Cursor != "" {
		cursor, err := pagination.DecodeCursor(filter.Cursor)
		if err == nil && cursor != nil {
			query = query.Where(
				"(timestamp < ?) OR (timestamp = ? AND id < ?)",
				cursor.At, cursor.At, cursor.ID,
			)
		}
	}

	// Fetch one extra to determine if there are more results
	limit := pagination.NormalizeLimit(filter.Limit)
	query = query.Limit(limit + 1)

	var points []domain.DataPoint
	if err := query.Find(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (r *dataPointRepository) LatestTimestamp(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var dp domain.DataPoint
	err := r.db.WithContext(ctx).
		Select("timestamp").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		First(&dp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ts := dp.Timestamp.UTC()
	return &ts, nil
}

// ListActiveUsers returns users with at least one data point recorded since the given time.
func (r *dataPointRepository) ListActiveUsers(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.DataPoint{}).
		Where("timestamp >= ?", since).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListUsersWithDataBefore returns users holding at least one data point older than before.
func (r *dataPointRepository) ListUsersWithDataBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.DataPoint{}).
		Where("timestamp < ?", before).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *dataPointRepository) DeleteOlderThan(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp < ?", userID, cutoff).
		Delete(&domain.DataPoint{})
	return res.RowsAffected, res.Error
}
