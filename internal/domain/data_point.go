package domain

import (
	"time"

	"github.com/google/uuid"
)

// DataType is the kind of behavioral signal a data point carries.
type DataType string

const (
	DataTypeMood         DataType = "mood"
	DataTypeProductivity DataType = "productivity"
	DataTypeEnergy       DataType = "energy"
	DataTypeSleep        DataType = "sleep"
	DataTypeSentiment    DataType = "sentiment"
	DataTypeActivity     DataType = "activity"
)

// AllDataTypes lists every data type in a stable order.
var AllDataTypes = []DataType{
	DataTypeMood,
	DataTypeProductivity,
	DataTypeEnergy,
	DataTypeSleep,
	DataTypeSentiment,
	DataTypeActivity,
}

// Valid reports whether t is a known data type.
func (t DataType) Valid() bool {
	for _, known := range AllDataTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Range returns the normalized value range for the data type.
// Sentiment is signed, every other signal is a 0..1 intensity.
func (t DataType) Range() (lo, hi float64) {
	if t == DataTypeSentiment {
		return -1, 1
	}
	return 0, 1
}

// Baseline is the neutral midpoint of the type's range.
func (t DataType) Baseline() float64 {
	lo, hi := t.Range()
	return (lo + hi) / 2
}

// DataSource identifies the producer of a data point.
type DataSource string

const (
	SourceUserInput            DataSource = "user_input"
	SourceConversationAnalysis DataSource = "conversation_analysis"
	SourceActivityLog          DataSource = "activity_log"
	SourceExternalAPI          DataSource = "external_api"
)

// Valid reports whether s is a known data source.
func (s DataSource) Valid() bool {
	switch s {
	case SourceUserInput, SourceConversationAnalysis, SourceActivityLog, SourceExternalAPI:
		return true
	}
	return false
}

type DataPoint struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_data_points_user_type_ts;uniqueIndex:idx_data_points_user_client_request" json:"user_id"`
	DataType        DataType   `gorm:"type:varchar(32);not null;index:idx_data_points_user_type_ts" json:"data_type"`
	Timestamp       time.Time  `gorm:"not null;index:idx_data_points_user_type_ts" json:"timestamp"`
	Value           float64    `gorm:"not null" json:"value"`
	RawValue        *float64   `json:"raw_value,omitempty"`
	Source          DataSource `gorm:"type:varchar(32);not null" json:"source"`
	Confidence      float64    `gorm:"not null;default:1" json:"confidence"`
	ClientRequestID *string    `gorm:"type:varchar(255);uniqueIndex:idx_data_points_user_client_request,where:client_request_id IS NOT NULL" json:"client_request_id,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (DataPoint) TableName() string {
	return "data_points"
}

// RecordDataPointRequest is the request body for recording a data point.
// @Description Request payload for ingesting one behavioral observation.
type RecordDataPointRequest struct {
	// Data type of the observation
	DataType DataType `json:"data_type" validate:"required,oneof=mood productivity energy sleep sentiment activity" example:"mood"`
	// Normalized value: -1..1 for sentiment, 0..1 otherwise
	Value *float64 `json:"value" validate:"required" example:"0.72"`
	// Optional raw value as reported by the producer
	RawValue *float64 `json:"raw_value,omitempty" example:"7"`
	// Producer of the observation
	Source DataSource `json:"source" validate:"required,oneof=user_input conversation_analysis activity_log external_api" example:"user_input"`
	// Producer confidence in the observation
	Confidence *float64 `json:"confidence,omitempty" validate:"omitempty,min=0,max=1" example:"0.9"`
	// Observation time (defaults to now)
	Timestamp *time.Time `json:"timestamp,omitempty" example:"2024-01-15T20:00:00Z"`
	// Optional client-generated ID for idempotent requests (max 255 chars)
	ClientRequestID *string `json:"client_request_id,omitempty" validate:"omitempty,max=255" example:"client-uuid-12345"`
}

// DataPointFilter contains filter parameters for listing data points.
type DataPointFilter struct {
	DataType DataType
	From     *time.Time
	To       *time.Time
	Limit    int
	Cursor   string
}

// DataPointListResponse is the response body for listing data points.
// @Description Paginated list of data points.
type DataPointListResponse struct {
	Data       []DataPoint        `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}
