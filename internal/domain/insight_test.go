package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPriorityShift(t *testing.T) {
	assert.Equal(t, PriorityHigh, PriorityMedium.Shift(1))
	assert.Equal(t, PriorityHigh, PriorityHigh.Shift(1))
	assert.Equal(t, PriorityHigh, PriorityCritical.Shift(0))
	assert.Equal(t, PriorityLow, PriorityMedium.Shift(-3))
	assert.Greater(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Zero(t, Priority("bogus").Rank())
}

func TestInsightTransitions(t *testing.T) {
	in := &Insight{Status: InsightCandidate, ExpirationTime: now.Add(time.Hour)}
	assert.True(t, in.ActiveAt(now))

	require.NoError(t, in.Acknowledge(now))
	assert.Equal(t, InsightAcknowledged, in.Status)
	require.NotNil(t, in.DeliveredAt)
	assert.Equal(t, now, *in.DeliveredAt)
	assert.True(t, in.Delivered)

	later := now.Add(time.Minute)
	require.NoError(t, in.Acknowledge(later))
	assert.Equal(t, now, *in.AcknowledgedAt)

	assert.ErrorIs(t, in.Dismiss(), ErrInvalidTransition)
	assert.False(t, in.Expire(now.Add(2*time.Hour)))
}

func TestInsightExpire(t *testing.T) {
	in := &Insight{Status: InsightDelivered, ExpirationTime: now}
	assert.False(t, in.Expire(now.Add(-time.Second)))
	assert.True(t, in.Expire(now))
	assert.Equal(t, InsightExpired, in.Status)
	assert.False(t, in.ActiveAt(now.Add(-time.Hour)))
	assert.ErrorIs(t, in.MarkDelivered(now, "push"), ErrInvalidTransition)
}

func TestInsightSetFeedback(t *testing.T) {
	in := &Insight{Status: InsightDelivered}
	assert.True(t, in.SetFeedback(FeedbackHelpful, now))
	assert.False(t, in.SetFeedback(FeedbackHelpful, now.Add(time.Minute)))
	assert.Equal(t, now, *in.FeedbackAt)
	assert.True(t, in.SetFeedback(FeedbackInaccurate, now.Add(time.Minute)))
	assert.Equal(t, FeedbackInaccurate, *in.Feedback)
	assert.False(t, Feedback("meh").Valid())
}
