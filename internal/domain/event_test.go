package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAstrologicalEventRelevance(t *testing.T) {
	window := 48 * time.Hour
	ev := &AstrologicalEvent{StartTime: now}

	assert.Equal(t, now, ev.End())
	assert.True(t, ev.RelevantAt(now.Add(-window), window))
	assert.False(t, ev.RelevantAt(now.Add(-window-time.Second), window))
	assert.True(t, ev.RelevantAt(now.Add(window-time.Second), window))
	assert.False(t, ev.RelevantAt(now.Add(window), window))

	end := now.Add(72 * time.Hour)
	ev.EndTime = &end
	assert.Equal(t, end.Add(window), ev.RelevanceEnd(window))

	before := now.Add(-time.Hour)
	ev.EndTime = &before
	assert.Equal(t, now, ev.End(), "end before start is ignored")
}
