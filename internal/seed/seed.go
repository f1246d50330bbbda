// Package seed fills a database with a lunar event catalog and demo users
// whose signals react to it, so a detection pass has something to find.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/blaisecz/insight-engine/internal/domain"
	"github.com/blaisecz/insight-engine/internal/logger"
	"github.com/blaisecz/insight-engine/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	seededDays = 180
	// synodicMonth is the mean time between two full moons.
	synodicMonth = time.Duration(29.530588 * 24 * float64(time.Hour))
)

// referenceFullMoon anchors the generated lunar calendar.
var referenceFullMoon = time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC)

// User is a demo profile and the signal its data reacts with.
type User struct {
	ID       uuid.UUID
	Timezone string
	DataType domain.DataType
	// EventType the signal shifts after, empty for a user with pure noise.
	EventType string
	Shift     float64
}

var Users = []User{
	{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Timezone: "Europe/Amsterdam", DataType: domain.DataTypeMood, EventType: "full_moon", Shift: 0.25},
	{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Timezone: "America/New_York", DataType: domain.DataTypeEnergy, EventType: "new_moon", Shift: -0.2},
	{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Timezone: "Asia/Tokyo", DataType: domain.DataTypeMood},
}

// Run seeds the catalog and demo users relative to now. Safe to call multiple times.
func Run(ctx context.Context, db *gorm.DB, now time.Time, log *logger.Logger) error {
	now = now.UTC()
	events := LunarCalendar(now.AddDate(0, 0, -seededDays), now.AddDate(0, 0, 30))
	if err := repository.NewEventRepository(db).Upsert(ctx, events); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	rng := rand.New(rand.NewSource(now.UnixNano()))
	for _, user := range Users {
		cfg := domain.DefaultConfiguration(user.ID)
		cfg.Timezone = user.Timezone
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(cfg).Error; err != nil {
			return fmt.Errorf("failed to create configuration for %s: %w", user.ID, err)
		}
		n, err := seedPointsForUser(ctx, db, user, events, now, rng)
		if err != nil {
			return err
		}
		log.Info("Seeded demo user", "user_id", user.ID, "data_type", user.DataType, "points", n)
	}

	log.Info("Seed completed", "events", len(events))
	return nil
}

// LunarCalendar returns full and new moons with a start time in [from, to).
func LunarCalendar(from, to time.Time) []domain.AstrologicalEvent {
	var events []domain.AstrologicalEvent
	cycles := int(from.Sub(referenceFullMoon)/synodicMonth) - 1
	for ; ; cycles++ {
		full := referenceFullMoon.Add(time.Duration(cycles) * synodicMonth).Truncate(time.Minute)
		if !full.Before(to) {
			break
		}
		phases := []struct {
			eventType string
			name      string
			at        time.Time
		}{
			{"full_moon", "Full Moon", full},
			{"new_moon", "New Moon", full.Add(synodicMonth / 2).Truncate(time.Minute)},
		}
		for _, ph := range phases {
			if ph.at.Before(from) || !ph.at.Before(to) {
				continue
			}
			events = append(events, domain.AstrologicalEvent{
				ExternalID:        fmt.Sprintf("%s-%s", ph.eventType, ph.at.Format("2006-01-02")),
				EventType:         ph.eventType,
				Category:          domain.EventCategoryLunar,
				Name:              ph.name,
				StartTime:         ph.at,
				Intensity:         0.6,
				PersonalRelevance: 0.5,
			})
		}
	}
	return events
}

func seedPointsForUser(ctx context.Context, db *gorm.DB, user User, events []domain.AstrologicalEvent, now time.Time, rng *rand.Rand) (int, error) {
	baseline := user.DataType.Baseline()
	var points []domain.DataPoint
	for day := seededDays; day > 0; day-- {
		for _, hour := range []int{9, 15, 21} {
			at := now.AddDate(0, 0, -day).Truncate(24 * time.Hour).Add(time.Duration(hour) * time.Hour)
			value := baseline + rng.NormFloat64()*0.06
			if user.EventType != "" && followsEvent(at, user.EventType, events) {
				value += user.Shift
			}
			requestID := fmt.Sprintf("seed-%s-%s", user.ID, at.Format(time.RFC3339))
			points = append(points, domain.DataPoint{
				ID:              uuid.New(),
				UserID:          user.ID,
				DataType:        user.DataType,
				Timestamp:       at,
				Value:           clamp(value, user.DataType),
				Source:          domain.SourceUserInput,
				Confidence:      1,
				ClientRequestID: &requestID,
			})
		}
	}

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(points, 200).Error
	if err != nil {
		return 0, fmt.Errorf("failed to seed data points for %s: %w", user.ID, err)
	}
	return len(points), nil
}

// followsEvent reports whether at lies within two days after an event of the given type.
func followsEvent(at time.Time, eventType string, events []domain.AstrologicalEvent) bool {
	for _, ev := range events {
		if ev.EventType != eventType {
			continue
		}
		if !at.Before(ev.StartTime) && at.Before(ev.StartTime.Add(48*time.Hour)) {
			return true
		}
	}
	return false
}

func clamp(v float64, t domain.DataType) float64 {
	lo, hi := t.Range()
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
