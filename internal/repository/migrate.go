package repository

import (
	"github.com/blaisecz/insight-engine/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table the engine owns.
func Models() []any {
	return []any{
		&domain.DataPoint{},
		&domain.AstrologicalEvent{},
		&domain.Pattern{},
		&domain.PredictiveRule{},
		&domain.Insight{},
		&domain.Configuration{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
