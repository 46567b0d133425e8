package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/medialib-admin/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// EnsureIndexes adds the lookups that scans lean on and gorm tags cannot
// express.
func EnsureIndexes(db *gorm.DB) error {
	for _, spec := range domain.MergeableSpecs() {
		stmt := fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS idx_%s_lower_%s ON %s (LOWER(%s));`,
			spec.Table, spec.NameColumn, spec.Table, spec.NameColumn,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create name index on %s: %w", spec.Table, err)
		}
	}
	return nil
}
