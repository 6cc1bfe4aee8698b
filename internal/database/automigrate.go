package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ins72/mewayz-9913-sub005/internal/domain"
)

// AutoMigrate creates or updates the identity tables the membership check reads
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	models := []struct {
		model     interface{}
		tableName string
	}{
		{&domain.User{}, "users"},
		{&domain.WorkspaceMember{}, "workspace_members"},
	}

	migrator := db.Migrator()
	for _, m := range models {
		existed := migrator.HasTable(m.model)
		if err := db.AutoMigrate(m.model); err != nil {
			log.Error("Failed to migrate table",
				zap.String("table", m.tableName),
				zap.Bool("table_existed", existed),
				zap.Error(err))
			return fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}
		log.Info("Migrated table",
			zap.String("table", m.tableName),
			zap.Bool("was_existing", existed))
	}
	return nil
}
