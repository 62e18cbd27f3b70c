package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wardgate/wardgate/internal/infrastructure/persistence/models"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

// AutoMigrateModels lists the models owned by this service, parents first.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.RoleModel{},
		&models.RolePermissionModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the gorm models. Used for local
// sqlite databases and tests.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB, models ...interface{}) error {
	if len(models) == 0 {
		models = AutoMigrateModels()
	}

	s.logger.Infow("starting gorm auto migration", "models_count", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
