package permission

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/shared/constants"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

// PolicySync rewrites the casbin p rules from granted permissions of active roles.
type PolicySync struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPolicySync(db *gorm.DB, logger logger.Interface) *PolicySync {
	return &PolicySync{
		db:     db,
		logger: logger,
	}
}

// Rebuild replaces every p rule in one transaction and returns the number written.
func (s *PolicySync) Rebuild(ctx context.Context) (int64, error) {
	s.logger.Info("syncing grants to casbin")

	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+constants.TableCasbinRule+" WHERE ptype = ?", "p").Error; err != nil {
			return fmt.Errorf("failed to clear policy rules: %w", err)
		}

		query := `
			INSERT INTO ` + constants.TableCasbinRule + ` (ptype, v0, v1, v2, v3, v4, v5)
			SELECT DISTINCT 'p', r.code, rp.resource, rp.action, '', '', ''
			FROM ` + constants.TableRolePermissions + ` rp
			JOIN ` + constants.TableRoles + ` r ON rp.role_id = r.id
			WHERE rp.is_granted = ? AND r.status = ?
		`
		result := tx.Exec(query, true, string(permission.RoleStatusActive))
		if result.Error != nil {
			return fmt.Errorf("failed to insert policy rules: %w", result.Error)
		}
		count = result.RowsAffected
		return nil
	})
	if err != nil {
		s.logger.Errorw("casbin sync failed", "error", err)
		return 0, err
	}

	s.logger.Infow("grants synced to casbin", "rules", count)
	return count, nil
}
