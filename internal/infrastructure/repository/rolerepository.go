package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/infrastructure/persistence/mappers"
	"github.com/wardgate/wardgate/internal/infrastructure/persistence/models"
	"github.com/wardgate/wardgate/internal/shared/db"
	apperrors "github.com/wardgate/wardgate/internal/shared/errors"
)

type RoleRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RoleMapper
}

func NewRoleRepository(gdb *gorm.DB) permission.RoleRepository {
	return &RoleRepositoryImpl{db: gdb, mapper: mappers.NewRoleMapper()}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *permission.Role) error {
	model := r.mapper.ToModel(role)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return fmt.Errorf("%w: %s", permission.ErrRoleCodeTaken, role.Code())
		}
		return fmt.Errorf("failed to create role: %w", err)
	}

	return role.SetID(model.ID)
}

func (r *RoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *RoleRepositoryImpl) GetByCode(ctx context.Context, code string) (*permission.Role, error) {
	var model models.RoleModel
	if err := db.GetTxFromContext(ctx, r.db).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role by code: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *RoleRepositoryImpl) List(ctx context.Context, filter permission.RoleFilter) ([]*permission.Role, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.RoleModel{})

	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.Type != "" {
		query = query.Where("role_type = ?", string(filter.Type))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roles: %w", err)
	}

	var roleModels []*models.RoleModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Order("level DESC").Order("id ASC").
		Find(&roleModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list roles: %w", err)
	}

	roles, err := r.mapper.ToEntities(roleModels)
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *RoleRepositoryImpl) Update(ctx context.Context, role *permission.Role) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.RoleModel{}).
		Where("id = ?", role.ID()).
		Updates(map[string]interface{}{
			"name":        role.Name(),
			"description": role.Description(),
			"level":       role.Level(),
			"status":      string(role.Status()),
			"updated_at":  role.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", permission.ErrRoleNotFound, role.ID())
	}

	return nil
}

// Delete removes grants explicitly before the role so the cascade holds even on
// connections where foreign keys are not enforced.
func (r *RoleRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete role permissions: %w", err)
		}

		result := tx.Delete(&models.RoleModel{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete role: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %d", permission.ErrRoleNotFound, id)
		}
		return nil
	})
}

func (r *RoleRepositoryImpl) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.RoleModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role code: %w", err)
	}
	return count > 0, nil
}
