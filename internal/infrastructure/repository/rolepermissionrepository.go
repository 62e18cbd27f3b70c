package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/infrastructure/persistence/mappers"
	"github.com/wardgate/wardgate/internal/infrastructure/persistence/models"
	"github.com/wardgate/wardgate/internal/shared/db"
	apperrors "github.com/wardgate/wardgate/internal/shared/errors"
)

var grantConflictColumns = []clause.Column{{Name: "role_id"}, {Name: "permission_code"}}

type RolePermissionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RoleMapper
}

func NewRolePermissionRepository(gdb *gorm.DB) permission.RolePermissionRepository {
	return &RolePermissionRepositoryImpl{db: gdb, mapper: mappers.NewRoleMapper()}
}

func (r *RolePermissionRepositoryImpl) Create(ctx context.Context, rp *permission.RolePermission) error {
	model := r.mapper.GrantToModel(rp)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return fmt.Errorf("%w: role %d %s", permission.ErrDuplicateGrant, rp.RoleID(), rp.Code())
		}
		return fmt.Errorf("failed to create role permission: %w", err)
	}

	return rp.SetID(model.ID)
}

func (r *RolePermissionRepositoryImpl) Upsert(ctx context.Context, rp *permission.RolePermission) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.GrantToModel(rp)
	model.ID = 0

	if err := tx.Clauses(clause.OnConflict{
		Columns:   grantConflictColumns,
		DoUpdates: clause.AssignmentColumns([]string{"is_granted", "conditions", "updated_at"}),
	}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to upsert role permission: %w", err)
	}

	if rp.ID() != 0 {
		return nil
	}

	var stored models.RolePermissionModel
	if err := tx.Select("id").
		Where("role_id = ? AND permission_code = ?", rp.RoleID(), rp.Code()).
		First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload role permission: %w", err)
	}
	return rp.SetID(stored.ID)
}

func (r *RolePermissionRepositoryImpl) Get(ctx context.Context, roleID uint, code string) (*permission.RolePermission, error) {
	var model models.RolePermissionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("role_id = ? AND permission_code = ?", roleID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role permission: %w", err)
	}

	return r.mapper.GrantToEntity(&model)
}

func (r *RolePermissionRepositoryImpl) ListByRole(ctx context.Context, roleID uint) ([]*permission.RolePermission, error) {
	var grantModels []*models.RolePermissionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("role_id = ?", roleID).
		Order("id ASC").
		Find(&grantModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list role permissions: %w", err)
	}

	return r.mapper.GrantsToEntities(grantModels)
}

func (r *RolePermissionRepositoryImpl) Delete(ctx context.Context, roleID uint, code string) (bool, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("role_id = ? AND permission_code = ?", roleID, code).
		Delete(&models.RolePermissionModel{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete role permission: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *RolePermissionRepositoryImpl) DeleteByRole(ctx context.Context, roleID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("role_id = ?", roleID).
		Delete(&models.RolePermissionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete role permissions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CreateBatch inserts with ON CONFLICT DO NOTHING so an existing grant is counted as
// skipped and never aborts the surrounding transaction.
func (r *RolePermissionRepositoryImpl) CreateBatch(ctx context.Context, rps []*permission.RolePermission) (permission.BatchResult, error) {
	var result permission.BatchResult
	tx := db.GetTxFromContext(ctx, r.db)

	for _, rp := range rps {
		model := r.mapper.GrantToModel(rp)
		if model.CreatedAt.IsZero() {
			now := time.Now()
			model.CreatedAt, model.UpdatedAt = now, now
		}

		res := tx.Clauses(clause.OnConflict{Columns: grantConflictColumns, DoNothing: true}).Create(model)
		if res.Error != nil {
			return result, fmt.Errorf("failed to create role permission %s: %w", rp.Code(), res.Error)
		}
		if res.RowsAffected == 0 {
			result.Skipped++
			continue
		}
		if err := rp.SetID(model.ID); err != nil {
			return result, err
		}
		result.Created++
	}

	return result, nil
}
