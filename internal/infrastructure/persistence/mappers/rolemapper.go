package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/wardgate/wardgate/internal/domain/permission"
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
	"github.com/wardgate/wardgate/internal/infrastructure/persistence/models"
)

// RoleMapper converts roles and their grants between domain entities and persistence models.
type RoleMapper interface {
	ToEntity(model *models.RoleModel) (*permission.Role, error)
	ToModel(entity *permission.Role) *models.RoleModel
	ToEntities(models []*models.RoleModel) ([]*permission.Role, error)

	GrantToEntity(model *models.RolePermissionModel) (*permission.RolePermission, error)
	GrantToModel(entity *permission.RolePermission) *models.RolePermissionModel
	GrantsToEntities(models []*models.RolePermissionModel) ([]*permission.RolePermission, error)
}

type roleMapper struct{}

func NewRoleMapper() RoleMapper {
	return &roleMapper{}
}

func (m *roleMapper) ToEntity(model *models.RoleModel) (*permission.Role, error) {
	if model == nil {
		return nil, nil
	}

	roleType, err := permission.ParseRoleType(model.RoleType)
	if err != nil {
		return nil, fmt.Errorf("role %d: %w", model.ID, err)
	}
	status, err := permission.ParseRoleStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("role %d: %w", model.ID, err)
	}

	return permission.ReconstructRole(
		model.ID,
		model.Name,
		model.Code,
		model.Description,
		roleType,
		model.Level,
		status,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *roleMapper) ToModel(entity *permission.Role) *models.RoleModel {
	if entity == nil {
		return nil
	}

	return &models.RoleModel{
		ID:          entity.ID(),
		Name:        entity.Name(),
		Code:        entity.Code(),
		Description: entity.Description(),
		RoleType:    string(entity.Type()),
		Level:       entity.Level(),
		Status:      string(entity.Status()),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *roleMapper) ToEntities(roleModels []*models.RoleModel) ([]*permission.Role, error) {
	entities := make([]*permission.Role, 0, len(roleModels))
	for _, model := range roleModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// GrantToEntity rebuilds the pair from the stored permission code, which is the
// authoritative column; resource and action are denormalised copies.
func (m *roleMapper) GrantToEntity(model *models.RolePermissionModel) (*permission.RolePermission, error) {
	if model == nil {
		return nil, nil
	}

	pair, err := vo.ParsePair(model.PermissionCode)
	if err != nil {
		return nil, fmt.Errorf("role permission %d: %w", model.ID, err)
	}

	var conditions json.RawMessage
	if len(model.Conditions) > 0 && string(model.Conditions) != "null" {
		conditions = json.RawMessage(model.Conditions)
	}

	return permission.ReconstructRolePermission(
		model.ID,
		model.RoleID,
		pair,
		model.IsGranted,
		conditions,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *roleMapper) GrantToModel(entity *permission.RolePermission) *models.RolePermissionModel {
	if entity == nil {
		return nil
	}

	model := &models.RolePermissionModel{
		ID:             entity.ID(),
		RoleID:         entity.RoleID(),
		PermissionCode: entity.Code(),
		Resource:       entity.Resource().String(),
		Action:         entity.Action().String(),
		IsGranted:      entity.IsGranted(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
	if len(entity.Conditions()) > 0 {
		model.Conditions = datatypes.JSON(entity.Conditions())
	}
	return model
}

func (m *roleMapper) GrantsToEntities(grantModels []*models.RolePermissionModel) ([]*permission.RolePermission, error) {
	entities := make([]*permission.RolePermission, 0, len(grantModels))
	for _, model := range grantModels {
		entity, err := m.GrantToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
