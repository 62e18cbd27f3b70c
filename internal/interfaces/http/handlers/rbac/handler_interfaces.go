package rbac

import (
	"context"
	"encoding/json"

	rbacapp "github.com/wardgate/wardgate/internal/application/permission"
	"github.com/wardgate/wardgate/internal/application/permission/dto"
)

// Service interfaces for Handler - enables unit testing with mocks.

type roleAdmin interface {
	CreateRole(ctx context.Context, cmd rbacapp.CreateRoleCommand) (*dto.RoleDTO, error)
	CreateRoleFromTemplate(ctx context.Context, cmd rbacapp.CreateRoleFromTemplateCommand) (*dto.RoleWithGrantsDTO, error)
	UpdateRole(ctx context.Context, roleID uint, cmd rbacapp.UpdateRoleCommand) (*dto.RoleDTO, error)
	SetRoleStatus(ctx context.Context, roleID uint, status string) (*dto.RoleDTO, error)
	DeleteRole(ctx context.Context, roleID uint) error
	GetRole(ctx context.Context, roleID uint) (*dto.RoleDTO, error)
	ListRoles(ctx context.Context, query rbacapp.ListRolesQuery) ([]*dto.RoleDTO, int64, error)
	CopyPermissions(ctx context.Context, fromRoleID, toRoleID uint, overwrite bool) (*dto.CopyResult, error)
	PermissionMatrix(ctx context.Context, roleID uint) (*dto.MatrixDTO, error)
	PermissionSummary(ctx context.Context, roleID uint) (*dto.PermissionSummary, error)
	GrantTemplate(ctx context.Context, roleID uint, templateName string) (*dto.BulkResult, error)
}

type grantManager interface {
	Grant(ctx context.Context, cmd rbacapp.GrantCommand) (*dto.GrantDTO, error)
	SetGrantFlag(ctx context.Context, roleID uint, resource, action string, isGranted bool) (*dto.GrantDTO, error)
	RevokeCode(ctx context.Context, roleID uint, code string) error
	BulkGrant(ctx context.Context, roleID uint, inputs []dto.PairInput) (*dto.BulkResult, error)
	BulkRevoke(ctx context.Context, roleID uint, inputs []dto.PairInput) (*dto.BulkRevokeResult, error)
	ListByRole(ctx context.Context, roleID uint) ([]*dto.GrantDTO, error)
	UpdateConditions(ctx context.Context, roleID uint, code string, conditions json.RawMessage) (*dto.GrantDTO, error)
}

type permissionChecker interface {
	Check(ctx context.Context, roleID uint, resource, action string) (*dto.CheckResult, error)
}

type templateCatalog interface {
	ListTemplates() *dto.TemplateListDTO
	DescribeTemplate(name string) (*dto.TemplateDTO, error)
	DeriveTemplate(cmd rbacapp.DeriveTemplateCommand) (*dto.TemplateDTO, error)
	AvailablePermissions() *dto.AvailablePermissionsDTO
}
