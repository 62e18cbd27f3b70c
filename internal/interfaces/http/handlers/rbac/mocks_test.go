package rbac

import (
	"context"
	"encoding/json"

	rbacapp "github.com/wardgate/wardgate/internal/application/permission"
	"github.com/wardgate/wardgate/internal/application/permission/dto"
)

type mockRoleAdmin struct {
	createRoleFn func(cmd rbacapp.CreateRoleCommand) (*dto.RoleDTO, error)
	fromTemplateFn func(cmd rbacapp.CreateRoleFromTemplateCommand) (*dto.RoleWithGrantsDTO, error)
	updateRoleFn func(roleID uint, cmd rbacapp.UpdateRoleCommand) (*dto.RoleDTO, error)
	setStatusFn func(roleID uint, status string) (*dto.RoleDTO, error)
	deleteRoleFn func(roleID uint) error
	getRoleFn func(roleID uint) (*dto.RoleDTO, error)
	listRolesFn func(query rbacapp.ListRolesQuery) ([]*dto.RoleDTO, int64, error)
	copyFn func(from, to uint, overwrite bool) (*dto.CopyResult, error)
	matrixFn func(roleID uint) (*dto.MatrixDTO, error)
	summaryFn func(roleID uint) (*dto.PermissionSummary, error)
	grantTemplateFn func(roleID uint, name string) (*dto.BulkResult, error)
}

func (m *mockRoleAdmin) CreateRole(_ context.Context, cmd rbacapp.CreateRoleCommand) (*dto.RoleDTO, error) {
	return m.createRoleFn(cmd)
}

func (m *mockRoleAdmin) CreateRoleFromTemplate(_ context.Context, cmd rbacapp.CreateRoleFromTemplateCommand) (*dto.RoleWithGrantsDTO, error) {
	return m.fromTemplateFn(cmd)
}

func (m *mockRoleAdmin) UpdateRole(_ context.Context, roleID uint, cmd rbacapp.UpdateRoleCommand) (*dto.RoleDTO, error) {
	return m.updateRoleFn(roleID, cmd)
}

func (m *mockRoleAdmin) SetRoleStatus(_ context.Context, roleID uint, status string) (*dto.RoleDTO, error) {
	return m.setStatusFn(roleID, status)
}

func (m *mockRoleAdmin) DeleteRole(_ context.Context, roleID uint) error {
	return m.deleteRoleFn(roleID)
}

func (m *mockRoleAdmin) GetRole(_ context.Context, roleID uint) (*dto.RoleDTO, error) {
	return m.getRoleFn(roleID)
}

func (m *mockRoleAdmin) ListRoles(_ context.Context, query rbacapp.ListRolesQuery) ([]*dto.RoleDTO, int64, error) {
	return m.listRolesFn(query)
}

func (m *mockRoleAdmin) CopyPermissions(_ context.Context, from, to uint, overwrite bool) (*dto.CopyResult, error) {
	return m.copyFn(from, to, overwrite)
}

func (m *mockRoleAdmin) PermissionMatrix(_ context.Context, roleID uint) (*dto.MatrixDTO, error) {
	return m.matrixFn(roleID)
}

func (m *mockRoleAdmin) PermissionSummary(_ context.Context, roleID uint) (*dto.PermissionSummary, error) {
	return m.summaryFn(roleID)
}

func (m *mockRoleAdmin) GrantTemplate(_ context.Context, roleID uint, name string) (*dto.BulkResult, error) {
	return m.grantTemplateFn(roleID, name)
}

type mockGrantManager struct {
	grantFn func(cmd rbacapp.GrantCommand) (*dto.GrantDTO, error)
	setFlagFn func(roleID uint, resource, action string, isGranted bool) (*dto.GrantDTO, error)
	revokeCodeFn func(roleID uint, code string) error
	bulkGrantFn func(roleID uint, inputs []dto.PairInput) (*dto.BulkResult, error)
	bulkRevokeFn func(roleID uint, inputs []dto.PairInput) (*dto.BulkRevokeResult, error)
	listByRoleFn func(roleID uint) ([]*dto.GrantDTO, error)
	updateConditionsFn func(roleID uint, code string, conditions json.RawMessage) (*dto.GrantDTO, error)
}

func (m *mockGrantManager) Grant(_ context.Context, cmd rbacapp.GrantCommand) (*dto.GrantDTO, error) {
	return m.grantFn(cmd)
}

func (m *mockGrantManager) SetGrantFlag(_ context.Context, roleID uint, resource, action string, isGranted bool) (*dto.GrantDTO, error) {
	return m.setFlagFn(roleID, resource, action, isGranted)
}

func (m *mockGrantManager) RevokeCode(_ context.Context, roleID uint, code string) error {
	return m.revokeCodeFn(roleID, code)
}

func (m *mockGrantManager) BulkGrant(_ context.Context, roleID uint, inputs []dto.PairInput) (*dto.BulkResult, error) {
	return m.bulkGrantFn(roleID, inputs)
}

func (m *mockGrantManager) BulkRevoke(_ context.Context, roleID uint, inputs []dto.PairInput) (*dto.BulkRevokeResult, error) {
	return m.bulkRevokeFn(roleID, inputs)
}

func (m *mockGrantManager) ListByRole(_ context.Context, roleID uint) ([]*dto.GrantDTO, error) {
	return m.listByRoleFn(roleID)
}

func (m *mockGrantManager) UpdateConditions(_ context.Context, roleID uint, code string, conditions json.RawMessage) (*dto.GrantDTO, error) {
	return m.updateConditionsFn(roleID, code, conditions)
}

type mockChecker struct {
	checkFn func(roleID uint, resource, action string) (*dto.CheckResult, error)
}

func (m *mockChecker) Check(_ context.Context, roleID uint, resource, action string) (*dto.CheckResult, error) {
	return m.checkFn(roleID, resource, action)
}

type mockTemplates struct {
	describeFn func(name string) (*dto.TemplateDTO, error)
	deriveFn func(cmd rbacapp.DeriveTemplateCommand) (*dto.TemplateDTO, error)
}

func (m *mockTemplates) ListTemplates() *dto.TemplateListDTO {
	return &dto.TemplateListDTO{Templates: []string{"SUPER_ADMIN", "DOCTOR"}, Total: 2}
}

func (m *mockTemplates) DescribeTemplate(name string) (*dto.TemplateDTO, error) {
	return m.describeFn(name)
}

func (m *mockTemplates) DeriveTemplate(cmd rbacapp.DeriveTemplateCommand) (*dto.TemplateDTO, error) {
	return m.deriveFn(cmd)
}

func (m *mockTemplates) AvailablePermissions() *dto.AvailablePermissionsDTO {
	return &dto.AvailablePermissionsDTO{TotalCombinations: 225}
}
