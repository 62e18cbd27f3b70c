package permission

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	apperrors "github.com/wardgate/wardgate/internal/shared/errors"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestAdminService_CreateRoleFromTemplate(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	role, err := s.admin.CreateRoleFromTemplate(ctx, CreateRoleFromTemplateCommand{
		RoleName:     "Cardiology Lead",
		TemplateName: "doctor",
		Description:  "Runs the **cardiology** ward",
	})
	require.NoError(t, err)
	assert.Equal(t, "CARDIOLOGY_LEAD", role.Code)
	assert.Equal(t, string(permission.RoleTypeCustom), role.RoleType)
	assert.Equal(t, permission.LevelCustom, role.Level)
	assert.Len(t, role.Permissions, 20)
	assert.Equal(t, 20, role.Created)
	assert.Contains(t, role.DescriptionHTML, "<strong>cardiology</strong>")

	_, err = s.admin.CreateRoleFromTemplate(ctx, CreateRoleFromTemplateCommand{RoleName: "Cardiology Lead", TemplateName: "DOCTOR"})
	assert.ErrorIs(t, err, permission.ErrRoleCodeTaken)
	assert.True(t, apperrors.IsConflictError(err))

	_, err = s.admin.CreateRoleFromTemplate(ctx, CreateRoleFromTemplateCommand{RoleName: "Astronaut", TemplateName: "ASTRONAUT"})
	assert.ErrorIs(t, err, permission.ErrUnknownTemplate)
	assert.True(t, apperrors.IsValidationError(err))

	exists, err := s.roles.ExistsByCode(ctx, "ASTRONAUT")
	require.NoError(t, err)
	assert.False(t, exists, "unknown template leaves no role behind")
}

func TestAdminService_CardiologyLeadScenario(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	_, err := s.seeder.Seed(ctx)
	require.NoError(t, err)

	lead, err := s.admin.CreateRoleFromTemplate(ctx, CreateRoleFromTemplateCommand{RoleName: "Cardiology Lead", TemplateName: "DOCTOR"})
	require.NoError(t, err)
	s.grant(t, lead.ID, "billing", "read")

	result, err := s.authorizer.CheckByCode(ctx, "cardiology_lead", "billing", "read")
	require.NoError(t, err)
	assert.True(t, result.HasPermission)
	assert.Equal(t, "billing:read", result.PermissionCode)

	result, err = s.authorizer.CheckByCode(ctx, "CARDIOLOGY_LEAD", "users", "delete")
	require.NoError(t, err)
	assert.False(t, result.HasPermission)

	result, err = s.authorizer.CheckByCode(ctx, "CARDIOLOGY_LEAD", "prescriptions", "create")
	require.NoError(t, err)
	assert.True(t, result.HasPermission, "inherited from the doctor template")
}

func TestAdminService_CreateRole(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	role, err := s.admin.CreateRole(ctx, CreateRoleCommand{Name: "<b>Night</b> Porter", Level: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, "Night Porter", role.Name, "markup is stripped from names")
	assert.Equal(t, "NIGHT_PORTER", role.Code)
	assert.Equal(t, 10, role.Level)
	assert.Equal(t, string(permission.RoleStatusActive), role.Status)

	_, err = s.admin.CreateRole(ctx, CreateRoleCommand{Name: "Boss", Level: intPtr(100)})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = s.admin.CreateRole(ctx, CreateRoleCommand{Name: "   "})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = s.admin.CreateRole(ctx, CreateRoleCommand{Name: "Porter", Code: "NIGHT_PORTER"})
	assert.ErrorIs(t, err, permission.ErrRoleCodeTaken)
}

func TestAdminService_UpdateRole(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	_, err := s.seeder.Seed(ctx)
	require.NoError(t, err)

	custom := s.createRole(t, "Triage")
	updated, err := s.admin.UpdateRole(ctx, custom.ID, UpdateRoleCommand{
		Name:        strPtr("Triage Desk"),
		Description: strPtr("front of *house*"),
		Level:       intPtr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "Triage Desk", updated.Name)
	assert.Equal(t, "TRIAGE", updated.Code, "code is immutable")
	assert.Equal(t, 20, updated.Level)
	assert.Contains(t, updated.DescriptionHTML, "<em>house</em>")

	doctor, err := s.roles.GetByCode(ctx, "DOCTOR")
	require.NoError(t, err)
	require.NotNil(t, doctor)

	_, err = s.admin.UpdateRole(ctx, doctor.ID(), UpdateRoleCommand{Level: intPtr(10)})
	assert.True(t, apperrors.IsValidationError(err), "system role levels are fixed")

	renamed, err := s.admin.UpdateRole(ctx, doctor.ID(), UpdateRoleCommand{Name: strPtr("Physician")})
	require.NoError(t, err)
	assert.Equal(t, permission.LevelSystem, renamed.Level)

	_, err = s.admin.UpdateRole(ctx, 999, UpdateRoleCommand{Name: strPtr("x")})
	assert.ErrorIs(t, err, permission.ErrRoleNotFound)
}

func TestAdminService_SetRoleStatus(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	role := s.createRole(t, "Triage")
	s.grant(t, role.ID, "patients", "read")
	require.True(t, s.allowed(t, role.ID, "patients", "read"))

	updated, err := s.admin.SetRoleStatus(ctx, role.ID, "inactive")
	require.NoError(t, err)
	assert.Equal(t, string(permission.RoleStatusInactive), updated.Status)

	result, err := s.authorizer.Check(ctx, role.ID, "patients", "read")
	require.NoError(t, err)
	assert.False(t, result.HasPermission)
	assert.Equal(t, MsgRoleInactive, result.Message)

	_, err = s.admin.SetRoleStatus(ctx, role.ID, "active")
	require.NoError(t, err)
	assert.True(t, s.allowed(t, role.ID, "patients", "read"), "grants survive deactivation")

	_, err = s.admin.SetRoleStatus(ctx, role.ID, "sleeping")
	assert.ErrorIs(t, err, permission.ErrInvalidRoleStatus)
}

func TestAdminService_DeleteRole(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	role := s.createRole(t, "Triage")
	s.grant(t, role.ID, "patients", "read")
	require.True(t, s.allowed(t, role.ID, "patients", "read"))

	require.NoError(t, s.admin.DeleteRole(ctx, role.ID))

	_, err := s.authorizer.Check(ctx, role.ID, "patients", "read")
	assert.ErrorIs(t, err, permission.ErrRoleNotFound)

	grants, err := s.grants.ListByRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Empty(t, grants)

	assert.ErrorIs(t, s.admin.DeleteRole(ctx, role.ID), permission.ErrRoleNotFound)
}

func TestAdminService_ListRoles(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	_, err := s.seeder.Seed(ctx)
	require.NoError(t, err)
	triage := s.createRole(t, "Triage")
	_, err = s.admin.SetRoleStatus(ctx, triage.ID, "inactive")
	require.NoError(t, err)

	all, total, err := s.admin.ListRoles(ctx, ListRolesQuery{Page: 1, PageSize: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 11, total)
	assert.Len(t, all, 11)

	custom, total, err := s.admin.ListRoles(ctx, ListRolesQuery{RoleType: "custom"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, custom, 1)
	assert.Equal(t, "TRIAGE", custom[0].Code)

	inactive, _, err := s.admin.ListRoles(ctx, ListRolesQuery{Status: "inactive"})
	require.NoError(t, err)
	require.Len(t, inactive, 1)

	byCode, _, err := s.admin.ListRoles(ctx, ListRolesQuery{Code: "doctor"})
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "Doctor", byCode[0].Name)

	_, _, err = s.admin.ListRoles(ctx, ListRolesQuery{RoleType: "robot"})
	assert.ErrorIs(t, err, permission.ErrInvalidRoleType)
}

func TestAdminService_CopyPermissions(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	from := s.createRole(t, "Source")
	to := s.createRole(t, "Target")

	s.grant(t, from.ID, "patients", "read")
	s.grant(t, from.ID, "patients", "list")
	_, err := s.grantSvc.Grant(ctx, GrantCommand{
		RoleID:     from.ID,
		Resource:   "billing",
		Action:     "read",
		Conditions: json.RawMessage(`{"own":true}`),
	})
	require.NoError(t, err)

	result, err := s.admin.CopyPermissions(ctx, from.ID, to.ID, false)
	require.NoError(t, err)
	assert.Equal(t, &dto.CopyResult{FromRoleID: from.ID, ToRoleID: to.ID, Copied: 3}, result)
	assert.True(t, s.allowed(t, to.ID, "billing", "read"))

	again, err := s.admin.CopyPermissions(ctx, from.ID, to.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Skipped)
	grants, err := s.grantSvc.ListByRole(ctx, to.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 3, "re-running a copy never duplicates rows")

	_, err = s.grantSvc.SetGrantFlag(ctx, to.ID, "billing", "read", false)
	require.NoError(t, err)
	assert.False(t, s.allowed(t, to.ID, "billing", "read"))

	overwritten, err := s.admin.CopyPermissions(ctx, from.ID, to.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 3, overwritten.Overwritten)
	assert.True(t, s.allowed(t, to.ID, "billing", "read"))

	check, err := s.authorizer.Check(ctx, to.ID, "billing", "read")
	require.NoError(t, err)
	assert.JSONEq(t, `{"own":true}`, string(check.Conditions))

	_, err = s.admin.CopyPermissions(ctx, from.ID, from.ID, false)
	assert.ErrorIs(t, err, permission.ErrSameRole)
	assert.True(t, apperrors.IsValidationError(err))

	_, err = s.admin.CopyPermissions(ctx, from.ID, 999, false)
	assert.ErrorIs(t, err, permission.ErrRoleNotFound)
}

func TestAdminService_PermissionMatrix(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")
	s.grant(t, role.ID, "patients", "read")

	matrix, err := s.admin.PermissionMatrix(context.Background(), role.ID)
	require.NoError(t, err)
	assert.Equal(t, "TRIAGE", matrix.RoleCode)
	assert.Len(t, matrix.Matrix, 25)

	trues := 0
	for resource, row := range matrix.Matrix {
		assert.Len(t, row, 9, resource)
		for _, granted := range row {
			if granted {
				trues++
			}
		}
	}
	assert.Equal(t, 1, trues)
	assert.True(t, matrix.Matrix["patients"]["read"])
}

func TestAdminService_PermissionSummary(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	role := s.createRole(t, "Triage")
	s.grant(t, role.ID, "patients", "read")
	s.grant(t, role.ID, "patients", "list")
	s.grant(t, role.ID, "appointments", "read")
	_, err := s.grantSvc.SetGrantFlag(ctx, role.ID, "billing", "export", false)
	require.NoError(t, err)

	summary, err := s.admin.PermissionSummary(ctx, role.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.GrantedCount)
	assert.Equal(t, 1, summary.DeniedCount)
	assert.Equal(t, map[string]int{"patients": 2, "appointments": 1}, summary.ByResource)
	assert.Equal(t, map[string]int{"read": 2, "list": 1}, summary.ByAction)
}

func TestAdminService_GrantTemplate(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	role := s.createRole(t, "Front Desk")
	s.grant(t, role.ID, "patients", "read")

	result, err := s.admin.GrantTemplate(ctx, role.ID, "receptionist")
	require.NoError(t, err)
	assert.Equal(t, &dto.BulkResult{Created: 11, Skipped: 1}, result)
	assert.True(t, s.allowed(t, role.ID, "payments", "create"))

	_, err = s.admin.GrantTemplate(ctx, role.ID, "ASTRONAUT")
	assert.ErrorIs(t, err, permission.ErrUnknownTemplate)

	_, err = s.admin.GrantTemplate(ctx, 999, "NURSE")
	assert.ErrorIs(t, err, permission.ErrRoleNotFound)
}
