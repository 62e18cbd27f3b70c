package permission

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		name     string
		roleName string
		code     string
		roleType RoleType
		errMsg   string
	}{
		{"valid system role", "Doctor", "doctor", RoleTypeSystem, ""},
		{"valid custom role", "Cardiology Lead", "CARDIOLOGY_LEAD", RoleTypeCustom, ""},
		{"empty name", " ", "X", RoleTypeCustom, "role name is required"},
		{"empty code", "X", "", RoleTypeCustom, "role code is required"},
		{"name too long", strings.Repeat("n", 101), "X", RoleTypeCustom, "role name too long"},
		{"code too long", "X", strings.Repeat("C", 51), RoleTypeCustom, "role code too long"},
		{"bad type", "X", "X", RoleType("builtin"), "invalid role type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := NewRole(tt.roleName, tt.code, tt.roleType, LevelCustom)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.ToUpper(tt.code), role.Code())
			assert.Equal(t, RoleStatusActive, role.Status())
			assert.Equal(t, tt.roleType == RoleTypeSystem, role.IsSystem())
		})
	}
}

func TestRole_StatusTransitions(t *testing.T) {
	role, err := NewRole("Nurse", "NURSE", RoleTypeSystem, LevelSystem)
	require.NoError(t, err)

	role.Deactivate()
	assert.False(t, role.IsActive())

	role.Activate()
	assert.True(t, role.IsActive())

	require.NoError(t, role.SetStatus(RoleStatusInactive))
	assert.Equal(t, RoleStatusInactive, role.Status())

	assert.ErrorIs(t, role.SetStatus("archived"), ErrInvalidRoleStatus)
}

func TestRole_Outranks(t *testing.T) {
	admin, _ := NewRole("Super Admin", "SUPER_ADMIN", RoleTypeSystem, LevelSuperAdmin)
	doctor, _ := NewRole("Doctor", "DOCTOR", RoleTypeSystem, LevelSystem)

	assert.True(t, admin.Outranks(doctor))
	assert.False(t, doctor.Outranks(admin))
	assert.False(t, doctor.Outranks(doctor))
}

func TestRole_SetID(t *testing.T) {
	role, _ := NewRole("Doctor", "DOCTOR", RoleTypeSystem, LevelSystem)
	require.Error(t, role.SetID(0))
	require.NoError(t, role.SetID(7))
	assert.Error(t, role.SetID(8))
	assert.Equal(t, uint(7), role.ID())
}

func TestCodeFromName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Cardiology Lead", "CARDIOLOGY_LEAD"},
		{"CARDIOLOGY_LEAD", "CARDIOLOGY_LEAD"},
		{"  night-shift   nurse ", "NIGHT_SHIFT_NURSE"},
		{"ward 7 / admin", "WARD_7_ADMIN"},
		{"***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, CodeFromName(tt.in))
		})
	}
}

func TestParseRoleStatusAndType(t *testing.T) {
	status, err := ParseRoleStatus(" Inactive")
	require.NoError(t, err)
	assert.Equal(t, RoleStatusInactive, status)

	_, err = ParseRoleStatus("deleted")
	assert.ErrorIs(t, err, ErrInvalidRoleStatus)

	roleType, err := ParseRoleType("SYSTEM")
	require.NoError(t, err)
	assert.Equal(t, RoleTypeSystem, roleType)

	_, err = ParseRoleType("builtin")
	assert.ErrorIs(t, err, ErrInvalidRoleType)
}

func TestNewRolePermission(t *testing.T) {
	pair := vo.MustPair(vo.ResourcePatients, vo.ActionRead)

	t.Run("derives permission code", func(t *testing.T) {
		rp, err := NewRolePermission(1, pair, true, nil)
		require.NoError(t, err)
		assert.Equal(t, "patients:read", rp.Code())
		assert.True(t, rp.IsGranted())
		assert.Nil(t, rp.Conditions())
	})

	t.Run("requires role", func(t *testing.T) {
		_, err := NewRolePermission(0, pair, true, nil)
		assert.Error(t, err)
	})

	t.Run("rejects pair outside vocabulary", func(t *testing.T) {
		_, err := NewRolePermission(1, vo.Pair{Resource: "ufo", Action: vo.ActionRead}, true, nil)
		assert.ErrorIs(t, err, ErrInvalidResource)

		_, err = NewRolePermission(1, vo.Pair{Resource: vo.ResourcePatients, Action: "fly"}, true, nil)
		assert.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("conditions must be JSON", func(t *testing.T) {
		_, err := NewRolePermission(1, pair, true, json.RawMessage(`{"own_only":`))
		assert.ErrorIs(t, err, ErrInvalidConditions)

		rp, err := NewRolePermission(1, pair, true, json.RawMessage(`{"own_only":true}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"own_only":true}`, string(rp.Conditions()))
	})
}

func TestRolePermission_Mutators(t *testing.T) {
	rp, err := NewRolePermission(1, vo.MustPair(vo.ResourceBilling, vo.ActionExport), true, nil)
	require.NoError(t, err)
	created := rp.UpdatedAt()

	time.Sleep(time.Millisecond)
	rp.SetGranted(false)
	assert.False(t, rp.IsGranted())
	assert.True(t, rp.UpdatedAt().After(created))

	require.NoError(t, rp.SetConditions(json.RawMessage(`["weekday"]`)))
	assert.Error(t, rp.SetConditions(json.RawMessage(`nope`)))
	assert.JSONEq(t, `["weekday"]`, string(rp.Conditions()))
	assert.Equal(t, "billing:export", rp.Code())
}
