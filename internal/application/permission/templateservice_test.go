package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	apperrors "github.com/wardgate/wardgate/internal/shared/errors"
)

func TestTemplateService_ListAndDescribe(t *testing.T) {
	svc := NewTemplateService(permission.DefaultRegistry())

	list := svc.ListTemplates()
	assert.Equal(t, 10, list.Total)
	assert.Equal(t, "SUPER_ADMIN", list.Templates[0])

	lab, err := svc.DescribeTemplate("lab_technician")
	require.NoError(t, err)
	assert.Equal(t, "LAB_TECHNICIAN", lab.Name)
	assert.Equal(t, 6, lab.PermissionCount)
	assert.Equal(t, []string{"lab_tests", "patients", "reports"}, lab.DistinctResources)
	assert.Equal(t, []string{"create", "list", "read", "update"}, lab.DistinctActions)
	assert.Contains(t, lab.Permissions, "lab_tests:update")

	_, err = svc.DescribeTemplate("ASTRONAUT")
	assert.ErrorIs(t, err, permission.ErrUnknownTemplate)

	all := svc.DescribeAll()
	assert.Len(t, all, 10)
	assert.Equal(t, 225, all["SUPER_ADMIN"].PermissionCount)
}

func TestTemplateService_DeriveTemplate(t *testing.T) {
	svc := NewTemplateService(permission.DefaultRegistry())

	derived, err := svc.DeriveTemplate(DeriveTemplateCommand{
		Name:      "senior_nurse",
		Base:      "NURSE",
		Additions: []dto.PairInput{{Resource: "wards", Action: "update"}, {Resource: "patients", Action: "read"}},
		Removals:  []dto.PairInput{{Resource: "beds", Action: "update"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SENIOR_NURSE", derived.Name)
	assert.Equal(t, 13, derived.PermissionCount)
	assert.Contains(t, derived.Permissions, "wards:update")
	assert.NotContains(t, derived.Permissions, "beds:update")

	assert.Equal(t, 10, svc.ListTemplates().Total, "derivation does not register")

	_, err = svc.DeriveTemplate(DeriveTemplateCommand{Name: "x", Base: "ASTRONAUT"})
	assert.ErrorIs(t, err, permission.ErrUnknownBaseTemplate)

	_, err = svc.DeriveTemplate(DeriveTemplateCommand{Base: "NURSE"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = svc.DeriveTemplate(DeriveTemplateCommand{Name: "x", Base: "NURSE", Additions: []dto.PairInput{{Resource: "rockets", Action: "read"}}})
	assert.ErrorIs(t, err, permission.ErrInvalidResource)
}

func TestTemplateService_AvailablePermissions(t *testing.T) {
	out := NewTemplateService(permission.DefaultRegistry()).AvailablePermissions()
	assert.Len(t, out.Resources, 25)
	assert.Len(t, out.Actions, 9)
	assert.Equal(t, 225, out.TotalCombinations)
	assert.Len(t, out.PermissionTemplates, 10)
}
