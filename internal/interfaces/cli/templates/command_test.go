package templates

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rbacapp "github.com/wardgate/wardgate/internal/application/permission"
	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
)

func newService() *rbacapp.TemplateService {
	return rbacapp.NewTemplateService(permission.DefaultRegistry())
}

func TestList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, newService(), false))

	out := buf.String()
	assert.Contains(t, out, "SUPER_ADMIN")
	assert.Contains(t, out, "225 permissions")
	assert.Contains(t, out, "DOCTOR")
}

func TestList_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, newService(), true))

	var list dto.TemplateListDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	assert.Equal(t, 10, list.Total)
}

func TestShow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Show(&buf, newService(), "lab_technician", false))

	out := buf.String()
	assert.Contains(t, out, "LAB_TECHNICIAN (6 permissions)")
	assert.Contains(t, out, "resources: lab_tests, patients, reports")
	assert.Contains(t, out, "  lab_tests:update\n")
	assert.NotContains(t, out, "lab_tests:create")
}

func TestShow_Unknown(t *testing.T) {
	var buf bytes.Buffer
	err := Show(&buf, newService(), "JANITOR", false)
	assert.ErrorIs(t, err, permission.ErrUnknownTemplate)
}
