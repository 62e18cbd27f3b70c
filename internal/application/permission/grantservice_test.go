package permission

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	apperrors "github.com/wardgate/wardgate/internal/shared/errors"
)

func TestGrantService_GrantCheckRevoke(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")

	assert.False(t, s.allowed(t, role.ID, "patients", "read"), "default deny")

	s.grant(t, role.ID, "Patients", "READ")
	assert.True(t, s.allowed(t, role.ID, "patients", "read"))

	require.NoError(t, s.grantSvc.Revoke(context.Background(), role.ID, "patients", "read"))
	assert.False(t, s.allowed(t, role.ID, "patients", "read"))

	result, err := s.authorizer.Check(context.Background(), role.ID, "patients", "read")
	require.NoError(t, err)
	assert.Equal(t, MsgNoGrant, result.Message)
}

func TestGrantService_Grant_Duplicate(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")
	s.grant(t, role.ID, "patients", "read")

	_, err := s.grantSvc.Grant(context.Background(), GrantCommand{RoleID: role.ID, Resource: "patients", Action: "read"})
	require.Error(t, err)
	assert.ErrorIs(t, err, permission.ErrDuplicateGrant)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestGrantService_Grant_Validation(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")
	ctx := context.Background()

	_, err := s.grantSvc.Grant(ctx, GrantCommand{RoleID: role.ID, Resource: "spaceships", Action: "read"})
	assert.ErrorIs(t, err, permission.ErrInvalidResource)
	assert.True(t, apperrors.IsValidationError(err))

	_, err = s.grantSvc.Grant(ctx, GrantCommand{RoleID: role.ID, Resource: "patients", Action: "fly"})
	assert.ErrorIs(t, err, permission.ErrInvalidAction)

	_, err = s.grantSvc.Grant(ctx, GrantCommand{RoleID: role.ID, Resource: "patients", Action: "read", Conditions: json.RawMessage(`{oops`)})
	assert.ErrorIs(t, err, permission.ErrInvalidConditions)

	_, err = s.grantSvc.Grant(ctx, GrantCommand{RoleID: 999, Resource: "patients", Action: "read"})
	assert.ErrorIs(t, err, permission.ErrRoleNotFound)
}

func TestGrantService_Grant_ExplicitDeny(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")
	denied := false

	_, err := s.grantSvc.Grant(context.Background(), GrantCommand{RoleID: role.ID, Resource: "billing", Action: "export", IsGranted: &denied})
	require.NoError(t, err)

	result, err := s.authorizer.Check(context.Background(), role.ID, "billing", "export")
	require.NoError(t, err)
	assert.False(t, result.HasPermission)
	assert.True(t, result.ExplicitDeny)
	assert.Equal(t, MsgExplicitlyDeny, result.Message)
}

func TestGrantService_Grant_ConcurrentDuplicates(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.grantSvc.Grant(context.Background(), GrantCommand{RoleID: role.ID, Resource: "patients", Action: "read"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, permission.ErrDuplicateGrant):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	grants, err := s.grantSvc.ListByRole(context.Background(), role.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}

func TestGrantService_SetGrantFlag_Idempotent(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")
	ctx := context.Background()

	first, err := s.grantSvc.SetGrantFlag(ctx, role.ID, "patients", "read", true)
	require.NoError(t, err)
	second, err := s.grantSvc.SetGrantFlag(ctx, role.ID, "patients", "read", true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	grants, err := s.grantSvc.ListByRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 1)

	_, err = s.grantSvc.UpdateConditions(ctx, role.ID, "patients:read", json.RawMessage(`{"ward":"7"}`))
	require.NoError(t, err)

	flipped, err := s.grantSvc.SetGrantFlag(ctx, role.ID, "patients", "read", false)
	require.NoError(t, err)
	assert.False(t, flipped.IsGranted)
	assert.JSONEq(t, `{"ward":"7"}`, string(flipped.Conditions), "flag changes keep conditions")
	assert.False(t, s.allowed(t, role.ID, "patients", "read"))

	grants, err = s.grantSvc.ListByRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 1)
}

func TestGrantService_SetGrantFlag_DenyNewRow(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Night Porter")
	ctx := context.Background()

	denied, err := s.grantSvc.SetGrantFlag(ctx, role.ID, "patients", "read", false)
	require.NoError(t, err)
	assert.False(t, denied.IsGranted)

	stored, err := s.grants.Get(ctx, role.ID, "patients:read")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsGranted())

	result, err := s.authorizer.Check(ctx, role.ID, "patients", "read")
	require.NoError(t, err)
	assert.False(t, result.HasPermission)
	assert.True(t, result.ExplicitDeny)

	_, err = s.grantSvc.SetGrantFlag(ctx, role.ID, "patients", "read", true)
	require.NoError(t, err)
	assert.True(t, s.allowed(t, role.ID, "patients", "read"))
}

func TestGrantService_Revoke_Absent(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")

	assert.NoError(t, s.grantSvc.Revoke(context.Background(), role.ID, "patients", "read"))
	assert.NoError(t, s.grantSvc.RevokeCode(context.Background(), role.ID, "patients:read"))
	assert.ErrorIs(t, s.grantSvc.RevokeCode(context.Background(), role.ID, "patients"), permission.ErrMalformedCode)
}

func TestGrantService_BulkGrantAndRevoke(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")
	ctx := context.Background()
	s.grant(t, role.ID, "patients", "read")

	result, err := s.grantSvc.BulkGrant(ctx, role.ID, []dto.PairInput{
		{Resource: "patients", Action: "read"},
		{Resource: "patients", Action: "list"},
		{Resource: "appointments", Action: "read"},
		{Resource: "patients", Action: "list"},
	})
	require.NoError(t, err)
	assert.Equal(t, &dto.BulkResult{Created: 2, Skipped: 2}, result)
	assert.True(t, s.allowed(t, role.ID, "appointments", "read"))

	_, err = s.grantSvc.BulkGrant(ctx, role.ID, []dto.PairInput{{Resource: "patients", Action: "read"}, {Resource: "nope", Action: "read"}})
	assert.ErrorIs(t, err, permission.ErrInvalidResource)

	_, err = s.grantSvc.BulkGrant(ctx, role.ID, nil)
	assert.True(t, apperrors.IsValidationError(err))

	revoked, err := s.grantSvc.BulkRevoke(ctx, role.ID, []dto.PairInput{
		{Resource: "patients", Action: "read"},
		{Resource: "billing", Action: "read"},
	})
	require.NoError(t, err)
	assert.Equal(t, &dto.BulkRevokeResult{Removed: 1, Skipped: 1}, revoked)
	assert.False(t, s.allowed(t, role.ID, "patients", "read"))

	grants, err := s.grantSvc.ListByRole(ctx, role.ID)
	require.NoError(t, err)
	assert.Len(t, grants, 2)
}

func TestGrantService_UpdateConditions(t *testing.T) {
	s := newTestStack(t)
	role := s.createRole(t, "Triage")
	ctx := context.Background()
	s.grant(t, role.ID, "patients", "read")

	updated, err := s.grantSvc.UpdateConditions(ctx, role.ID, "PATIENTS:read", json.RawMessage(`{"department":"cardiology"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"department":"cardiology"}`, string(updated.Conditions))

	result, err := s.authorizer.Check(ctx, role.ID, "patients", "read")
	require.NoError(t, err)
	assert.JSONEq(t, `{"department":"cardiology"}`, string(result.Conditions))

	cleared, err := s.grantSvc.UpdateConditions(ctx, role.ID, "patients:read", nil)
	require.NoError(t, err)
	assert.Empty(t, cleared.Conditions)

	_, err = s.grantSvc.UpdateConditions(ctx, role.ID, "billing:read", nil)
	assert.ErrorIs(t, err, permission.ErrGrantNotFound)
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = s.grantSvc.UpdateConditions(ctx, role.ID, "patients:read", json.RawMessage(`[1,`))
	assert.ErrorIs(t, err, permission.ErrInvalidConditions)
}
