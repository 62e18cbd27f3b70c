package permission

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardgate/wardgate/internal/domain/permission"
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
	"github.com/wardgate/wardgate/internal/infrastructure/cache"
	"github.com/wardgate/wardgate/internal/infrastructure/metrics"
	apperrors "github.com/wardgate/wardgate/internal/shared/errors"
)

func testRole(t *testing.T, id uint, code string, status permission.RoleStatus) *permission.Role {
	t.Helper()
	now := time.Now()
	role, err := permission.ReconstructRole(id, code, code, "", permission.RoleTypeCustom, permission.LevelCustom, status, now, now)
	require.NoError(t, err)
	return role
}

func testGrant(t *testing.T, roleID uint, code string, granted bool, conditions json.RawMessage) *permission.RolePermission {
	t.Helper()
	pair, err := vo.ParsePair(code)
	require.NoError(t, err)
	rp, err := permission.NewRolePermission(roleID, pair, granted, conditions)
	require.NoError(t, err)
	return rp
}

func TestAuthorizer_Check(t *testing.T) {
	role := testRole(t, 7, "DOCTOR", permission.RoleStatusActive)
	grants := map[string]*permission.RolePermission{
		"patients:read":   testGrant(t, 7, "patients:read", true, json.RawMessage(`{"own_ward":true}`)),
		"patients:delete": testGrant(t, 7, "patients:delete", false, nil),
	}

	tests := []struct {
		name         string
		resource     string
		action       string
		wantAllowed  bool
		wantCode     string
		wantMessage  string
		wantDeny     bool
		wantCondJSON string
	}{
		{"granted", "patients", "read", true, "patients:read", MsgGranted, false, `{"own_ward":true}`},
		{"inputs are case-insensitive", " PATIENTS ", "Read", true, "patients:read", MsgGranted, false, `{"own_ward":true}`},
		{"explicit deny", "patients", "delete", false, "patients:delete", MsgExplicitlyDeny, true, ""},
		{"absent grant", "billing", "read", false, "billing:read", MsgNoGrant, false, ""},
		{"unknown vocabulary is not an error", "spaceships", "fly", false, "spaceships:fly", MsgNoGrant, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := &mockRoleRepository{
				GetByIDFunc: func(ctx context.Context, id uint) (*permission.Role, error) { return role, nil },
			}
			repo := &mockGrantRepository{
				GetFunc: func(ctx context.Context, roleID uint, code string) (*permission.RolePermission, error) {
					return grants[code], nil
				},
			}
			authorizer := NewAuthorizer(roles, repo, cache.NoopCheckCache{}, nil, &mockLogger{})

			result, err := authorizer.Check(context.Background(), 7, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, result.HasPermission)
			assert.Equal(t, tt.wantCode, result.PermissionCode)
			assert.Equal(t, tt.wantMessage, result.Message)
			assert.Equal(t, tt.wantDeny, result.ExplicitDeny)
			if tt.wantCondJSON != "" {
				assert.JSONEq(t, tt.wantCondJSON, string(result.Conditions))
			} else {
				assert.Empty(t, result.Conditions)
			}
		})
	}
}

func TestAuthorizer_Check_RoleNotFound(t *testing.T) {
	registry := prometheus.NewRegistry()
	collectors := metrics.NewCollectors(registry)
	authorizer := NewAuthorizer(&mockRoleRepository{}, &mockGrantRepository{}, cache.NoopCheckCache{}, collectors, &mockLogger{})

	result, err := authorizer.Check(context.Background(), 404, "patients", "read")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, permission.ErrRoleNotFound)
	assert.True(t, apperrors.IsNotFoundError(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(collectors.ChecksTotal.WithLabelValues(metrics.OutcomeRoleNotFound)))

	_, err = authorizer.CheckByCode(context.Background(), "ghost", "patients", "read")
	assert.ErrorIs(t, err, permission.ErrRoleNotFound)
}

func TestAuthorizer_Check_InactiveRoleIsDenied(t *testing.T) {
	role := testRole(t, 3, "NURSE", permission.RoleStatusInactive)
	roles := &mockRoleRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*permission.Role, error) { return role, nil },
	}
	repo := &mockGrantRepository{
		GetFunc: func(ctx context.Context, roleID uint, code string) (*permission.RolePermission, error) {
			return testGrant(t, 3, code, true, nil), nil
		},
	}
	authorizer := NewAuthorizer(roles, repo, cache.NoopCheckCache{}, nil, &mockLogger{})

	result, err := authorizer.Check(context.Background(), 3, "patients", "read")
	require.NoError(t, err)
	assert.False(t, result.HasPermission)
	assert.Equal(t, MsgRoleInactive, result.Message)
	assert.Zero(t, repo.getCalls)
}

func TestAuthorizer_Check_RepositoryErrors(t *testing.T) {
	boom := errors.New("connection reset")

	roles := &mockRoleRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*permission.Role, error) { return nil, boom },
	}
	authorizer := NewAuthorizer(roles, &mockGrantRepository{}, cache.NoopCheckCache{}, nil, &mockLogger{})
	_, err := authorizer.Check(context.Background(), 1, "patients", "read")
	assert.ErrorIs(t, err, boom)

	role := testRole(t, 1, "DOCTOR", permission.RoleStatusActive)
	roles = &mockRoleRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*permission.Role, error) { return role, nil },
	}
	repo := &mockGrantRepository{
		GetFunc: func(ctx context.Context, roleID uint, code string) (*permission.RolePermission, error) { return nil, boom },
	}
	authorizer = NewAuthorizer(roles, repo, cache.NoopCheckCache{}, nil, &mockLogger{})
	_, err = authorizer.Check(context.Background(), 1, "patients", "read")
	assert.ErrorIs(t, err, boom)
}

func TestAuthorizer_Check_UsesCache(t *testing.T) {
	role := testRole(t, 9, "PHARMACIST", permission.RoleStatusActive)
	roles := &mockRoleRepository{
		GetByIDFunc:   func(ctx context.Context, id uint) (*permission.Role, error) { return role, nil },
		GetByCodeFunc: func(ctx context.Context, code string) (*permission.Role, error) { return role, nil },
	}
	repo := &mockGrantRepository{
		GetFunc: func(ctx context.Context, roleID uint, code string) (*permission.RolePermission, error) {
			return testGrant(t, 9, code, true, nil), nil
		},
	}
	registry := prometheus.NewRegistry()
	collectors := metrics.NewCollectors(registry)
	checkCache := cache.NewMemoryCheckCache(16, time.Minute)
	authorizer := NewAuthorizer(roles, repo, checkCache, collectors, &mockLogger{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := authorizer.Check(ctx, 9, "pharmacy", "read")
		require.NoError(t, err)
		assert.True(t, result.HasPermission)
	}
	assert.Equal(t, 1, roles.getByIDCalls)
	assert.Equal(t, 1, repo.getCalls)
	assert.Equal(t, 2.0, testutil.ToFloat64(collectors.CacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(collectors.CacheMissesTotal))

	result, err := authorizer.CheckByCode(ctx, "pharmacist", "PHARMACY", "read")
	require.NoError(t, err)
	assert.True(t, result.HasPermission)
	assert.Equal(t, 1, repo.getCalls, "code lookups share the role's cache entries")

	checkCache.InvalidateRole(ctx, 9)
	_, err = authorizer.Check(ctx, 9, "pharmacy", "read")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCalls)
}
