package permission

import (
	"context"
	"strings"
	"time"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
	"github.com/wardgate/wardgate/internal/infrastructure/metrics"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

const (
	MsgNoGrant        = "no grant found"
	MsgGranted        = "permission granted"
	MsgExplicitlyDeny = "permission explicitly denied"
	MsgRoleInactive   = "role is inactive"
)

// Authorizer answers whether a role may perform an action on a resource. It is
// read-only and safe for concurrent use.
type Authorizer struct {
	roles   permission.RoleRepository
	grants  permission.RolePermissionRepository
	cache   permission.CheckCache
	metrics *metrics.Collectors
	logger  logger.Interface
}

func NewAuthorizer(
	roles permission.RoleRepository,
	grants permission.RolePermissionRepository,
	cache permission.CheckCache,
	collectors *metrics.Collectors,
	logger logger.Interface,
) *Authorizer {
	return &Authorizer{
		roles:   roles,
		grants:  grants,
		cache:   cache,
		metrics: collectors,
		logger:  logger,
	}
}

// Check evaluates the grant of roleID for resource:action. A missing grant is a normal
// deny result; only a missing role is an error.
func (a *Authorizer) Check(ctx context.Context, roleID uint, resource, action string) (*dto.CheckResult, error) {
	start := time.Now()
	code := normalizeCode(resource, action)

	if entry, ok := a.cache.Get(ctx, roleID, code); ok {
		a.metrics.CacheHit()
		return a.finish(code, entry, start), nil
	}
	a.metrics.CacheMiss()

	role, err := a.roles.GetByID(ctx, roleID)
	if err != nil {
		a.metrics.ObserveCheck(metrics.OutcomeError, time.Since(start))
		a.logger.Errorw("failed to load role for authorization check", "role_id", roleID, "error", err)
		return nil, err
	}
	if role == nil {
		a.metrics.ObserveCheck(metrics.OutcomeRoleNotFound, time.Since(start))
		a.logger.Warnw("authorization check for unknown role", "role_id", roleID, "permission_code", code)
		return nil, roleNotFound(roleID)
	}

	return a.evaluate(ctx, role, code, start)
}

// CheckByCode resolves the role by its code first. This is the form used by callers
// that only carry the role code, such as the HTTP permission middleware.
func (a *Authorizer) CheckByCode(ctx context.Context, roleCode, resource, action string) (*dto.CheckResult, error) {
	start := time.Now()
	code := normalizeCode(resource, action)
	roleCode = strings.ToUpper(strings.TrimSpace(roleCode))

	role, err := a.roles.GetByCode(ctx, roleCode)
	if err != nil {
		a.metrics.ObserveCheck(metrics.OutcomeError, time.Since(start))
		a.logger.Errorw("failed to load role for authorization check", "role_code", roleCode, "error", err)
		return nil, err
	}
	if role == nil {
		a.metrics.ObserveCheck(metrics.OutcomeRoleNotFound, time.Since(start))
		a.logger.Warnw("authorization check for unknown role", "role_code", roleCode, "permission_code", code)
		return nil, roleNotFound(roleCode)
	}

	if entry, ok := a.cache.Get(ctx, role.ID(), code); ok {
		a.metrics.CacheHit()
		return a.finish(code, entry, start), nil
	}
	a.metrics.CacheMiss()

	return a.evaluate(ctx, role, code, start)
}

func (a *Authorizer) evaluate(ctx context.Context, role *permission.Role, code string, start time.Time) (*dto.CheckResult, error) {
	entry := &permission.CachedCheck{RoleActive: role.IsActive()}

	if entry.RoleActive {
		grant, err := a.grants.Get(ctx, role.ID(), code)
		if err != nil {
			a.metrics.ObserveCheck(metrics.OutcomeError, time.Since(start))
			a.logger.Errorw("failed to load grant", "role_id", role.ID(), "permission_code", code, "error", err)
			return nil, err
		}
		if grant != nil {
			entry.Found = true
			entry.Granted = grant.IsGranted()
			entry.Conditions = grant.Conditions()
		}
	}

	a.cache.Set(ctx, role.ID(), code, entry)
	return a.finish(code, entry, start), nil
}

func (a *Authorizer) finish(code string, entry *permission.CachedCheck, start time.Time) *dto.CheckResult {
	result := &dto.CheckResult{PermissionCode: code}

	var outcome string
	switch {
	case !entry.RoleActive:
		result.Message = MsgRoleInactive
		outcome = metrics.OutcomeRoleInactive
	case !entry.Found:
		result.Message = MsgNoGrant
		outcome = metrics.OutcomeNoGrant
	case entry.Granted:
		result.HasPermission = true
		result.Conditions = entry.Conditions
		result.Message = MsgGranted
		outcome = metrics.OutcomeGranted
	default:
		result.ExplicitDeny = true
		result.Conditions = entry.Conditions
		result.Message = MsgExplicitlyDeny
		outcome = metrics.OutcomeDenied
	}

	a.metrics.ObserveCheck(outcome, time.Since(start))
	return result
}

func normalizeCode(resource, action string) string {
	return vo.EncodeCode(strings.TrimSpace(resource), strings.TrimSpace(action))
}
