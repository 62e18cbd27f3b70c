package permission

import (
	"context"
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

var _ permission.PolicyMirror = (*Enforcer)(nil)

// rbacModel matches a role code against mirrored resource/action grants.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Enforcer mirrors the grant table into casbin_rule so that casbin-aware gateways
// can enforce the same decisions.
type Enforcer struct {
	enforcer *casbin.Enforcer
	sync     *PolicySync
	mu       sync.RWMutex
	logger   logger.Interface
}

func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		sync:     NewPolicySync(db, log),
		logger:   log,
	}, nil
}

// Sync rebuilds the mirrored policy from the grant table and reloads it.
func (e *Enforcer) Sync(ctx context.Context) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	count, err := e.sync.Rebuild(ctx)
	if err != nil {
		return 0, err
	}

	if err := e.enforcer.LoadPolicy(); err != nil {
		return 0, fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Infow("casbin policy reloaded", "rules", count)
	return count, nil
}

func (e *Enforcer) Enforce(roleCode, resource, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(roleCode, resource, action)
	if err != nil {
		e.logger.Errorw("policy enforcement failed", "error", err, "role_code", roleCode, "resource", resource, "action", action)
		return false, fmt.Errorf("policy enforcement failed: %w", err)
	}

	return allowed, nil
}

// Policies returns the loaded p rules as [role_code, resource, action] triples.
func (e *Enforcer) Policies() ([][]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules, err := e.enforcer.GetPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	return rules, nil
}
