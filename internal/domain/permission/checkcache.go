package permission

import (
	"context"
	"encoding/json"
)

// CachedCheck is the stored outcome of one authorization lookup. RoleActive false
// means the role existed but was inactive; Found false means no grant row exists.
type CachedCheck struct {
	RoleActive bool            `json:"role_active"`
	Found      bool            `json:"found"`
	Granted    bool            `json:"granted"`
	Conditions json.RawMessage `json:"conditions,omitempty"`
}

// CheckCache memoises authorization lookups per role. Implementations treat backend
// failures as misses.
type CheckCache interface {
	Get(ctx context.Context, roleID uint, code string) (*CachedCheck, bool)
	Set(ctx context.Context, roleID uint, code string, entry *CachedCheck)
	// InvalidateRole drops every cached result of the role.
	InvalidateRole(ctx context.Context, roleID uint)
}
