package permission

import "context"

// PolicyMirror publishes granted permissions of active roles to an external policy
// enforcement point.
type PolicyMirror interface {
	Sync(ctx context.Context) (int64, error)
	Enforce(roleCode, resource, action string) (bool, error)
}
