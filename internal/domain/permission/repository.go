package permission

import "context"

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	GetByCode(ctx context.Context, code string) (*Role, error)
	List(ctx context.Context, filter RoleFilter) ([]*Role, int64, error)
	Update(ctx context.Context, role *Role) error
	// Delete removes the role and, by cascade, every grant it owns.
	Delete(ctx context.Context, id uint) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

type RolePermissionRepository interface {
	// Create inserts a new grant and returns ErrDuplicateGrant when the role already
	// holds the permission code.
	Create(ctx context.Context, rp *RolePermission) error
	// Upsert creates the grant or updates is_granted and conditions in place.
	Upsert(ctx context.Context, rp *RolePermission) error
	// Get returns nil, nil when the role holds no grant for the code.
	Get(ctx context.Context, roleID uint, code string) (*RolePermission, error)
	ListByRole(ctx context.Context, roleID uint) ([]*RolePermission, error)
	// Delete is idempotent and reports whether a row was removed.
	Delete(ctx context.Context, roleID uint, code string) (bool, error)
	DeleteByRole(ctx context.Context, roleID uint) (int64, error)
	// CreateBatch inserts each grant independently; duplicates are skipped, not fatal.
	CreateBatch(ctx context.Context, rps []*RolePermission) (BatchResult, error)
}

type BatchResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type RoleFilter struct {
	Name     string
	Code     string
	Type     RoleType
	Status   RoleStatus
	Page     int
	PageSize int
}
