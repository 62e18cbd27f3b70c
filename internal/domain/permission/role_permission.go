package permission

import (
	"encoding/json"
	"fmt"
	"time"

	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
)

// RolePermission is a single grant (or explicit deny) of one permission code to a role.
// The permission code is always derived from the pair and cannot be set independently.
type RolePermission struct {
	id         uint
	roleID     uint
	pair       vo.Pair
	isGranted  bool
	conditions json.RawMessage
	createdAt  time.Time
	updatedAt  time.Time
}

func NewRolePermission(roleID uint, pair vo.Pair, isGranted bool, conditions json.RawMessage) (*RolePermission, error) {
	if roleID == 0 {
		return nil, fmt.Errorf("role ID is required")
	}
	if !pair.Resource.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResource, pair.Resource)
	}
	if !pair.Action.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAction, pair.Action)
	}
	if err := validateConditions(conditions); err != nil {
		return nil, err
	}

	now := time.Now()
	return &RolePermission{
		roleID:     roleID,
		pair:       pair,
		isGranted:  isGranted,
		conditions: cloneConditions(conditions),
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructRolePermission(id, roleID uint, pair vo.Pair, isGranted bool, conditions json.RawMessage, createdAt, updatedAt time.Time) (*RolePermission, error) {
	if id == 0 {
		return nil, fmt.Errorf("role permission ID cannot be zero")
	}

	return &RolePermission{
		id:         id,
		roleID:     roleID,
		pair:       pair,
		isGranted:  isGranted,
		conditions: conditions,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (p *RolePermission) ID() uint {
	return p.id
}

func (p *RolePermission) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("role permission ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role permission ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *RolePermission) RoleID() uint {
	return p.roleID
}

func (p *RolePermission) Pair() vo.Pair {
	return p.pair
}

func (p *RolePermission) Resource() vo.Resource {
	return p.pair.Resource
}

func (p *RolePermission) Action() vo.Action {
	return p.pair.Action
}

func (p *RolePermission) Code() string {
	return p.pair.Code()
}

func (p *RolePermission) IsGranted() bool {
	return p.isGranted
}

func (p *RolePermission) Conditions() json.RawMessage {
	return p.conditions
}

func (p *RolePermission) CreatedAt() time.Time {
	return p.createdAt
}

func (p *RolePermission) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *RolePermission) SetGranted(granted bool) {
	if p.isGranted == granted {
		return
	}
	p.isGranted = granted
	p.updatedAt = time.Now()
}

func (p *RolePermission) SetConditions(conditions json.RawMessage) error {
	if err := validateConditions(conditions); err != nil {
		return err
	}
	p.conditions = cloneConditions(conditions)
	p.updatedAt = time.Now()
	return nil
}

func validateConditions(conditions json.RawMessage) error {
	if len(conditions) == 0 {
		return nil
	}
	if !json.Valid(conditions) {
		return ErrInvalidConditions
	}
	return nil
}

func cloneConditions(conditions json.RawMessage) json.RawMessage {
	if len(conditions) == 0 {
		return nil
	}
	out := make(json.RawMessage, len(conditions))
	copy(out, conditions)
	return out
}
