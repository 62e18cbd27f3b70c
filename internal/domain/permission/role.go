package permission

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

type RoleStatus string

const (
	RoleStatusActive   RoleStatus = "active"
	RoleStatusInactive RoleStatus = "inactive"
)

func ParseRoleStatus(s string) (RoleStatus, error) {
	switch RoleStatus(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStatusActive:
		return RoleStatusActive, nil
	case RoleStatusInactive:
		return RoleStatusInactive, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidRoleStatus, s)
}

type RoleType string

const (
	RoleTypeSystem RoleType = "system"
	RoleTypeCustom RoleType = "custom"
)

func ParseRoleType(s string) (RoleType, error) {
	switch RoleType(strings.ToLower(strings.TrimSpace(s))) {
	case RoleTypeSystem:
		return RoleTypeSystem, nil
	case RoleTypeCustom:
		return RoleTypeCustom, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidRoleType, s)
}

// Role levels. Higher is more privileged.
const (
	LevelSuperAdmin = 100
	LevelSystem     = 50
	LevelCustom     = 0
)

const (
	maxRoleNameLength = 100
	maxRoleCodeLength = 50
)

type Role struct {
	id          uint
	name        string
	code        string
	description string
	roleType    RoleType
	level       int
	status      RoleStatus
	createdAt   time.Time
	updatedAt   time.Time
}

func NewRole(name, code string, roleType RoleType, level int) (*Role, error) {
	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))

	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if code == "" {
		return nil, fmt.Errorf("role code is required")
	}
	if len(name) > maxRoleNameLength {
		return nil, fmt.Errorf("role name too long (max %d characters)", maxRoleNameLength)
	}
	if len(code) > maxRoleCodeLength {
		return nil, fmt.Errorf("role code too long (max %d characters)", maxRoleCodeLength)
	}
	if roleType != RoleTypeSystem && roleType != RoleTypeCustom {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoleType, roleType)
	}

	now := time.Now()
	return &Role{
		name:      name,
		code:      code,
		roleType:  roleType,
		level:     level,
		status:    RoleStatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructRole(id uint, name, code, description string, roleType RoleType, level int, status RoleStatus, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &Role{
		id:          id,
		name:        name,
		code:        code,
		description: description,
		roleType:    roleType,
		level:       level,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// CodeFromName derives a role code from a display name, e.g. "Cardiology Lead" becomes
// "CARDIOLOGY_LEAD".
func CodeFromName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Code() string {
	return r.code
}

func (r *Role) Description() string {
	return r.description
}

func (r *Role) Type() RoleType {
	return r.roleType
}

func (r *Role) IsSystem() bool {
	return r.roleType == RoleTypeSystem
}

func (r *Role) Level() int {
	return r.level
}

func (r *Role) Status() RoleStatus {
	return r.status
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Role) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Role) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("role name cannot be empty")
	}
	if len(name) > maxRoleNameLength {
		return fmt.Errorf("role name too long (max %d characters)", maxRoleNameLength)
	}
	r.name = name
	r.updatedAt = time.Now()
	return nil
}

func (r *Role) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = time.Now()
}

func (r *Role) UpdateLevel(level int) {
	r.level = level
	r.updatedAt = time.Now()
}

// Outranks reports whether r takes precedence over other.
func (r *Role) Outranks(other *Role) bool {
	return r.level > other.level
}

func (r *Role) Activate() {
	if r.status == RoleStatusActive {
		return
	}
	r.status = RoleStatusActive
	r.updatedAt = time.Now()
}

// Deactivate is reversible. An inactive role keeps its grants but fails every check.
func (r *Role) Deactivate() {
	if r.status == RoleStatusInactive {
		return
	}
	r.status = RoleStatusInactive
	r.updatedAt = time.Now()
}

func (r *Role) SetStatus(status RoleStatus) error {
	switch status {
	case RoleStatusActive:
		r.Activate()
	case RoleStatusInactive:
		r.Deactivate()
	default:
		return fmt.Errorf("%w: %s", ErrInvalidRoleStatus, status)
	}
	return nil
}

func (r *Role) IsActive() bool {
	return r.status == RoleStatusActive
}
