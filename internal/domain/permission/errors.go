package permission

import (
	"errors"

	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
)

var (
	// ErrMalformedCode indicates a permission code without a resource:action separator
	ErrMalformedCode = vo.ErrMalformedCode

	// ErrInvalidResource indicates a resource outside the shared vocabulary
	ErrInvalidResource = vo.ErrInvalidResource

	// ErrInvalidAction indicates an action outside the shared vocabulary
	ErrInvalidAction = vo.ErrInvalidAction

	// ErrUnknownTemplate indicates an administrative lookup of an unregistered template
	ErrUnknownTemplate = errors.New("unknown permission template")

	// ErrUnknownBaseTemplate indicates a derivation from an unregistered template
	ErrUnknownBaseTemplate = errors.New("unknown base template")

	// ErrDuplicateGrant indicates the role already holds a grant for the permission code
	ErrDuplicateGrant = errors.New("permission already granted to role")

	// ErrRoleNotFound indicates the referenced role does not exist
	ErrRoleNotFound = errors.New("role not found")

	// ErrSameRole indicates a copy whose source and target are the same role
	ErrSameRole = errors.New("source and target role are the same")

	// ErrRoleCodeTaken indicates another role already uses the code
	ErrRoleCodeTaken = errors.New("role code already exists")

	// ErrInvalidConditions indicates conditions that are not valid JSON
	ErrInvalidConditions = errors.New("conditions must be valid JSON")

	// ErrInvalidRoleStatus indicates a status other than active or inactive
	ErrInvalidRoleStatus = errors.New("invalid role status")

	// ErrInvalidRoleType indicates a role type other than system or custom
	ErrInvalidRoleType = errors.New("invalid role type")

	// ErrGrantNotFound indicates the role holds no grant for the permission code
	ErrGrantNotFound = errors.New("grant not found")
)
