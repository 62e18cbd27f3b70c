package value_objects

import (
	"errors"
	"fmt"
	"strings"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionList    Action = "list"
	ActionExport  Action = "export"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionView    Action = "view"
)

var allActions = []Action{
	ActionCreate,
	ActionRead,
	ActionUpdate,
	ActionDelete,
	ActionList,
	ActionExport,
	ActionApprove,
	ActionReject,
	ActionView,
}

var validActions = map[Action]bool{
	ActionCreate:  true,
	ActionRead:    true,
	ActionUpdate:  true,
	ActionDelete:  true,
	ActionList:    true,
	ActionExport:  true,
	ActionApprove: true,
	ActionReject:  true,
	ActionView:    true,
}

// ErrInvalidAction is returned for values outside the action vocabulary.
var ErrInvalidAction = errors.New("invalid action")

func NewAction(action string) (Action, error) {
	normalized := strings.ToLower(strings.TrimSpace(action))
	if normalized == "" {
		return "", fmt.Errorf("%w: action cannot be empty", ErrInvalidAction)
	}

	a := Action(normalized)
	if !validActions[a] {
		return "", fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}

	return a, nil
}

// AllActions returns the vocabulary in declaration order.
func AllActions() []Action {
	out := make([]Action, len(allActions))
	copy(out, allActions)
	return out
}

func (a Action) String() string {
	return string(a)
}

func (a Action) IsValid() bool {
	return validActions[a]
}

func (a Action) Equals(other Action) bool {
	return a == other
}
