package permission

import (
	stderrors "errors"
	"fmt"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/shared/errors"
)

// toAppError maps domain sentinels onto AppError types, keeping the original error as
// cause. Errors it does not recognise are returned unchanged and surface as 500.
func toAppError(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}

	switch {
	case stderrors.Is(err, permission.ErrRoleNotFound),
		stderrors.Is(err, permission.ErrGrantNotFound):
		return errors.NewNotFoundError(err.Error()).WithCause(err)
	case stderrors.Is(err, permission.ErrDuplicateGrant),
		stderrors.Is(err, permission.ErrRoleCodeTaken):
		return errors.NewConflictError(err.Error()).WithCause(err)
	case stderrors.Is(err, permission.ErrUnknownTemplate),
		stderrors.Is(err, permission.ErrUnknownBaseTemplate),
		stderrors.Is(err, permission.ErrSameRole),
		stderrors.Is(err, permission.ErrInvalidResource),
		stderrors.Is(err, permission.ErrInvalidAction),
		stderrors.Is(err, permission.ErrMalformedCode),
		stderrors.Is(err, permission.ErrInvalidConditions),
		stderrors.Is(err, permission.ErrInvalidRoleStatus),
		stderrors.Is(err, permission.ErrInvalidRoleType):
		return errors.NewValidationError(err.Error()).WithCause(err)
	}
	return err
}

func roleNotFound(ref interface{}) error {
	return errors.NewNotFoundError("role not found", fmt.Sprintf("role %v", ref)).WithCause(permission.ErrRoleNotFound)
}
