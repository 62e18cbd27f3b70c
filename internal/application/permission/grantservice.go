package permission

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
	"github.com/wardgate/wardgate/internal/infrastructure/metrics"
	"github.com/wardgate/wardgate/internal/shared/db"
	"github.com/wardgate/wardgate/internal/shared/errors"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

// MaxBulkSize bounds the pairs accepted by one bulk grant or revoke.
const MaxBulkSize = 500

type GrantCommand struct {
	RoleID     uint
	Resource   string
	Action     string
	IsGranted  *bool
	Conditions json.RawMessage
}

// GrantService owns every write to a role's grants. Each write checks the role exists
// and drops the role's cached check results.
type GrantService struct {
	roles   permission.RoleRepository
	grants  permission.RolePermissionRepository
	txMgr   *db.TransactionManager
	cache   permission.CheckCache
	metrics *metrics.Collectors
	logger  logger.Interface
}

func NewGrantService(
	roles permission.RoleRepository,
	grants permission.RolePermissionRepository,
	txMgr *db.TransactionManager,
	cache permission.CheckCache,
	collectors *metrics.Collectors,
	logger logger.Interface,
) *GrantService {
	return &GrantService{
		roles:   roles,
		grants:  grants,
		txMgr:   txMgr,
		cache:   cache,
		metrics: collectors,
		logger:  logger,
	}
}

// Grant creates a new grant. A second grant of the same code fails with a conflict
// wrapping ErrDuplicateGrant; use SetGrantFlag for upsert semantics.
func (s *GrantService) Grant(ctx context.Context, cmd GrantCommand) (*dto.GrantDTO, error) {
	s.logger.Infow("granting permission", "role_id", cmd.RoleID, "resource", cmd.Resource, "action", cmd.Action)

	if err := s.requireRole(ctx, cmd.RoleID); err != nil {
		return nil, err
	}

	pair, err := vo.NewPair(cmd.Resource, cmd.Action)
	if err != nil {
		return nil, toAppError(err)
	}

	granted := true
	if cmd.IsGranted != nil {
		granted = *cmd.IsGranted
	}

	rp, err := permission.NewRolePermission(cmd.RoleID, pair, granted, cmd.Conditions)
	if err != nil {
		return nil, toAppError(err)
	}

	if err := s.grants.Create(ctx, rp); err != nil {
		s.logger.Warnw("failed to create grant", "role_id", cmd.RoleID, "permission_code", pair.Code(), "error", err)
		return nil, toAppError(err)
	}

	s.afterWrite(ctx, cmd.RoleID, "grant", 1)
	s.logger.Infow("permission granted", "role_id", cmd.RoleID, "permission_code", rp.Code(), "is_granted", granted)
	return dto.ToGrantDTO(rp), nil
}

// SetGrantFlag creates the grant or flips is_granted in place. Existing conditions are
// kept. Calling it twice never creates a second row.
func (s *GrantService) SetGrantFlag(ctx context.Context, roleID uint, resource, action string, isGranted bool) (*dto.GrantDTO, error) {
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}

	pair, err := vo.NewPair(resource, action)
	if err != nil {
		return nil, toAppError(err)
	}

	rp, err := s.upsertFlag(ctx, roleID, pair, isGranted, nil, false)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, roleID, "set_grant_flag", 1)
	s.logger.Infow("grant flag set", "role_id", roleID, "permission_code", pair.Code(), "is_granted", isGranted)
	return dto.ToGrantDTO(rp), nil
}

// upsertFlag writes is_granted for pair. When replaceConditions is set the stored
// conditions become conditions, otherwise existing ones are kept.
func (s *GrantService) upsertFlag(ctx context.Context, roleID uint, pair vo.Pair, isGranted bool, conditions json.RawMessage, replaceConditions bool) (*permission.RolePermission, error) {
	rp, err := s.grants.Get(ctx, roleID, pair.Code())
	if err != nil {
		return nil, err
	}

	if rp == nil {
		rp, err = permission.NewRolePermission(roleID, pair, isGranted, conditions)
		if err != nil {
			return nil, toAppError(err)
		}
	} else {
		rp.SetGranted(isGranted)
		if replaceConditions {
			if err := rp.SetConditions(conditions); err != nil {
				return nil, toAppError(err)
			}
		}
	}

	if err := s.grants.Upsert(ctx, rp); err != nil {
		s.logger.Errorw("failed to upsert grant", "role_id", roleID, "permission_code", pair.Code(), "error", err)
		return nil, err
	}
	return rp, nil
}

// Revoke deletes the grant. Revoking an absent grant succeeds.
func (s *GrantService) Revoke(ctx context.Context, roleID uint, resource, action string) error {
	if err := s.requireRole(ctx, roleID); err != nil {
		return err
	}

	pair, err := vo.NewPair(resource, action)
	if err != nil {
		return toAppError(err)
	}

	removed, err := s.grants.Delete(ctx, roleID, pair.Code())
	if err != nil {
		s.logger.Errorw("failed to revoke grant", "role_id", roleID, "permission_code", pair.Code(), "error", err)
		return err
	}

	if removed {
		s.afterWrite(ctx, roleID, "revoke", 1)
	}
	s.logger.Infow("permission revoked", "role_id", roleID, "permission_code", pair.Code(), "removed", removed)
	return nil
}

// RevokeCode is Revoke addressed by permission code.
func (s *GrantService) RevokeCode(ctx context.Context, roleID uint, code string) error {
	resource, action, err := vo.DecodeCode(code)
	if err != nil {
		return toAppError(err)
	}
	return s.Revoke(ctx, roleID, resource, action)
}

// BulkGrant grants every pair with is_granted true. Pairs the role already holds are
// counted as skipped. The batch commits as one transaction.
func (s *GrantService) BulkGrant(ctx context.Context, roleID uint, inputs []dto.PairInput) (*dto.BulkResult, error) {
	pairs, err := parsePairs(inputs)
	if err != nil {
		return nil, err
	}
	return s.bulkGrantPairs(ctx, roleID, pairs, "bulk_grant")
}

func (s *GrantService) bulkGrantPairs(ctx context.Context, roleID uint, pairs []vo.Pair, operation string) (*dto.BulkResult, error) {
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}

	rps, err := newGrants(roleID, pairs)
	if err != nil {
		return nil, toAppError(err)
	}

	var result permission.BatchResult
	err = s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		result, err = s.grants.CreateBatch(txCtx, rps)
		return err
	})
	if err != nil {
		s.logger.Errorw("bulk grant failed", "role_id", roleID, "pairs", len(pairs), "error", err)
		return nil, err
	}

	s.afterWrite(ctx, roleID, operation, result.Created)
	s.logger.Infow("bulk grant completed", "role_id", roleID, "created", result.Created, "skipped", result.Skipped)
	return &dto.BulkResult{Created: result.Created, Skipped: result.Skipped}, nil
}

// BulkRevoke removes every listed grant; pairs the role does not hold count as skipped.
func (s *GrantService) BulkRevoke(ctx context.Context, roleID uint, inputs []dto.PairInput) (*dto.BulkRevokeResult, error) {
	pairs, err := parsePairs(inputs)
	if err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}

	result := &dto.BulkRevokeResult{}
	err = s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		for _, pair := range pairs {
			removed, err := s.grants.Delete(txCtx, roleID, pair.Code())
			if err != nil {
				return err
			}
			if removed {
				result.Removed++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("bulk revoke failed", "role_id", roleID, "error", err)
		return nil, err
	}

	s.afterWrite(ctx, roleID, "bulk_revoke", result.Removed)
	s.logger.Infow("bulk revoke completed", "role_id", roleID, "removed", result.Removed, "skipped", result.Skipped)
	return result, nil
}

func (s *GrantService) ListByRole(ctx context.Context, roleID uint) ([]*dto.GrantDTO, error) {
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}

	rps, err := s.grants.ListByRole(ctx, roleID)
	if err != nil {
		s.logger.Errorw("failed to list grants", "role_id", roleID, "error", err)
		return nil, err
	}
	return dto.ToGrantDTOs(rps), nil
}

// UpdateConditions replaces the opaque conditions of an existing grant. A nil value
// clears them.
func (s *GrantService) UpdateConditions(ctx context.Context, roleID uint, code string, conditions json.RawMessage) (*dto.GrantDTO, error) {
	if err := s.requireRole(ctx, roleID); err != nil {
		return nil, err
	}

	pair, err := vo.ParsePair(code)
	if err != nil {
		return nil, toAppError(err)
	}

	rp, err := s.grants.Get(ctx, roleID, pair.Code())
	if err != nil {
		return nil, err
	}
	if rp == nil {
		return nil, toAppError(fmt.Errorf("%w: %s", permission.ErrGrantNotFound, pair.Code()))
	}

	if err := rp.SetConditions(conditions); err != nil {
		return nil, toAppError(err)
	}
	if err := s.grants.Upsert(ctx, rp); err != nil {
		s.logger.Errorw("failed to update grant conditions", "role_id", roleID, "permission_code", pair.Code(), "error", err)
		return nil, err
	}

	s.afterWrite(ctx, roleID, "update_conditions", 1)
	s.logger.Infow("grant conditions updated", "role_id", roleID, "permission_code", pair.Code())
	return dto.ToGrantDTO(rp), nil
}

func (s *GrantService) requireRole(ctx context.Context, roleID uint) error {
	_, err := loadRole(ctx, s.roles, roleID, s.logger)
	return err
}

func (s *GrantService) afterWrite(ctx context.Context, roleID uint, operation string, n int) {
	s.cache.InvalidateRole(ctx, roleID)
	s.metrics.GrantWrites(operation, n)
}

// loadRole returns the role or a not-found AppError wrapping ErrRoleNotFound.
func loadRole(ctx context.Context, roles permission.RoleRepository, roleID uint, log logger.Interface) (*permission.Role, error) {
	role, err := roles.GetByID(ctx, roleID)
	if err != nil {
		log.Errorw("failed to load role", "role_id", roleID, "error", err)
		return nil, err
	}
	if role == nil {
		log.Warnw("role-scoped operation on unknown role", "role_id", roleID)
		return nil, roleNotFound(roleID)
	}
	return role, nil
}

func parsePairs(inputs []dto.PairInput) ([]vo.Pair, error) {
	if len(inputs) == 0 {
		return nil, errors.NewValidationError("at least one permission is required")
	}
	if len(inputs) > MaxBulkSize {
		return nil, errors.NewValidationError(fmt.Sprintf("at most %d permissions per request", MaxBulkSize))
	}

	pairs := make([]vo.Pair, 0, len(inputs))
	for i, in := range inputs {
		pair, err := vo.NewPair(in.Resource, in.Action)
		if err != nil {
			return nil, toAppError(fmt.Errorf("permissions[%d]: %w", i, err))
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
