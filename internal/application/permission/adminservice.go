package permission

import (
	"context"
	"fmt"
	"strings"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
	"github.com/wardgate/wardgate/internal/shared/db"
	"github.com/wardgate/wardgate/internal/shared/errors"
	"github.com/wardgate/wardgate/internal/shared/logger"
	"github.com/wardgate/wardgate/internal/shared/services/markdown"
)

type CreateRoleFromTemplateCommand struct {
	RoleName     string
	TemplateName string
	Description  string
}

type CreateRoleCommand struct {
	Name        string
	Code        string
	Description string
	Level       *int
}

type UpdateRoleCommand struct {
	Name        *string
	Description *string
	Level       *int
}

type ListRolesQuery struct {
	Name     string
	Code     string
	RoleType string
	Status   string
	Page     int
	PageSize int
}

// AdminService implements the role administration operations.
type AdminService struct {
	roles    permission.RoleRepository
	grants   permission.RolePermissionRepository
	registry *permission.Registry
	grantSvc *GrantService
	txMgr    *db.TransactionManager
	cache    permission.CheckCache
	text     markdown.MarkdownService
	logger   logger.Interface
}

func NewAdminService(
	roles permission.RoleRepository,
	grants permission.RolePermissionRepository,
	registry *permission.Registry,
	grantSvc *GrantService,
	txMgr *db.TransactionManager,
	cache permission.CheckCache,
	text markdown.MarkdownService,
	logger logger.Interface,
) *AdminService {
	return &AdminService{
		roles:    roles,
		grants:   grants,
		registry: registry,
		grantSvc: grantSvc,
		txMgr:    txMgr,
		cache:    cache,
		text:     text,
		logger:   logger,
	}
}

// CreateRoleFromTemplate creates a custom role whose code derives from its name and
// materialises the template's grants in the same transaction. An unregistered template
// name is an error here, unlike Registry.Get.
func (s *AdminService) CreateRoleFromTemplate(ctx context.Context, cmd CreateRoleFromTemplateCommand) (*dto.RoleWithGrantsDTO, error) {
	s.logger.Infow("creating role from template", "role_name", cmd.RoleName, "template", cmd.TemplateName)

	pairs, ok := s.registry.Lookup(cmd.TemplateName)
	if !ok {
		return nil, toAppError(fmt.Errorf("%w: %s", permission.ErrUnknownTemplate, cmd.TemplateName))
	}

	name := s.text.PlainText(cmd.RoleName)
	role, err := permission.NewRole(name, permission.CodeFromName(name), permission.RoleTypeCustom, permission.LevelCustom)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	role.UpdateDescription(strings.TrimSpace(cmd.Description))

	var result permission.BatchResult
	err = s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.roles.Create(txCtx, role); err != nil {
			return err
		}
		rps, err := newGrants(role.ID(), pairs)
		if err != nil {
			return err
		}
		result, err = s.grants.CreateBatch(txCtx, rps)
		return err
	})
	if err != nil {
		s.logger.Errorw("failed to create role from template", "role_code", role.Code(), "template", cmd.TemplateName, "error", err)
		return nil, toAppError(err)
	}

	s.logger.Infow("role created from template",
		"role_id", role.ID(),
		"role_code", role.Code(),
		"template", cmd.TemplateName,
		"grants", result.Created)

	codes := make([]string, 0, len(pairs))
	for _, p := range pairs {
		codes = append(codes, p.Code())
	}
	return &dto.RoleWithGrantsDTO{
		RoleDTO:     *s.toRoleDTO(role),
		Permissions: codes,
		Created:     result.Created,
		Skipped:     result.Skipped,
	}, nil
}

// CreateRole creates an empty custom role. The code defaults to one derived from the name.
func (s *AdminService) CreateRole(ctx context.Context, cmd CreateRoleCommand) (*dto.RoleDTO, error) {
	name := s.text.PlainText(cmd.Name)
	code := strings.TrimSpace(cmd.Code)
	if code == "" {
		code = permission.CodeFromName(name)
	}

	level := permission.LevelCustom
	if cmd.Level != nil {
		level = *cmd.Level
	}
	if err := validateCustomLevel(level); err != nil {
		return nil, err
	}

	role, err := permission.NewRole(name, code, permission.RoleTypeCustom, level)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	role.UpdateDescription(strings.TrimSpace(cmd.Description))

	if err := s.roles.Create(ctx, role); err != nil {
		s.logger.Warnw("failed to create role", "role_code", role.Code(), "error", err)
		return nil, toAppError(err)
	}

	s.logger.Infow("role created", "role_id", role.ID(), "role_code", role.Code())
	return s.toRoleDTO(role), nil
}

// UpdateRole changes display fields. The code and type are immutable.
func (s *AdminService) UpdateRole(ctx context.Context, roleID uint, cmd UpdateRoleCommand) (*dto.RoleDTO, error) {
	role, err := loadRole(ctx, s.roles, roleID, s.logger)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if err := role.UpdateName(s.text.PlainText(*cmd.Name)); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}
	if cmd.Description != nil {
		role.UpdateDescription(strings.TrimSpace(*cmd.Description))
	}
	if cmd.Level != nil && *cmd.Level != role.Level() {
		if role.IsSystem() {
			return nil, errors.NewValidationError("level of a system role cannot be changed")
		}
		if err := validateCustomLevel(*cmd.Level); err != nil {
			return nil, err
		}
		role.UpdateLevel(*cmd.Level)
	}

	if err := s.roles.Update(ctx, role); err != nil {
		s.logger.Errorw("failed to update role", "role_id", roleID, "error", err)
		return nil, toAppError(err)
	}

	s.logger.Infow("role updated", "role_id", roleID)
	return s.toRoleDTO(role), nil
}

// SetRoleStatus activates or deactivates a role. Inactive roles keep their grants.
func (s *AdminService) SetRoleStatus(ctx context.Context, roleID uint, status string) (*dto.RoleDTO, error) {
	parsed, err := permission.ParseRoleStatus(status)
	if err != nil {
		return nil, toAppError(err)
	}

	role, err := loadRole(ctx, s.roles, roleID, s.logger)
	if err != nil {
		return nil, err
	}

	if err := role.SetStatus(parsed); err != nil {
		return nil, toAppError(err)
	}
	if err := s.roles.Update(ctx, role); err != nil {
		s.logger.Errorw("failed to update role status", "role_id", roleID, "error", err)
		return nil, toAppError(err)
	}

	s.cache.InvalidateRole(ctx, roleID)
	s.logger.Infow("role status changed", "role_id", roleID, "role_code", role.Code(), "status", parsed)
	return s.toRoleDTO(role), nil
}

// DeleteRole removes the role and all of its grants.
func (s *AdminService) DeleteRole(ctx context.Context, roleID uint) error {
	role, err := loadRole(ctx, s.roles, roleID, s.logger)
	if err != nil {
		return err
	}

	if err := s.roles.Delete(ctx, roleID); err != nil {
		s.logger.Errorw("failed to delete role", "role_id", roleID, "error", err)
		return toAppError(err)
	}

	s.cache.InvalidateRole(ctx, roleID)
	s.logger.Infow("role deleted", "role_id", roleID, "role_code", role.Code())
	return nil
}

func (s *AdminService) GetRole(ctx context.Context, roleID uint) (*dto.RoleDTO, error) {
	role, err := loadRole(ctx, s.roles, roleID, s.logger)
	if err != nil {
		return nil, err
	}
	return s.toRoleDTO(role), nil
}

func (s *AdminService) ListRoles(ctx context.Context, query ListRolesQuery) ([]*dto.RoleDTO, int64, error) {
	filter := permission.RoleFilter{
		Name:     strings.TrimSpace(query.Name),
		Code:     strings.ToUpper(strings.TrimSpace(query.Code)),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.RoleType != "" {
		t, err := permission.ParseRoleType(query.RoleType)
		if err != nil {
			return nil, 0, toAppError(err)
		}
		filter.Type = t
	}
	if query.Status != "" {
		st, err := permission.ParseRoleStatus(query.Status)
		if err != nil {
			return nil, 0, toAppError(err)
		}
		filter.Status = st
	}

	roles, total, err := s.roles.List(ctx, filter)
	if err != nil {
		s.logger.Errorw("failed to list roles", "error", err)
		return nil, 0, err
	}

	out := make([]*dto.RoleDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, s.toRoleDTO(r))
	}
	return out, total, nil
}

// CopyPermissions copies every grant of fromRoleID onto toRoleID. Codes the target
// already holds are skipped unless overwrite is set, in which case their flag and
// conditions are replaced. Re-running a copy never duplicates rows.
func (s *AdminService) CopyPermissions(ctx context.Context, fromRoleID, toRoleID uint, overwrite bool) (*dto.CopyResult, error) {
	if fromRoleID == toRoleID {
		return nil, toAppError(fmt.Errorf("%w: %d", permission.ErrSameRole, fromRoleID))
	}
	if _, err := loadRole(ctx, s.roles, fromRoleID, s.logger); err != nil {
		return nil, err
	}
	if _, err := loadRole(ctx, s.roles, toRoleID, s.logger); err != nil {
		return nil, err
	}

	result := &dto.CopyResult{FromRoleID: fromRoleID, ToRoleID: toRoleID}

	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		source, err := s.grants.ListByRole(txCtx, fromRoleID)
		if err != nil {
			return err
		}
		existing, err := s.grants.ListByRole(txCtx, toRoleID)
		if err != nil {
			return err
		}
		held := make(map[string]struct{}, len(existing))
		for _, rp := range existing {
			held[rp.Code()] = struct{}{}
		}

		for _, rp := range source {
			_, exists := held[rp.Code()]
			if exists && !overwrite {
				result.Skipped++
				continue
			}
			if _, err := s.grantSvc.upsertFlag(txCtx, toRoleID, rp.Pair(), rp.IsGranted(), rp.Conditions(), true); err != nil {
				return err
			}
			if exists {
				result.Overwritten++
			} else {
				result.Copied++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("failed to copy permissions", "from_role_id", fromRoleID, "to_role_id", toRoleID, "error", err)
		return nil, toAppError(err)
	}

	s.grantSvc.afterWrite(ctx, toRoleID, "copy", result.Copied+result.Overwritten)
	s.logger.Infow("permissions copied",
		"from_role_id", fromRoleID,
		"to_role_id", toRoleID,
		"copied", result.Copied,
		"skipped", result.Skipped,
		"overwritten", result.Overwritten)
	return result, nil
}

// PermissionMatrix reports is_granted for every resource and action of the vocabulary;
// pairs without a row are false.
func (s *AdminService) PermissionMatrix(ctx context.Context, roleID uint) (*dto.MatrixDTO, error) {
	role, err := loadRole(ctx, s.roles, roleID, s.logger)
	if err != nil {
		return nil, err
	}

	rps, err := s.grants.ListByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	matrix := make(dto.PermissionMatrix, len(vo.AllResources()))
	for _, r := range vo.AllResources() {
		row := make(map[string]bool, len(vo.AllActions()))
		for _, a := range vo.AllActions() {
			row[a.String()] = false
		}
		matrix[r.String()] = row
	}
	for _, rp := range rps {
		matrix[rp.Resource().String()][rp.Action().String()] = rp.IsGranted()
	}

	return &dto.MatrixDTO{RoleID: roleID, RoleCode: role.Code(), Matrix: matrix}, nil
}

// PermissionSummary aggregates the role's grants. by_resource and by_action count
// granted rows only.
func (s *AdminService) PermissionSummary(ctx context.Context, roleID uint) (*dto.PermissionSummary, error) {
	role, err := loadRole(ctx, s.roles, roleID, s.logger)
	if err != nil {
		return nil, err
	}

	rps, err := s.grants.ListByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	summary := &dto.PermissionSummary{
		RoleID:     roleID,
		RoleCode:   role.Code(),
		Total:      len(rps),
		ByResource: make(map[string]int),
		ByAction:   make(map[string]int),
	}
	for _, rp := range rps {
		if !rp.IsGranted() {
			summary.DeniedCount++
			continue
		}
		summary.GrantedCount++
		summary.ByResource[rp.Resource().String()]++
		summary.ByAction[rp.Action().String()]++
	}
	return summary, nil
}

// GrantTemplate bulk-grants a registered template's pairs to an existing role.
func (s *AdminService) GrantTemplate(ctx context.Context, roleID uint, templateName string) (*dto.BulkResult, error) {
	pairs, ok := s.registry.Lookup(templateName)
	if !ok {
		return nil, toAppError(fmt.Errorf("%w: %s", permission.ErrUnknownTemplate, templateName))
	}
	if len(pairs) == 0 {
		return &dto.BulkResult{}, nil
	}
	return s.grantSvc.bulkGrantPairs(ctx, roleID, pairs, "grant_template")
}

func (s *AdminService) toRoleDTO(role *permission.Role) *dto.RoleDTO {
	out := dto.ToRoleDTO(role)
	if out == nil || out.Description == "" {
		return out
	}
	html, err := s.text.ToHTMLSanitized(out.Description)
	if err != nil {
		s.logger.Warnw("failed to render role description", "role_id", role.ID(), "error", err)
		return out
	}
	out.DescriptionHTML = html
	return out
}

func newGrants(roleID uint, pairs []vo.Pair) ([]*permission.RolePermission, error) {
	rps := make([]*permission.RolePermission, 0, len(pairs))
	for _, pair := range pairs {
		rp, err := permission.NewRolePermission(roleID, pair, true, nil)
		if err != nil {
			return nil, err
		}
		rps = append(rps, rp)
	}
	return rps, nil
}

func validateCustomLevel(level int) error {
	if level < permission.LevelCustom || level >= permission.LevelSuperAdmin {
		return errors.NewValidationError(fmt.Sprintf("custom role level must be between %d and %d", permission.LevelCustom, permission.LevelSuperAdmin-1))
	}
	return nil
}
