package permission

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/infrastructure/metrics"
	"github.com/wardgate/wardgate/internal/shared/db"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

// Seeder creates one system role per registry template. It never touches a role that
// already exists, so re-running it after adding templates only creates the new ones.
type Seeder struct {
	roles    permission.RoleRepository
	grants   permission.RolePermissionRepository
	registry *permission.Registry
	txMgr    *db.TransactionManager
	metrics  *metrics.Collectors
	logger   logger.Interface
}

func NewSeeder(
	roles permission.RoleRepository,
	grants permission.RolePermissionRepository,
	registry *permission.Registry,
	txMgr *db.TransactionManager,
	collectors *metrics.Collectors,
	logger logger.Interface,
) *Seeder {
	return &Seeder{
		roles:    roles,
		grants:   grants,
		registry: registry,
		txMgr:    txMgr,
		metrics:  collectors,
		logger:   logger,
	}
}

// Seed walks the registry in order. Each role and its grants commit in their own
// transaction; a failing template is reported and the rest still run.
func (s *Seeder) Seed(ctx context.Context) (*dto.SeedReport, error) {
	if db.InTransaction(ctx) {
		return nil, fmt.Errorf("seeder must not run inside a transaction")
	}

	report := &dto.SeedReport{
		Created: []string{},
		Skipped: []string{},
		Failed:  []string{},
	}
	var result *multierror.Error

	for _, name := range s.registry.Names() {
		created, grants, err := s.seedTemplate(ctx, name)
		switch {
		case err != nil:
			s.logger.Errorw("failed to seed role", "template", name, "error", err)
			s.metrics.SeedRole(metrics.SeedFailed)
			report.Failed = append(report.Failed, name)
			result = multierror.Append(result, fmt.Errorf("seed %s: %w", name, err))
		case created:
			s.metrics.SeedRole(metrics.SeedCreated)
			report.Created = append(report.Created, name)
			report.Grants += grants
		default:
			s.metrics.SeedRole(metrics.SeedSkipped)
			report.Skipped = append(report.Skipped, name)
		}
	}

	s.logger.Infow("role seeding finished",
		"created", len(report.Created),
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
		"grants", report.Grants)

	return report, result.ErrorOrNil()
}

func (s *Seeder) seedTemplate(ctx context.Context, name string) (bool, int, error) {
	exists, err := s.roles.ExistsByCode(ctx, name)
	if err != nil {
		return false, 0, err
	}
	if exists {
		s.logger.Infow("role already exists, skipping", "role_code", name)
		return false, 0, nil
	}

	level := permission.LevelSystem
	if s.registry.IsSuperAdmin(name) {
		level = permission.LevelSuperAdmin
	}

	role, err := permission.NewRole(RoleName(name), name, permission.RoleTypeSystem, level)
	if err != nil {
		return false, 0, err
	}

	var batch permission.BatchResult
	err = s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.roles.Create(txCtx, role); err != nil {
			return err
		}
		rps, err := newGrants(role.ID(), s.registry.Get(name))
		if err != nil {
			return err
		}
		batch, err = s.grants.CreateBatch(txCtx, rps)
		return err
	})
	if err != nil {
		return false, 0, err
	}

	s.logger.Infow("role seeded", "role_id", role.ID(), "role_code", name, "level", level, "grants", batch.Created)
	return true, batch.Created, nil
}

// RoleName turns a template name such as LAB_TECHNICIAN into "Lab Technician".
func RoleName(templateName string) string {
	// Casers are stateful; one per call.
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(templateName), "_", " "))
}
