package permission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wardgate/wardgate/internal/application/permission/dto"
	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/infrastructure/cache"
	"github.com/wardgate/wardgate/internal/infrastructure/persistence/models"
	"github.com/wardgate/wardgate/internal/infrastructure/repository"
	"github.com/wardgate/wardgate/internal/shared/db"
	"github.com/wardgate/wardgate/internal/shared/services/markdown"
)

// testStack wires every service against one in-memory sqlite database.
type testStack struct {
	db         *gorm.DB
	roles      permission.RoleRepository
	grants     permission.RolePermissionRepository
	authorizer *Authorizer
	grantSvc   *GrantService
	admin      *AdminService
	templates  *TemplateService
	seeder     *Seeder
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.RoleModel{}, &models.RolePermissionModel{}))

	roles := repository.NewRoleRepository(gdb)
	grants := repository.NewRolePermissionRepository(gdb)
	txMgr := db.NewTransactionManager(gdb)
	registry := permission.DefaultRegistry()
	checkCache := cache.NewMemoryCheckCache(1024, time.Minute)
	log := &mockLogger{}

	grantSvc := NewGrantService(roles, grants, txMgr, checkCache, nil, log)
	return &testStack{
		db:         gdb,
		roles:      roles,
		grants:     grants,
		authorizer: NewAuthorizer(roles, grants, checkCache, nil, log),
		grantSvc:   grantSvc,
		admin:      NewAdminService(roles, grants, registry, grantSvc, txMgr, checkCache, markdown.NewMarkdownService(), log),
		templates:  NewTemplateService(registry),
		seeder:     NewSeeder(roles, grants, registry, txMgr, nil, log),
	}
}

func (s *testStack) createRole(t *testing.T, name string) *dto.RoleDTO {
	t.Helper()
	role, err := s.admin.CreateRole(context.Background(), CreateRoleCommand{Name: name})
	require.NoError(t, err)
	return role
}

func (s *testStack) grant(t *testing.T, roleID uint, resource, action string) {
	t.Helper()
	_, err := s.grantSvc.Grant(context.Background(), GrantCommand{RoleID: roleID, Resource: resource, Action: action})
	require.NoError(t, err)
}

func (s *testStack) allowed(t *testing.T, roleID uint, resource, action string) bool {
	t.Helper()
	result, err := s.authorizer.Check(context.Background(), roleID, resource, action)
	require.NoError(t, err)
	return result.HasPermission
}
