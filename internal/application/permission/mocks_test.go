package permission

import (
	"context"

	"github.com/wardgate/wardgate/internal/domain/permission"
	"github.com/wardgate/wardgate/internal/shared/logger"
)

type mockRoleRepository struct {
	CreateFunc       func(ctx context.Context, role *permission.Role) error
	GetByIDFunc      func(ctx context.Context, id uint) (*permission.Role, error)
	GetByCodeFunc    func(ctx context.Context, code string) (*permission.Role, error)
	ListFunc         func(ctx context.Context, filter permission.RoleFilter) ([]*permission.Role, int64, error)
	UpdateFunc       func(ctx context.Context, role *permission.Role) error
	DeleteFunc       func(ctx context.Context, id uint) error
	ExistsByCodeFunc func(ctx context.Context, code string) (bool, error)

	getByIDCalls int
}

func (m *mockRoleRepository) Create(ctx context.Context, role *permission.Role) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, role)
	}
	return nil
}

func (m *mockRoleRepository) GetByID(ctx context.Context, id uint) (*permission.Role, error) {
	m.getByIDCalls++
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRoleRepository) GetByCode(ctx context.Context, code string) (*permission.Role, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *mockRoleRepository) List(ctx context.Context, filter permission.RoleFilter) ([]*permission.Role, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockRoleRepository) Update(ctx context.Context, role *permission.Role) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, role)
	}
	return nil
}

func (m *mockRoleRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.ExistsByCodeFunc != nil {
		return m.ExistsByCodeFunc(ctx, code)
	}
	return false, nil
}

type mockGrantRepository struct {
	CreateFunc       func(ctx context.Context, rp *permission.RolePermission) error
	UpsertFunc       func(ctx context.Context, rp *permission.RolePermission) error
	GetFunc          func(ctx context.Context, roleID uint, code string) (*permission.RolePermission, error)
	ListByRoleFunc   func(ctx context.Context, roleID uint) ([]*permission.RolePermission, error)
	DeleteFunc       func(ctx context.Context, roleID uint, code string) (bool, error)
	DeleteByRoleFunc func(ctx context.Context, roleID uint) (int64, error)
	CreateBatchFunc  func(ctx context.Context, rps []*permission.RolePermission) (permission.BatchResult, error)

	getCalls int
}

func (m *mockGrantRepository) Create(ctx context.Context, rp *permission.RolePermission) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rp)
	}
	return nil
}

func (m *mockGrantRepository) Upsert(ctx context.Context, rp *permission.RolePermission) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, rp)
	}
	return nil
}

func (m *mockGrantRepository) Get(ctx context.Context, roleID uint, code string) (*permission.RolePermission, error) {
	m.getCalls++
	if m.GetFunc != nil {
		return m.GetFunc(ctx, roleID, code)
	}
	return nil, nil
}

func (m *mockGrantRepository) ListByRole(ctx context.Context, roleID uint) ([]*permission.RolePermission, error) {
	if m.ListByRoleFunc != nil {
		return m.ListByRoleFunc(ctx, roleID)
	}
	return nil, nil
}

func (m *mockGrantRepository) Delete(ctx context.Context, roleID uint, code string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, roleID, code)
	}
	return false, nil
}

func (m *mockGrantRepository) DeleteByRole(ctx context.Context, roleID uint) (int64, error) {
	if m.DeleteByRoleFunc != nil {
		return m.DeleteByRoleFunc(ctx, roleID)
	}
	return 0, nil
}

func (m *mockGrantRepository) CreateBatch(ctx context.Context, rps []*permission.RolePermission) (permission.BatchResult, error) {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, rps)
	}
	return permission.BatchResult{Created: len(rps)}, nil
}

type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any) {}
func (m *mockLogger) Warn(msg string, args ...any) {}
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) With(args ...any) logger.Interface { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }
func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {}
