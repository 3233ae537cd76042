package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, code string) (Employee, error)
	EmailExists(ctx context.Context, email string, excludeID string) (bool, error)
	// MaxEmployeeCodeNumber returns the highest numeric suffix of EMPnnn codes, 0 if none.
	MaxEmployeeCodeNumber(ctx context.Context) (int, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, int64, error)
	ListActiveEmployees(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, employee Employee) error
}
