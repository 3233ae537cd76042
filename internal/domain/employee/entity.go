package employee

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

type Employee struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          Role
	EmployeeCode  *string
	Designation   *string
	AccessKeyHash *string
	JoinedDate    *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

type ListFilter struct {
	Search   *string
	IsActive *bool
	Role     *Role
	Page     int
	Limit    int
}
