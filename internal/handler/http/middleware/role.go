package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

const (
	roleAdmin    = string(employee.RoleAdmin)
	roleEmployee = string(employee.RoleEmployee)
)

// RequireRole lets the request through only for callers with role.
// It must run after AuthRequired.
func RequireRole(role string, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if principal.Role != role {
				response.HandleError(w, denied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly requires the ADMIN role
func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(roleAdmin, auth.ErrAdminAccessRequired)(next)
}

// EmployeeOnly requires the EMPLOYEE role. Administrators have no attendance of
// their own.
func EmployeeOnly(next http.Handler) http.Handler {
	return RequireRole(roleEmployee, auth.ErrEmployeeAccessRequired)(next)
}
