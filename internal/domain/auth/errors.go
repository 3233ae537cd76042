package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidAccessKey    = errors.New("invalid employee code or access key")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrAdminAccessRequired = errors.New("administrator access required")

	ErrEmployeeAccessRequired = errors.New("employee access required")
	ErrIncorrectPassword      = errors.New("current password is incorrect")
)
