package policy

import (
	"errors"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
)

var (
	ErrPolicyMissing     = errors.New("attendance policy is not configured")
	ErrInvalidTimeFormat = orgtime.ErrInvalidTimeFormat
	ErrInvalidPolicy     = errors.New("attendance policy is invalid")
)
