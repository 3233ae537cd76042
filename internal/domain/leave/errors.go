package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrInvalidDecision              = errors.New("decision must be APPROVED or REJECTED")
	ErrCancelForbidden              = errors.New("only the requester or an administrator can cancel this leave request")
)
