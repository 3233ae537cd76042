package leave

import "context"

type LeaveService interface {
	// Request admits a new PENDING leave request.
	Request(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)
	Get(ctx context.Context, id string) (LeaveResponse, error)
	List(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
	Balance(ctx context.Context, req BalanceRequest) (BalanceResponse, error)

	// Decide approves or rejects a pending request (admin).
	Decide(ctx context.Context, req DecideLeaveRequest) (LeaveResponse, error)
	// Cancel deletes a pending request on behalf of its requester or an admin.
	Cancel(ctx context.Context, req CancelLeaveRequest) error
}
