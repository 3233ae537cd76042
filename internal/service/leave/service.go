package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/admission"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/orgtime"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	policies policy.PolicyService
	gate     calendar.Gate
	tx       database.Transactor
	clock    orgtime.Clock
}

func NewLeaveService(
	leaveRequestRepository leave.LeaveRequestRepository,
	policyService policy.PolicyService,
	gate calendar.Gate,
	transactor database.Transactor,
	clock orgtime.Clock,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		policies:               policyService,
		gate:                   gate,
		tx:                     transactor,
		clock:                  clock,
	}
}

// Request implements leave.LeaveService.
func (s *LeaveServiceImpl) Request(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	date, err := orgtime.ParseDate(req.Date)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	today := orgtime.TodayInOrgTZ(s.clock)
	if !date.After(today) {
		return leave.LeaveResponse{}, admission.Deny(admission.ReasonPastDatedLeave)
	}

	existing, err := s.LeaveRequestRepository.GetActiveByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to check existing leave: %w", err)
	}
	if existing != nil {
		return leave.LeaveResponse{}, admission.DenyWithDetail(admission.ReasonDuplicateLeave, string(existing.Status))
	}

	p, err := s.policies.ForEmployee(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := s.gate.LeaveAllowed(ctx, date, p); err != nil {
		return leave.LeaveResponse{}, err
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Reason:     req.Reason,
		LeaveType:  req.LeaveType,
		Status:     leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("Leave requested", "leave_id", created.ID, "employee_id", req.EmployeeID, "date", req.Date, "type", req.LeaveType)
	return toLeaveResponse(created), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveResponse, error) {
	lr, err := s.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return toLeaveResponse(lr), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	listFilter := leave.ListFilter{
		EmployeeID: filter.EmployeeID,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	if listFilter.Page < 1 {
		listFilter.Page = 1
	}
	if listFilter.Limit < 1 {
		listFilter.Limit = 20
	}
	if filter.Status != nil {
		status := leave.Status(*filter.Status)
		listFilter.Status = &status
	}

	if filter.Month != nil && filter.Year != nil {
		first, last := orgtime.MonthBounds(orgtime.Date(*filter.Year, time.Month(*filter.Month), 1))
		listFilter.From, listFilter.To = &first, &last
	} else {
		if filter.StartDate != nil {
			from, err := orgtime.ParseDate(*filter.StartDate)
			if err != nil {
				return leave.ListLeaveResponse{}, err
			}
			listFilter.From = &from
		}
		if filter.EndDate != nil {
			to, err := orgtime.ParseDate(*filter.EndDate)
			if err != nil {
				return leave.ListLeaveResponse{}, err
			}
			listFilter.To = &to
		}
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, listFilter)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, lr := range requests {
		responses = append(responses, toLeaveResponse(lr))
	}
	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       listFilter.Page,
		Limit:      listFilter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(listFilter.Limit))),
		Leaves:     responses,
	}, nil
}

// Balance implements leave.LeaveService.
func (s *LeaveServiceImpl) Balance(ctx context.Context, req leave.BalanceRequest) (leave.BalanceResponse, error) {
	month := orgtime.TodayInOrgTZ(s.clock)
	if req.Month != 0 && req.Year != 0 {
		month = orgtime.Date(req.Year, time.Month(req.Month), 1)
	}

	p, err := s.policies.ForEmployee(ctx, req.EmployeeID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	used, err := s.LeaveRequestRepository.CountApprovedInMonth(ctx, req.EmployeeID, month, "")
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	remaining := p.PaidLeavesPerMonth - used
	if remaining < 0 {
		remaining = 0
	}

	monthCost := ComputeLeaveCost(used, p)
	return leave.BalanceResponse{
		Month:              int(month.Month()),
		Year:               month.Year(),
		PaidLeavesPerMonth: p.PaidLeavesPerMonth,
		UsedThisMonth:      used,
		Remaining:          remaining,
		Zone:               ComputeLeaveZone(used, p),
		WarningLeaveCount:  p.WarningLeaveCount,
		DangerLeaveCount:   p.DangerLeaveCount,
		LeaveCost:          p.LeaveCost,
		MonthCost:          monthCost,
		NextLeaveCost:      ComputeLeaveCost(used+1, p) - monthCost,
	}, nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	var decided leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Read the request and the month's count only after taking the lock.
		if err := s.LeaveRequestRepository.LockForDecision(ctx, req.ID); err != nil {
			return err
		}
		lr, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if lr.Status != leave.StatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		isPaid := false
		if req.Status == leave.StatusApproved && lr.LeaveType == leave.TypePaid {
			p, err := s.policies.ForEmployee(ctx, lr.EmployeeID)
			if err != nil {
				return err
			}
			used, err := s.LeaveRequestRepository.CountApprovedInMonth(ctx, lr.EmployeeID, lr.Date, lr.ID)
			if err != nil {
				return err
			}
			isPaid = ComputeLeavePayment(used, p)
		}

		decided, err = lr.Decide(req.Status, req.ApproverID, s.clock.Now(), isPaid)
		if err != nil {
			return err
		}
		return s.LeaveRequestRepository.UpdateDecision(ctx, decided)
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	slog.Info("Leave request decided",
		"leave_id", decided.ID,
		"status", decided.Status,
		"is_paid", decided.IsPaid,
		"approver_id", req.ApproverID,
	)
	return toLeaveResponse(decided), nil
}

// Cancel implements leave.LeaveService.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, req leave.CancelLeaveRequest) error {
	lr, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if !req.IsAdmin && lr.EmployeeID != req.ActorID {
		return leave.ErrCancelForbidden
	}
	if lr.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}

	if err := s.LeaveRequestRepository.Delete(ctx, lr.ID); err != nil {
		return err
	}
	slog.Info("Leave request cancelled", "leave_id", lr.ID, "actor_id", req.ActorID)
	return nil
}

func toLeaveResponse(lr leave.LeaveRequest) leave.LeaveResponse {
	resp := leave.LeaveResponse{
		ID:           lr.ID,
		EmployeeID:   lr.EmployeeID,
		EmployeeName: lr.EmployeeName,
		EmployeeCode: lr.EmployeeCode,
		Date:         orgtime.FormatDate(lr.Date),
		Reason:       lr.Reason,
		LeaveType:    lr.LeaveType,
		Status:       lr.Status,
		IsPaid:       lr.IsPaid,
		ApprovedBy:   lr.ApprovedBy,
		CreatedAt:    lr.CreatedAt.In(orgtime.Location).Format(time.RFC3339),
	}
	if lr.ApprovedAt != nil {
		at := lr.ApprovedAt.In(orgtime.Location).Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	return resp
}
