package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teraju-hris/leave-backend-go/internal/domain/holiday"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

// RequestService runs the leave request workflow.
type RequestService struct {
	leave.LeaveRequestRepository
	holiday.HolidayRepository
	balances   *BalanceService
	calculator *DayCalculator
}

func NewRequestService(
	leaveRequestRepository leave.LeaveRequestRepository,
	holidayRepository holiday.HolidayRepository,
	balances *BalanceService,
	calculator *DayCalculator,
) *RequestService {
	return &RequestService{
		LeaveRequestRepository: leaveRequestRepository,
		HolidayRepository:      holidayRepository,
		balances:               balances,
		calculator:             calculator,
	}
}

// InitialStatus routes a new request: annual leave goes to the manager, every
// other type to HR.
func InitialStatus(leaveType leave.LeaveType) leave.LeaveRequestStatus {
	if leaveType.Category == leave.CategoryAnnual {
		return leave.LeaveRequestStatusPendingManager
	}
	return leave.LeaveRequestStatusPendingHR
}

// Submit records a worker's own application. Emergency leave collapses onto the
// start date. Annual leave sent with total_days keeps that total and derives the
// end date when none is given. Every other case counts the range.
func (r *RequestService) Submit(ctx context.Context, w worker.Worker, leaveType leave.LeaveType, req leave.SubmitLeaveRequestRequest, now time.Time) (leave.LeaveRequest, error) {
	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, hasEnd := validator.IsValidDate(req.EndDate)

	var errs validator.ValidationErrors
	var total decimal.Decimal
	switch {
	case leaveType.Category == leave.CategoryEmergency:
		var err error
		endDate, total, err = r.calculator.ForLeaveType(leaveType, startDate, startDate, w.SaturdayCycle, req.TotalDays)
		if err != nil {
			return leave.LeaveRequest{}, err
		}
	case leaveType.Category == leave.CategoryAnnual && req.TotalDays != nil:
		if !hasEnd {
			endDate = r.calculator.DeriveEndDate(startDate, *req.TotalDays, w.SaturdayCycle)
		}
		total = *req.TotalDays
	case !hasEnd:
		errs.Add("end_date", "end_date is required")
		return leave.LeaveRequest{}, errs
	default:
		total = r.calculator.TotalDays(startDate, endDate, w.SaturdayCycle)
	}

	if !total.IsPositive() {
		errs.Add("end_date", "the selected dates contain no working days")
		return leave.LeaveRequest{}, errs
	}

	request := leave.LeaveRequest{
		WorkerID:    w.ID,
		LeaveTypeID: leaveType.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      req.Reason,
		TotalDays:   total,
		Status:      InitialStatus(leaveType),
		Attachment:  req.Attachment,
		AppliedAt:   now,
	}

	created, err := r.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave request submitted",
		"request_id", created.ID,
		"worker_id", w.ID,
		"leave_type", leaveType.Name,
		"status", created.Status,
		"total_days", total.String(),
	)
	return created, nil
}

// DirectEntry records an HR-entered leave that skips routing and starts verified.
// HR supplies the total; emergency leave still must be 0.5 or 1 on one day.
func (r *RequestService) DirectEntry(ctx context.Context, w worker.Worker, leaveType leave.LeaveType, req leave.DirectEntryRequest, now time.Time) (leave.LeaveRequest, error) {
	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)

	if leaveType.Category == leave.CategoryEmergency {
		if err := leave.ValidateEmergencyDays("total_days", req.TotalDays); err != nil {
			return leave.LeaveRequest{}, err
		}
		endDate = startDate
	}

	hrID := req.HRID
	verifiedAt := now
	request := leave.LeaveRequest{
		WorkerID:    w.ID,
		LeaveTypeID: leaveType.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      req.Reason,
		TotalDays:   req.TotalDays,
		Status:      leave.LeaveRequestStatusVerified,
		Attachment:  req.Attachment,
		VerifiedBy:  &hrID,
		AppliedAt:   now,
		VerifiedAt:  &verifiedAt,
	}

	created, err := r.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave entered by HR", "request_id", created.ID, "worker_id", w.ID, "hr_id", hrID)
	return created, nil
}

// Verify marks a non-annual request as checked by HR.
func (r *RequestService) Verify(ctx context.Context, request leave.LeaveRequest, leaveType leave.LeaveType, hrID string, now time.Time) (leave.LeaveRequest, error) {
	if leaveType.Category == leave.CategoryAnnual {
		return leave.LeaveRequest{}, leave.ErrInvalidTransition
	}
	if request.Status == leave.LeaveRequestStatusVerified || request.Status.IsTerminal() {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	verified, err := r.LeaveRequestRepository.TransitionStatus(ctx, request.ID,
		[]leave.LeaveRequestStatus{leave.LeaveRequestStatusPendingHR, leave.LeaveRequestStatusPending},
		leave.StatusTransition{To: leave.LeaveRequestStatusVerified, ActorID: hrID, At: now},
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	slog.Info("Leave request verified", "request_id", request.ID, "hr_id", hrID)
	return verified, nil
}

// Decide approves or rejects an annual request. Approval debits the effective
// days from the worker's balance for asOf's year; run it inside a transaction.
func (r *RequestService) Decide(
	ctx context.Context,
	request leave.LeaveRequest,
	leaveType leave.LeaveType,
	managerID string,
	decision leave.Decision,
	asOf time.Time,
	now time.Time,
) (leave.LeaveRequest, *leave.LeaveBalance, error) {
	if leaveType.Category != leave.CategoryAnnual {
		return leave.LeaveRequest{}, nil, leave.ErrInvalidTransition
	}
	if request.Status.IsTerminal() {
		return leave.LeaveRequest{}, nil, leave.ErrLeaveRequestAlreadyProcessed
	}

	to := leave.LeaveRequestStatusRejected
	if decision == leave.DecisionApproved {
		to = leave.LeaveRequestStatusApproved
	}

	decided, err := r.LeaveRequestRepository.TransitionStatus(ctx, request.ID,
		[]leave.LeaveRequestStatus{leave.LeaveRequestStatusPendingManager, leave.LeaveRequestStatusPending},
		leave.StatusTransition{To: to, ActorID: managerID, At: now},
	)
	if err != nil {
		return leave.LeaveRequest{}, nil, err
	}

	if to != leave.LeaveRequestStatusApproved {
		slog.Info("Leave request rejected", "request_id", request.ID, "manager_id", managerID)
		return decided, nil, nil
	}

	holidays, err := r.HolidayRepository.CountBetween(ctx, decided.StartDate, decided.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, nil, fmt.Errorf("failed to count public holidays: %w", err)
	}
	days := r.calculator.EffectiveDays(decided.StartDate, decided.EndDate, holidays)

	balance, err := r.balances.Debit(ctx, decided.WorkerID, decided.LeaveTypeID, asOf.Year(), days)
	if err != nil {
		return leave.LeaveRequest{}, nil, err
	}

	slog.Info("Leave request approved",
		"request_id", request.ID,
		"manager_id", managerID,
		"debited_days", days.String(),
		"total_available", balance.TotalAvailable.String(),
	)
	return decided, &balance, nil
}
