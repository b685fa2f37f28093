package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
}

// TenurePolicyRepository - interface for leave_tenure_policies table
type TenurePolicyRepository interface {
	Create(ctx context.Context, policy TenurePolicy) (TenurePolicy, error)
	ListByLeaveType(ctx context.Context, leaveTypeID string) ([]TenurePolicy, error)
	ListAll(ctx context.Context) ([]TenurePolicy, error)
	Delete(ctx context.Context, id string) error
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	// Upsert inserts the row or, on (worker, type, year) conflict, rewrites the
	// entitlement columns. used_days and carry_forward of an existing row are kept.
	Upsert(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByWorkerTypeYear(ctx context.Context, workerID, leaveTypeID string, year int) (LeaveBalance, error)
	GetByWorkerTypeYearForUpdate(ctx context.Context, workerID, leaveTypeID string, year int) (LeaveBalance, error)
	ListByWorkerYear(ctx context.Context, workerID string, year int) ([]LeaveBalance, error)
	// ListByWorkerYearForUpdate locks the worker's rows for year until the
	// surrounding transaction ends.
	ListByWorkerYearForUpdate(ctx context.Context, workerID string, year int) ([]LeaveBalance, error)
	UpdateCarryForward(ctx context.Context, id string, carryForward int, totalAvailable decimal.Decimal) (LeaveBalance, error)
	// AddUsedDays increments used_days and lowers total_available (floored at 0).
	AddUsedDays(ctx context.Context, id string, days decimal.Decimal) (LeaveBalance, error)
	Delete(ctx context.Context, id string) error
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	GetAttachment(ctx context.Context, id string) (Attachment, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// TransitionStatus moves the request to t.To only if its stored status is one of
	// from. Returns ErrLeaveRequestAlreadyProcessed when the stored status differs.
	TransitionStatus(ctx context.Context, id string, from []LeaveRequestStatus, t StatusTransition) (LeaveRequest, error)
}
