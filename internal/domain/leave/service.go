package leave

import (
	"context"
)

type LeaveService interface {
	// Type
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	// Tenure policy
	ListTenurePolicies(ctx context.Context, leaveTypeID string) ([]TenurePolicyResponse, error)
	CreateTenurePolicy(ctx context.Context, req CreateTenurePolicyRequest) (TenurePolicyResponse, error)
	DeleteTenurePolicy(ctx context.Context, id string) error
	// Calculator
	CalculateTotalDays(ctx context.Context, req CalculateDaysRequest) (CalculateDaysResponse, error)
	DeriveEndDate(ctx context.Context, req DeriveEndDateRequest) (CalculateDaysResponse, error)
	// Balance
	GetBalances(ctx context.Context, workerID string) ([]LeaveBalanceResponse, error)
	UpdateCarryForward(ctx context.Context, req UpdateCarryForwardRequest) (CarryForwardResponse, error)
	// Request
	SubmitLeaveRequest(ctx context.Context, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error)
	CreateDirectEntry(ctx context.Context, req DirectEntryRequest) (LeaveRequestResponse, error)
	VerifyLeaveRequest(ctx context.Context, requestID, hrID string) (LeaveRequestResponse, error)
	DecideLeaveRequest(ctx context.Context, req DecideLeaveRequestRequest) (DecisionResponse, error)
	GetLeaveRequest(ctx context.Context, requestID string) (LeaveRequestResponse, error)
	GetAttachment(ctx context.Context, requestID string) (Attachment, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
