package leave

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.TenurePolicyRepository
	leave.LeaveRequestRepository
	worker.WorkerRepository
	balanceService *BalanceService
	requestService *RequestService
	dayCalculator  *DayCalculator
	now            func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	tenurePolicyRepository leave.TenurePolicyRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	workerRepository worker.WorkerRepository,
	balanceService *BalanceService,
	requestService *RequestService,
	dayCalculator *DayCalculator,
	now func() time.Time,
) leave.LeaveService {
	if now == nil {
		now = time.Now
	}
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveTypeRepository:    leaveTypeRepository,
		TenurePolicyRepository: tenurePolicyRepository,
		LeaveRequestRepository: leaveRequestRepository,
		WorkerRepository:       workerRepository,
		balanceService:         balanceService,
		requestService:         requestService,
		dayCalculator:          dayCalculator,
		now:                    now,
	}
}

// asOf is today's date in the clock's location.
func (l *LeaveServiceImpl) asOf() time.Time {
	return calendar.Truncate(l.now())
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	leaveTypes, err := l.LeaveTypeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(leaveTypes))
	for _, lt := range leaveTypes {
		responses = append(responses, leave.NewLeaveTypeResponse(lt))
	}
	return responses, nil
}

// CreateLeaveType implements leave.LeaveService. The category is derived from the
// name only when none is given.
func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	category := leave.CategoryFromName(name)
	if req.Category != nil {
		category = leave.LeaveCategory(*req.Category)
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		Name:         name,
		DefaultLimit: req.DefaultLimit,
		Category:     category,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(created), nil
}

// UpdateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	if req.Name != nil {
		lt.Name = strings.TrimSpace(*req.Name)
	}
	if req.DefaultLimit != nil {
		lt.DefaultLimit = *req.DefaultLimit
	}
	if req.Category != nil {
		lt.Category = leave.LeaveCategory(*req.Category)
	}

	if err := l.LeaveTypeRepository.Update(ctx, lt); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.NewLeaveTypeResponse(lt), nil
}

// ListTenurePolicies implements leave.LeaveService.
func (l *LeaveServiceImpl) ListTenurePolicies(ctx context.Context, leaveTypeID string) ([]leave.TenurePolicyResponse, error) {
	if !validator.IsValidUUID(leaveTypeID) {
		return nil, validator.ValidationErrors{{Field: "leave_type_id", Message: "leave_type_id must be a valid UUID"}}
	}
	if _, err := l.LeaveTypeRepository.GetByID(ctx, leaveTypeID); err != nil {
		return nil, err
	}

	policies, err := l.TenurePolicyRepository.ListByLeaveType(ctx, leaveTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenure policies: %w", err)
	}

	responses := make([]leave.TenurePolicyResponse, 0, len(policies))
	for _, p := range policies {
		responses = append(responses, leave.NewTenurePolicyResponse(p))
	}
	return responses, nil
}

// CreateTenurePolicy implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateTenurePolicy(ctx context.Context, req leave.CreateTenurePolicyRequest) (leave.TenurePolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.TenurePolicyResponse{}, err
	}
	if _, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID); err != nil {
		return leave.TenurePolicyResponse{}, err
	}

	created, err := l.TenurePolicyRepository.Create(ctx, leave.TenurePolicy{
		LeaveTypeID: req.LeaveTypeID,
		IsContract:  req.IsContract,
		MinYears:    req.MinYears,
		MaxYears:    req.MaxYears,
		DaysPerYear: req.DaysPerYear,
	})
	if err != nil {
		return leave.TenurePolicyResponse{}, fmt.Errorf("failed to create tenure policy: %w", err)
	}
	return leave.NewTenurePolicyResponse(created), nil
}

// DeleteTenurePolicy implements leave.LeaveService.
func (l *LeaveServiceImpl) DeleteTenurePolicy(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}
	return l.TenurePolicyRepository.Delete(ctx, id)
}

// CalculateTotalDays implements leave.LeaveService.
func (l *LeaveServiceImpl) CalculateTotalDays(ctx context.Context, req leave.CalculateDaysRequest) (leave.CalculateDaysResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.CalculateDaysResponse{}, err
	}

	w, err := l.WorkerRepository.GetByID(ctx, req.WorkerID)
	if err != nil {
		return leave.CalculateDaysResponse{}, err
	}
	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.CalculateDaysResponse{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)

	endDate, total, err := l.dayCalculator.ForLeaveType(lt, startDate, endDate, w.SaturdayCycle, req.EmergencyDays)
	if err != nil {
		return leave.CalculateDaysResponse{}, err
	}

	return leave.CalculateDaysResponse{
		LeaveTypeID: lt.ID,
		StartDate:   startDate.Format(calendar.DateLayout),
		EndDate:     endDate.Format(calendar.DateLayout),
		TotalDays:   total,
	}, nil
}

// DeriveEndDate implements leave.LeaveService.
func (l *LeaveServiceImpl) DeriveEndDate(ctx context.Context, req leave.DeriveEndDateRequest) (leave.CalculateDaysResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.CalculateDaysResponse{}, err
	}

	w, err := l.WorkerRepository.GetByID(ctx, req.WorkerID)
	if err != nil {
		return leave.CalculateDaysResponse{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate := l.dayCalculator.DeriveEndDate(startDate, req.TotalDays, w.SaturdayCycle)

	return leave.CalculateDaysResponse{
		StartDate: startDate.Format(calendar.DateLayout),
		EndDate:   endDate.Format(calendar.DateLayout),
		TotalDays: req.TotalDays,
	}, nil
}

// GetBalances implements leave.LeaveService. Balances are refreshed against today
// before they are returned.
func (l *LeaveServiceImpl) GetBalances(ctx context.Context, workerID string) ([]leave.LeaveBalanceResponse, error) {
	w, err := l.WorkerRepository.GetByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	var balances []leave.LeaveBalance
	err = l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		balances, err = l.balanceService.RefreshBalances(txCtx, w, l.asOf())
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewLeaveBalanceResponse(b))
	}
	return responses, nil
}

// UpdateCarryForward implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateCarryForward(ctx context.Context, req leave.UpdateCarryForwardRequest) (leave.CarryForwardResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.CarryForwardResponse{}, err
	}

	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.CarryForwardResponse{}, err
	}

	var updated leave.LeaveBalance
	err = l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = l.balanceService.UpdateCarryForward(txCtx, req.WorkerID, lt, req.CarryForward, l.asOf().Year())
		return err
	})
	if err != nil {
		return leave.CarryForwardResponse{}, err
	}

	return leave.CarryForwardResponse{
		CarryForward:   updated.CarryForward,
		TotalAvailable: updated.TotalAvailable,
	}, nil
}

// SubmitLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) SubmitLeaveRequest(ctx context.Context, req leave.SubmitLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	w, err := l.WorkerRepository.GetByID(ctx, req.WorkerID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := l.requestService.Submit(ctx, w, lt, req, l.now())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.toResponse(created, w, lt), nil
}

// CreateDirectEntry implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateDirectEntry(ctx context.Context, req leave.DirectEntryRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	w, err := l.WorkerRepository.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, worker.ErrWorkerNotFound) {
			return leave.LeaveRequestResponse{}, validator.ValidationErrors{{Field: "worker_id", Message: "Selected worker not found"}}
		}
		return leave.LeaveRequestResponse{}, err
	}
	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := l.requestService.DirectEntry(ctx, w, lt, req, l.now())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.toResponse(created, w, lt), nil
}

// VerifyLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) VerifyLeaveRequest(ctx context.Context, requestID, hrID string) (leave.LeaveRequestResponse, error) {
	if !validator.IsValidUUID(requestID) {
		return leave.LeaveRequestResponse{}, validator.ValidationErrors{{Field: "id", Message: "id must be a valid UUID"}}
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	lt, err := l.LeaveTypeRepository.GetByID(ctx, request.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	verified, err := l.requestService.Verify(ctx, request, lt, hrID, l.now())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(withNames(verified, request)), nil
}

// DecideLeaveRequest implements leave.LeaveService. The status change and the
// balance debit commit together.
func (l *LeaveServiceImpl) DecideLeaveRequest(ctx context.Context, req leave.DecideLeaveRequestRequest) (leave.DecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.DecisionResponse{}, err
	}

	var (
		request leave.LeaveRequest
		decided leave.LeaveRequest
		balance *leave.LeaveBalance
	)
	err := l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		request, err = l.LeaveRequestRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		lt, err := l.LeaveTypeRepository.GetByID(txCtx, request.LeaveTypeID)
		if err != nil {
			return err
		}

		decided, balance, err = l.requestService.Decide(txCtx, request, lt, req.ManagerID, leave.Decision(req.Decision), l.asOf(), l.now())
		return err
	})
	if err != nil {
		return leave.DecisionResponse{}, err
	}

	resp := leave.DecisionResponse{Request: leave.NewLeaveRequestResponse(withNames(decided, request))}
	if balance != nil {
		b := leave.NewLeaveBalanceResponse(*balance)
		resp.Balance = &b
	}
	return resp, nil
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, requestID string) (leave.LeaveRequestResponse, error) {
	if !validator.IsValidUUID(requestID) {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

// GetAttachment implements leave.LeaveService.
func (l *LeaveServiceImpl) GetAttachment(ctx context.Context, requestID string) (leave.Attachment, error) {
	if !validator.IsValidUUID(requestID) {
		return leave.Attachment{}, leave.ErrLeaveRequestNotFound
	}
	return l.LeaveRequestRepository.GetAttachment(ctx, requestID)
}

// ListLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	filter.Normalize()

	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	items := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, leave.NewLeaveRequestResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (l *LeaveServiceImpl) toResponse(r leave.LeaveRequest, w worker.Worker, lt leave.LeaveType) leave.LeaveRequestResponse {
	workerName, leaveTypeName := w.Name, lt.Name
	r.WorkerName = &workerName
	r.LeaveTypeName = &leaveTypeName
	if r.Attachment != nil {
		r.HasAttachment = true
		mimeType := r.Attachment.MimeType
		r.AttachmentType = &mimeType
	}
	return leave.NewLeaveRequestResponse(r)
}

// withNames copies the joined names a status update does not return.
func withNames(updated, original leave.LeaveRequest) leave.LeaveRequest {
	if updated.WorkerName == nil {
		updated.WorkerName = original.WorkerName
	}
	if updated.LeaveTypeName == nil {
		updated.LeaveTypeName = original.LeaveTypeName
	}
	return updated
}
