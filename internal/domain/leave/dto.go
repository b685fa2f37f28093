package leave

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

var (
	emergencyHalfDay = decimal.NewFromFloat(0.5)
	emergencyFullDay = decimal.NewFromInt(1)
)

// ValidateEmergencyDays accepts exactly 0.5 or 1.0.
func ValidateEmergencyDays(field string, d decimal.Decimal) error {
	if d.Equal(emergencyHalfDay) || d.Equal(emergencyFullDay) {
		return nil
	}
	return validator.ValidationErrors{{Field: field, Message: field + " for emergency leave must be 0.5 or 1"}}
}

// validateRange checks the date pair and returns the parsed dates. endRequired
// is false when the end date may be derived.
func validateRange(errs *validator.ValidationErrors, start, end string, endRequired bool) (time.Time, time.Time) {
	var startDate, endDate time.Time
	var ok bool

	if validator.IsEmpty(start) {
		errs.Add("start_date", "start_date is required")
	} else if startDate, ok = validator.IsValidDate(start); !ok {
		errs.Add("start_date", "start_date must be a valid date (YYYY-MM-DD)")
	}

	if validator.IsEmpty(end) {
		if endRequired {
			errs.Add("end_date", "end_date is required")
		}
	} else if endDate, ok = validator.IsValidDate(end); !ok {
		errs.Add("end_date", "end_date must be a valid date (YYYY-MM-DD)")
	}

	if !startDate.IsZero() && !endDate.IsZero() && endDate.Before(startDate) {
		errs.Add("end_date", "end_date cannot be before start_date")
	}
	return startDate, endDate
}

type CreateLeaveTypeRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	DefaultLimit int     `json:"default_limit" validate:"gte=0"`
	Category     *string `json:"category,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Name != "" && validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if r.Category != nil && !LeaveCategory(*r.Category).IsValid() {
		errs.Add("category", "category must be one of [annual sick emergency hospitalization maternity other]")
	}
	return errs.Err()
}

type UpdateLeaveTypeRequest struct {
	ID           string  `json:"-"`
	Name         *string `json:"name,omitempty" validate:"omitempty,max=255"`
	DefaultLimit *int    `json:"default_limit,omitempty" validate:"omitempty,gte=0"`
	Category     *string `json:"category,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.Category != nil && !LeaveCategory(*r.Category).IsValid() {
		errs.Add("category", "category must be one of [annual sick emergency hospitalization maternity other]")
	}
	return errs.Err()
}

type CreateTenurePolicyRequest struct {
	LeaveTypeID string `json:"leave_type_id" validate:"required"`
	IsContract  bool   `json:"is_contract"`
	MinYears    int    `json:"min_years" validate:"gte=0"`
	MaxYears    *int   `json:"max_years,omitempty"`
	DaysPerYear int    `json:"days_per_year" validate:"gte=0"`
}

func (r *CreateTenurePolicyRequest) Validate() error {
	errs := validator.Struct(r)
	if r.LeaveTypeID != "" && !validator.IsValidUUID(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id must be a valid UUID")
	}
	if r.MaxYears != nil && *r.MaxYears < r.MinYears {
		errs.Add("max_years", "max_years must not be less than min_years")
	}
	return errs.Err()
}

type CalculateDaysRequest struct {
	WorkerID    string `json:"-"`
	LeaveTypeID string `json:"leave_type_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	// EmergencyDays picks 0.5 or 1 for emergency leave.
	EmergencyDays *decimal.Decimal `json:"emergency_days,omitempty"`
}

func (r *CalculateDaysRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id must be a valid UUID")
	}
	validateRange(&errs, r.StartDate, r.EndDate, true)
	return errs.Err()
}

type DeriveEndDateRequest struct {
	WorkerID  string          `json:"-"`
	StartDate string          `json:"start_date"`
	TotalDays decimal.Decimal `json:"total_days"`
}

func (r *DeriveEndDateRequest) Validate() error {
	var errs validator.ValidationErrors
	validateRange(&errs, r.StartDate, "", false)
	if !validator.IsHalfStep(r.TotalDays) {
		errs.Add("total_days", "total_days must be a positive multiple of 0.5")
	}
	return errs.Err()
}

type CalculateDaysResponse struct {
	LeaveTypeID string          `json:"leave_type_id,omitempty"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalDays   decimal.Decimal `json:"total_days"`
}

// SubmitLeaveRequestRequest is a worker's own leave application. Annual leave may
// send total_days without end_date to have the end date derived, and emergency
// leave needs no end_date at all. Whether end_date is required depends on the
// leave type, so it is checked once the type is loaded.
type SubmitLeaveRequestRequest struct {
	WorkerID    string           `json:"-"`
	LeaveTypeID string           `json:"leave_type_id"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Reason      string           `json:"reason"`
	TotalDays   *decimal.Decimal `json:"total_days,omitempty"`
	Attachment  *Attachment      `json:"-"`
}

func (r *SubmitLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.WorkerID) {
		errs.Add("worker_id", "worker_id is required")
	}
	if !validator.IsValidUUID(r.LeaveTypeID) {
		errs.Add("leave_type_id", "Please select a leave type")
	}
	validateRange(&errs, r.StartDate, r.EndDate, false)
	if r.TotalDays != nil && !validator.IsHalfStep(*r.TotalDays) {
		errs.Add("total_days", "total_days must be a positive multiple of 0.5")
	}
	if len(r.Reason) > 2000 {
		errs.Add("reason", "reason must not exceed 2000 characters")
	}
	return errs.Err()
}

// DirectEntryRequest is an HR-entered leave record created already verified.
type DirectEntryRequest struct {
	HRID        string          `json:"-"`
	WorkerID    string          `json:"worker_id"`
	LeaveTypeID string          `json:"leave_type_id"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	TotalDays   decimal.Decimal `json:"total_days"`
	Reason      string          `json:"reason"`
	Attachment  *Attachment     `json:"-"`
}

func (r *DirectEntryRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.WorkerID) {
		errs.Add("worker_id", "Please select a worker")
	}
	if !validator.IsValidUUID(r.LeaveTypeID) {
		errs.Add("leave_type_id", "Please select a leave type")
	}
	if validator.IsEmpty(r.StartDate) || validator.IsEmpty(r.EndDate) {
		errs.Add("start_date", "Please provide start and end dates")
	} else {
		validateRange(&errs, r.StartDate, r.EndDate, true)
	}
	if !r.TotalDays.IsPositive() {
		errs.Add("total_days", "Total days must be a positive number")
	} else if !validator.IsHalfStep(r.TotalDays) {
		errs.Add("total_days", "total_days must be a multiple of 0.5")
	}
	return errs.Err()
}

type DecideLeaveRequestRequest struct {
	ID        string `json:"-"`
	ManagerID string `json:"-"`
	Decision  string `json:"decision" validate:"required,oneof=approved rejected"`
}

func (r *DecideLeaveRequestRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	return errs.Err()
}

// UpdateCarryForwardRequest is clamped to [0, MaxCarryForward] rather than rejected.
type UpdateCarryForwardRequest struct {
	WorkerID     string `json:"worker_id"`
	LeaveTypeID  string `json:"leave_type_id"`
	CarryForward int    `json:"carry_forward"`
}

func (r *UpdateCarryForwardRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidUUID(r.WorkerID) {
		errs.Add("worker_id", "worker_id must be a valid UUID")
	}
	if !validator.IsValidUUID(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id must be a valid UUID")
	}
	return errs.Err()
}

// ClampCarryForward bounds v to [0, MaxCarryForward].
func ClampCarryForward(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxCarryForward {
		return MaxCarryForward
	}
	return v
}

type LeaveRequestFilter struct {
	WorkerID    *string
	LeaveTypeID *string
	Status      *string
	Page        int
	Limit       int
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != nil && !LeaveRequestStatus(*f.Status).IsValid() {
		errs.Add("status", "status is not a valid leave request status")
	}
	if f.LeaveTypeID != nil && !validator.IsValidUUID(*f.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id must be a valid UUID")
	}
	if f.WorkerID != nil && !validator.IsValidUUID(*f.WorkerID) {
		errs.Add("worker_id", "worker_id must be a valid UUID")
	}
	if f.Page < 0 {
		errs.Add("page", "page must not be negative")
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs.Add("limit", "limit must be between 1 and 100")
	}
	return errs.Err()
}

// Normalize fills pagination defaults.
func (f *LeaveRequestFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
}

// Responses

type LeaveTypeResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	DefaultLimit int           `json:"default_limit"`
	Category     LeaveCategory `json:"category"`
}

func NewLeaveTypeResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{ID: lt.ID, Name: lt.Name, DefaultLimit: lt.DefaultLimit, Category: lt.Category}
}

type TenurePolicyResponse struct {
	ID          string `json:"id"`
	LeaveTypeID string `json:"leave_type_id"`
	IsContract  bool   `json:"is_contract"`
	MinYears    int    `json:"min_years"`
	MaxYears    *int   `json:"max_years"`
	DaysPerYear int    `json:"days_per_year"`
}

func NewTenurePolicyResponse(p TenurePolicy) TenurePolicyResponse {
	return TenurePolicyResponse{
		ID:          p.ID,
		LeaveTypeID: p.LeaveTypeID,
		IsContract:  p.IsContract,
		MinYears:    p.MinYears,
		MaxYears:    p.MaxYears,
		DaysPerYear: p.DaysPerYear,
	}
}

type LeaveBalanceResponse struct {
	ID             string          `json:"id"`
	WorkerID       string          `json:"worker_id"`
	LeaveTypeID    string          `json:"leave_type_id"`
	LeaveTypeName  *string         `json:"leave_type_name,omitempty"`
	Category       *LeaveCategory  `json:"category,omitempty"`
	Year           int             `json:"year"`
	EntitledDays   decimal.Decimal `json:"entitled_days"`
	UsedDays       decimal.Decimal `json:"used_days"`
	CarryForward   int             `json:"carry_forward"`
	TotalAvailable decimal.Decimal `json:"total_available"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:             b.ID,
		WorkerID:       b.WorkerID,
		LeaveTypeID:    b.LeaveTypeID,
		LeaveTypeName:  b.LeaveTypeName,
		Category:       b.Category,
		Year:           b.Year,
		EntitledDays:   b.EntitledDays,
		UsedDays:       b.UsedDays,
		CarryForward:   b.CarryForward,
		TotalAvailable: b.TotalAvailable,
	}
}

type CarryForwardResponse struct {
	CarryForward   int             `json:"carry_forward"`
	TotalAvailable decimal.Decimal `json:"total_available"`
}

type LeaveRequestResponse struct {
	ID             string             `json:"id"`
	WorkerID       string             `json:"worker_id"`
	WorkerName     *string            `json:"worker_name,omitempty"`
	LeaveTypeID    string             `json:"leave_type_id"`
	LeaveTypeName  *string            `json:"leave_type_name,omitempty"`
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	Reason         string             `json:"reason"`
	TotalDays      decimal.Decimal    `json:"total_days"`
	Status         LeaveRequestStatus `json:"status"`
	HasAttachment  bool               `json:"has_attachment"`
	AttachmentType *string            `json:"attachment_type,omitempty"`
	ApprovedBy     *string            `json:"approved_by,omitempty"`
	VerifiedBy     *string            `json:"verified_by,omitempty"`
	AppliedAt      time.Time          `json:"applied_at"`
	VerifiedAt     *time.Time         `json:"verified_at,omitempty"`
	DecisionDate   *time.Time         `json:"decision_date,omitempty"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:             r.ID,
		WorkerID:       r.WorkerID,
		WorkerName:     r.WorkerName,
		LeaveTypeID:    r.LeaveTypeID,
		LeaveTypeName:  r.LeaveTypeName,
		StartDate:      r.StartDate.Format(calendar.DateLayout),
		EndDate:        r.EndDate.Format(calendar.DateLayout),
		Reason:         r.Reason,
		TotalDays:      r.TotalDays,
		Status:         r.Status,
		HasAttachment:  r.HasAttachment,
		AttachmentType: r.AttachmentType,
		ApprovedBy:     r.ApprovedBy,
		VerifiedBy:     r.VerifiedBy,
		AppliedAt:      r.AppliedAt,
		VerifiedAt:     r.VerifiedAt,
		DecisionDate:   r.DecisionDate,
	}
}

type ListLeaveRequestResponse struct {
	Items      []LeaveRequestResponse `json:"items"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalItems int64                  `json:"total_items"`
	TotalPages int                    `json:"total_pages"`
}

// DecisionResponse carries the decided request and, on approval, the debited balance.
type DecisionResponse struct {
	Request LeaveRequestResponse  `json:"request"`
	Balance *LeaveBalanceResponse `json:"balance,omitempty"`
}
