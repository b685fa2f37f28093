package leave

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveCategory drives every category-specific rule. It is stored on the leave type
// row and only derived from the name when a type is created without one.
type LeaveCategory string

const (
	CategoryAnnual          LeaveCategory = "annual"
	CategorySick            LeaveCategory = "sick"
	CategoryEmergency       LeaveCategory = "emergency"
	CategoryHospitalization LeaveCategory = "hospitalization"
	CategoryMaternity       LeaveCategory = "maternity"
	CategoryOther           LeaveCategory = "other"
)

const (
	// DefaultMaternityDays seeds the Maternity leave type's default_limit.
	DefaultMaternityDays = 60
	// MaxCarryForward bounds the annual carry-forward.
	MaxCarryForward = 5
)

func (c LeaveCategory) IsValid() bool {
	switch c {
	case CategoryAnnual, CategorySick, CategoryEmergency, CategoryHospitalization, CategoryMaternity, CategoryOther:
		return true
	}
	return false
}

// CategoryFromName maps a leave type name onto a category.
func CategoryFromName(name string) LeaveCategory {
	n := strings.ToLower(strings.TrimSpace(name))
	words := strings.FieldsFunc(n, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	hasWord := func(want ...string) bool {
		for _, w := range words {
			for _, x := range want {
				if w == x {
					return true
				}
			}
		}
		return false
	}

	switch {
	case strings.Contains(n, "annual"), strings.Contains(n, "earned leave"), hasWord("el", "al"):
		return CategoryAnnual
	case strings.Contains(n, "emergency"), strings.Contains(n, "urgent"), hasWord("emg"):
		return CategoryEmergency
	case strings.Contains(n, "hospital"):
		return CategoryHospitalization
	case strings.Contains(n, "matern"):
		return CategoryMaternity
	case strings.Contains(n, "sick"):
		return CategorySick
	}
	return CategoryOther
}

// LeaveType entity
type LeaveType struct {
	ID           string
	Name         string
	DefaultLimit int
	Category     LeaveCategory

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TenurePolicy is one tenure band for a leave type. MaxYears nil means open ended.
type TenurePolicy struct {
	ID          string
	LeaveTypeID string
	IsContract  bool
	MinYears    int
	MaxYears    *int
	DaysPerYear int
}

// Covers reports whether tenure falls inside the band (both bounds inclusive).
func (p TenurePolicy) Covers(tenureYears int) bool {
	if tenureYears < p.MinYears {
		return false
	}
	return p.MaxYears == nil || tenureYears <= *p.MaxYears
}

// LeaveBalance entity, unique per (worker, leave type, year).
type LeaveBalance struct {
	ID             string
	WorkerID       string
	LeaveTypeID    string
	Year           int
	EntitledDays   decimal.Decimal
	UsedDays       decimal.Decimal
	CarryForward   int
	TotalAvailable decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	Category      *LeaveCategory
}

type LeaveRequestStatus string

const (
	// LeaveRequestStatusPending is the legacy unrouted state.
	LeaveRequestStatusPending        LeaveRequestStatus = "pending"
	LeaveRequestStatusPendingManager LeaveRequestStatus = "pending_manager"
	LeaveRequestStatusPendingHR      LeaveRequestStatus = "pending_hr"
	LeaveRequestStatusVerified       LeaveRequestStatus = "verified"
	LeaveRequestStatusApproved       LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected       LeaveRequestStatus = "rejected"
)

func (s LeaveRequestStatus) IsValid() bool {
	switch s {
	case LeaveRequestStatusPending, LeaveRequestStatusPendingManager, LeaveRequestStatusPendingHR,
		LeaveRequestStatusVerified, LeaveRequestStatusApproved, LeaveRequestStatusRejected:
		return true
	}
	return false
}

func (s LeaveRequestStatus) IsTerminal() bool {
	return s == LeaveRequestStatusApproved || s == LeaveRequestStatusRejected
}

// Decision is the manager's verdict on an annual leave request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Attachment is a supporting document stored alongside a leave request.
type Attachment struct {
	Data     []byte
	MimeType string
}

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	WorkerID    string
	LeaveTypeID string

	StartDate time.Time
	EndDate   time.Time
	Reason    string
	TotalDays decimal.Decimal

	Status LeaveRequestStatus

	// Attachment bytes are only loaded by the attachment lookup.
	Attachment     *Attachment
	HasAttachment  bool
	AttachmentType *string

	ApprovedBy   *string
	VerifiedBy   *string
	AppliedAt    time.Time
	VerifiedAt   *time.Time
	DecisionDate *time.Time

	// Relationships (for responses)
	WorkerName    *string
	LeaveTypeName *string
}

// StatusTransition describes a compare-and-set status change.
type StatusTransition struct {
	To      LeaveRequestStatus
	ActorID string
	At      time.Time
}
