package leave

import "errors"

var (
	ErrLeaveTypeNotFound    = errors.New("Leave type not found")
	ErrLeaveTypeNameExists  = errors.New("Leave type name already exists")
	ErrTenurePolicyNotFound = errors.New("Tenure policy not found")

	// ErrPolicyNotFound means no tenure band matched; callers fall back to default_limit.
	ErrPolicyNotFound = errors.New("No tenure policy matches")

	ErrBalanceNotFound       = errors.New("Leave balance not found")
	ErrCarryForwardNotAnnual = errors.New("Carry forward only applies to annual leave")

	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrInvalidTransition            = errors.New("Action not allowed for this leave type")

	ErrAttachmentNotFound       = errors.New("Attachment not found")
	ErrAttachmentTooLarge       = errors.New("Attachment exceeds the size limit")
	ErrAttachmentTypeNotAllowed = errors.New("Attachment file type not allowed")
)
