package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/teraju-hris/leave-backend-go/internal/domain/holiday"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
	// field, when set, carries err's text under details[field].
	field string
}

var domainErrors = []errorMapping{
	// Worker
	{err: worker.ErrWorkerNotFound, status: http.StatusNotFound, code: CodeNotFound, message: "Worker not found"},

	// Leave
	{err: leave.ErrLeaveTypeNotFound, status: http.StatusNotFound, code: CodeNotFound, message: "Leave type not found"},
	{err: leave.ErrLeaveTypeNameExists, status: http.StatusConflict, code: CodeConflict, message: "Leave type name already exists"},
	{err: leave.ErrTenurePolicyNotFound, status: http.StatusNotFound, code: CodeNotFound, message: "Tenure policy not found"},
	{err: leave.ErrLeaveRequestNotFound, status: http.StatusNotFound, code: CodeNotFound, message: "Leave request not found"},
	{err: leave.ErrAttachmentNotFound, status: http.StatusNotFound, code: CodeNotFound, message: "Attachment not found"},
	{err: leave.ErrLeaveRequestAlreadyProcessed, status: http.StatusConflict, code: CodeConflict, message: "Leave request already processed"},
	{err: leave.ErrInvalidTransition, status: http.StatusConflict, code: CodeConflict, message: "Action not allowed for this leave type"},
	{err: leave.ErrBalanceNotFound, status: http.StatusConflict, code: CodeConflict, message: "Leave balance not found for this worker and year"},
	{err: leave.ErrCarryForwardNotAnnual, status: http.StatusBadRequest, code: CodeBadRequest, message: "Carry forward only applies to annual leave"},
	{err: leave.ErrAttachmentTooLarge, status: http.StatusBadRequest, code: CodeBadRequest, message: "Attachment exceeds the size limit", field: "attachment"},
	{err: leave.ErrAttachmentTypeNotAllowed, status: http.StatusBadRequest, code: CodeBadRequest, message: "Attachment file type not allowed", field: "attachment"},

	// Holiday
	{err: holiday.ErrHolidayNotFound, status: http.StatusNotFound, code: CodeNotFound, message: "Public holiday not found"},
	{err: holiday.ErrHolidayDateExists, status: http.StatusConflict, code: CodeConflict, message: "A public holiday already exists on this date"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs)
		return
	}

	for _, m := range domainErrors {
		if !errors.Is(err, m.err) {
			continue
		}
		var details map[string]string
		if m.field != "" {
			details = map[string]string{m.field: err.Error()}
		}
		writeError(w, m.status, m.code, m.message, details)
		return
	}

	slog.Error("unhandled error", "error", err)
	writeError(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
}
