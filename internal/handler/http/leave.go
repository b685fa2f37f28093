package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/handler/http/response"
	"github.com/teraju-hris/leave-backend-go/internal/service/file"
)

type LeaveHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)

	ListPolicies(w http.ResponseWriter, r *http.Request)
	CreatePolicy(w http.ResponseWriter, r *http.Request)
	DeletePolicy(w http.ResponseWriter, r *http.Request)

	CalculateDays(w http.ResponseWriter, r *http.Request)
	DeriveEndDate(w http.ResponseWriter, r *http.Request)

	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetWorkerBalances(w http.ResponseWriter, r *http.Request)
	UpdateCarryForward(w http.ResponseWriter, r *http.Request)

	SubmitRequest(w http.ResponseWriter, r *http.Request)
	CreateDirectEntry(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetAttachment(w http.ResponseWriter, r *http.Request)
	VerifyRequest(w http.ResponseWriter, r *http.Request)
	DecideRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	fileService  file.FileService
}

func NewLeaveHandler(leaveService leave.LeaveService, fileService file.FileService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		fileService:  fileService,
	}
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	leaveTypes, err := l.leaveService.ListLeaveTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leaveTypes)
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if !decodeJSON(w, r, &req, "CreateType") {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveType, err := l.leaveService.CreateLeaveType(r.Context(), req)
	if err != nil {
		slog.Error("CreateType service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", leaveType)
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveTypeRequest
	if !decodeJSON(w, r, &req, "UpdateType") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveType, err := l.leaveService.UpdateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated successfully", leaveType)
}

// ListPolicies implements LeaveHandler.
func (l *LeaveHandlerImpl) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := l.leaveService.ListTenurePolicies(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, policies)
}

// CreatePolicy implements LeaveHandler.
func (l *LeaveHandlerImpl) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateTenurePolicyRequest
	if !decodeJSON(w, r, &req, "CreatePolicy") {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	policy, err := l.leaveService.CreateTenurePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tenure policy created successfully", policy)
}

// DeletePolicy implements LeaveHandler.
func (l *LeaveHandlerImpl) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	if err := l.leaveService.DeleteTenurePolicy(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tenure policy deleted successfully", nil)
}

// CalculateDays implements LeaveHandler. HR and managers may pass worker_id to
// calculate against another worker's Saturday rotation.
func (l *LeaveHandlerImpl) CalculateDays(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.CalculateDaysRequest
	if !decodeJSON(w, r, &req, "CalculateDays") {
		return
	}
	req.WorkerID = c.WorkerID
	if workerID := r.URL.Query().Get("worker_id"); workerID != "" && c.CanViewOthers() {
		req.WorkerID = workerID
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.CalculateTotalDays(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DeriveEndDate implements LeaveHandler.
func (l *LeaveHandlerImpl) DeriveEndDate(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.DeriveEndDateRequest
	if !decodeJSON(w, r, &req, "DeriveEndDate") {
		return
	}
	req.WorkerID = c.WorkerID
	if workerID := r.URL.Query().Get("worker_id"); workerID != "" && c.CanViewOthers() {
		req.WorkerID = workerID
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.DeriveEndDate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	balances, err := l.leaveService.GetBalances(r.Context(), c.WorkerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetWorkerBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetWorkerBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := l.leaveService.GetBalances(r.Context(), chi.URLParam(r, "workerID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// UpdateCarryForward implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateCarryForward(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateCarryForwardRequest
	if !decodeJSON(w, r, &req, "UpdateCarryForward") {
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.UpdateCarryForward(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Carry forward updated successfully", result)
}

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequestRequest
	attachment, err := decodeLeavePayload(r, l.fileService, &req)
	if err != nil {
		writePayloadError(w, "SubmitRequest", err)
		return
	}

	// worker_id always comes from the token
	req.WorkerID = c.WorkerID
	req.Attachment = attachment

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.leaveService.SubmitLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leaveRequest)
}

// CreateDirectEntry implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateDirectEntry(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.DirectEntryRequest
	attachment, err := decodeLeavePayload(r, l.fileService, &req)
	if err != nil {
		writePayloadError(w, "CreateDirectEntry", err)
		return
	}
	req.HRID = c.WorkerID
	req.Attachment = attachment

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := l.leaveService.CreateDirectEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave record created successfully", leaveRequest)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveRequestFilter{
		WorkerID:    optionalQuery(r, "worker_id"),
		LeaveTypeID: optionalQuery(r, "leave_type_id"),
		Status:      optionalQuery(r, "status"),
	}
	filter.Page, filter.Limit = pagination(r)

	l.listRequests(w, r, filter)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	filter := leave.LeaveRequestFilter{
		WorkerID:    &c.WorkerID,
		LeaveTypeID: optionalQuery(r, "leave_type_id"),
		Status:      optionalQuery(r, "status"),
	}
	filter.Page, filter.Limit = pagination(r)

	l.listRequests(w, r, filter)
}

func (l *LeaveHandlerImpl) listRequests(w http.ResponseWriter, r *http.Request, filter leave.LeaveRequestFilter) {
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.ListLeaveRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result.Items, response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// GetRequest implements LeaveHandler. Employees only see their own requests.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	leaveRequest, ok := l.visibleRequest(w, r)
	if !ok {
		return
	}

	response.Success(w, leaveRequest)
}

// GetAttachment implements LeaveHandler.
func (l *LeaveHandlerImpl) GetAttachment(w http.ResponseWriter, r *http.Request) {
	leaveRequest, ok := l.visibleRequest(w, r)
	if !ok {
		return
	}

	attachment, err := l.leaveService.GetAttachment(r.Context(), leaveRequest.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", attachment.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(attachment.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(attachment.Data); err != nil {
		slog.Error("GetAttachment write error", "request_id", leaveRequest.ID, "error", err)
	}
}

func (l *LeaveHandlerImpl) visibleRequest(w http.ResponseWriter, r *http.Request) (leave.LeaveRequestResponse, bool) {
	c, ok := caller(w, r)
	if !ok {
		return leave.LeaveRequestResponse{}, false
	}

	leaveRequest, err := l.leaveService.GetLeaveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return leave.LeaveRequestResponse{}, false
	}

	if !c.CanViewOthers() && leaveRequest.WorkerID != c.WorkerID {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return leave.LeaveRequestResponse{}, false
	}
	return leaveRequest, true
}

// VerifyRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) VerifyRequest(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	leaveRequest, err := l.leaveService.VerifyLeaveRequest(r.Context(), chi.URLParam(r, "id"), c.WorkerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request verified successfully", leaveRequest)
}

// DecideRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DecideRequest(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	var req leave.DecideLeaveRequestRequest
	if !decodeJSON(w, r, &req, "DecideRequest") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ManagerID = c.WorkerID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.DecideLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+req.Decision, result)
}
