package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// requestColumns never selects the attachment bytes; GetAttachment loads them.
const requestColumns = `
	lr.id, lr.worker_id, lr.leave_type_id,
	lr.start_date, lr.end_date, lr.reason, lr.total_days, lr.status,
	lr.attachment IS NOT NULL, lr.attachment_type,
	lr.approved_by, lr.verified_by,
	lr.applied_at, lr.verified_at, lr.decision_date`

func scanRequest(row pgx.Row, extra ...interface{}) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	dest := []interface{}{
		&req.ID, &req.WorkerID, &req.LeaveTypeID,
		&req.StartDate, &req.EndDate, &req.Reason, &req.TotalDays, &req.Status,
		&req.HasAttachment, &req.AttachmentType,
		&req.ApprovedBy, &req.VerifiedBy,
		&req.AppliedAt, &req.VerifiedAt, &req.DecisionDate,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return req, nil
}

func scanRequestWithNames(row pgx.Row) (leave.LeaveRequest, error) {
	var workerName, leaveTypeName string
	req, err := scanRequest(row, &workerName, &leaveTypeName)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	req.WorkerName = &workerName
	req.LeaveTypeName = &leaveTypeName
	return req, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	var attachment []byte
	var attachmentType *string
	if request.Attachment != nil {
		attachment = request.Attachment.Data
		mimeType := request.Attachment.MimeType
		attachmentType = &mimeType
	}

	query := `
		INSERT INTO leave_requests AS lr (
			id, worker_id, leave_type_id,
			start_date, end_date, reason, total_days, status,
			attachment, attachment_type,
			verified_by, applied_at, verified_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7, $8,
			$9, $10,
			$11, $12, $13
		) RETURNING ` + requestColumns

	created, err := scanRequest(q.QueryRow(ctx, query,
		id, request.WorkerID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.Reason, request.TotalDays, request.Status,
		attachment, attachmentType,
		request.VerifiedBy, request.AppliedAt, request.VerifiedAt,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to insert leave request: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + `,
			   w.name AS worker_name,
			   lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN workers w ON lr.worker_id = w.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE lr.id = $1
	`

	return scanRequestWithNames(q.QueryRow(ctx, query, id))
}

// GetAttachment implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetAttachment(ctx context.Context, id string) (leave.Attachment, error) {
	q := GetQuerier(ctx, r.db)

	var data []byte
	var mimeType *string
	err := q.QueryRow(ctx, `SELECT attachment, attachment_type FROM leave_requests WHERE id = $1`, id).Scan(&data, &mimeType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Attachment{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Attachment{}, err
	}
	if data == nil {
		return leave.Attachment{}, leave.ErrAttachmentNotFound
	}

	attachment := leave.Attachment{Data: data, MimeType: "application/octet-stream"}
	if mimeType != nil {
		attachment.MimeType = *mimeType
	}
	return attachment, nil
}

// List implements leave.LeaveRequestRepository. Newest applications come first.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.WorkerID != nil && *filter.WorkerID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.worker_id = $%d", argIdx))
		args = append(args, *filter.WorkerID)
		argIdx++
	}
	if filter.LeaveTypeID != nil && *filter.LeaveTypeID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.leave_type_id = $%d", argIdx))
		args = append(args, *filter.LeaveTypeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leave_requests lr WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   w.name AS worker_name,
			   lt.name AS leave_type_name
		FROM leave_requests lr
		JOIN workers w ON lr.worker_id = w.id
		JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE %s
		ORDER BY lr.applied_at DESC, lr.id DESC
		LIMIT $%d OFFSET $%d
	`, requestColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		req, err := scanRequestWithNames(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// TransitionStatus implements leave.LeaveRequestRepository. The status check and
// the write happen in one statement, so of two racing callers only one matches.
func (r *leaveRequestRepositoryImpl) TransitionStatus(ctx context.Context, id string, from []leave.LeaveRequestStatus, t leave.StatusTransition) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	fromStatuses := make([]string, 0, len(from))
	for _, s := range from {
		fromStatuses = append(fromStatuses, string(s))
	}

	actorColumns := "approved_by = $3, decision_date = $4"
	if t.To == leave.LeaveRequestStatusVerified {
		actorColumns = "verified_by = $3, verified_at = $4"
	}

	query := `
		UPDATE leave_requests AS lr
		SET status = $5, ` + actorColumns + `
		WHERE lr.id = $1 AND lr.status = ANY($2::text[])
		RETURNING ` + requestColumns

	updated, err := scanRequest(q.QueryRow(ctx, query, id, fromStatuses, t.ActorID, t.At, t.To))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, leave.ErrLeaveRequestNotFound) {
		return leave.LeaveRequest{}, err
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return leave.LeaveRequest{}, err
	}
	if !exists {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
}
