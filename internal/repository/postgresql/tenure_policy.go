package postgresql

import (
	"context"

	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
)

type tenurePolicyRepositoryImpl struct {
	db *database.DB
}

func NewTenurePolicyRepository(db *database.DB) leave.TenurePolicyRepository {
	return &tenurePolicyRepositoryImpl{db: db}
}

// Create implements leave.TenurePolicyRepository.
func (t *tenurePolicyRepositoryImpl) Create(ctx context.Context, policy leave.TenurePolicy) (leave.TenurePolicy, error) {
	q := GetQuerier(ctx, t.db)

	id, err := newID()
	if err != nil {
		return leave.TenurePolicy{}, err
	}

	query := `
		INSERT INTO leave_tenure_policies (id, leave_type_id, is_contract, min_years, max_years, days_per_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err = q.QueryRow(ctx, query,
		id, policy.LeaveTypeID, policy.IsContract, policy.MinYears, policy.MaxYears, policy.DaysPerYear,
	).Scan(&policy.ID)
	if err != nil {
		return leave.TenurePolicy{}, err
	}
	return policy, nil
}

// ListByLeaveType implements leave.TenurePolicyRepository.
func (t *tenurePolicyRepositoryImpl) ListByLeaveType(ctx context.Context, leaveTypeID string) ([]leave.TenurePolicy, error) {
	return t.list(ctx, `WHERE leave_type_id = $1`, leaveTypeID)
}

// ListAll implements leave.TenurePolicyRepository.
func (t *tenurePolicyRepositoryImpl) ListAll(ctx context.Context) ([]leave.TenurePolicy, error) {
	return t.list(ctx, "")
}

func (t *tenurePolicyRepositoryImpl) list(ctx context.Context, where string, args ...interface{}) ([]leave.TenurePolicy, error) {
	q := GetQuerier(ctx, t.db)
	query := `
		SELECT id, leave_type_id, is_contract, min_years, max_years, days_per_year
		FROM leave_tenure_policies
		` + where + `
		ORDER BY leave_type_id, is_contract, min_years, id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	policies := make([]leave.TenurePolicy, 0)
	for rows.Next() {
		var p leave.TenurePolicy
		if err := rows.Scan(&p.ID, &p.LeaveTypeID, &p.IsContract, &p.MinYears, &p.MaxYears, &p.DaysPerYear); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// Delete implements leave.TenurePolicyRepository.
func (t *tenurePolicyRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, t.db)
	commandTag, err := q.Exec(ctx, `DELETE FROM leave_tenure_policies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrTenurePolicyNotFound
	}
	return nil
}
