package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const balanceColumns = `
	id, worker_id, leave_type_id, year,
	entitled_days, used_days, carry_forward, total_available,
	created_at, updated_at`

func scanBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.WorkerID, &b.LeaveTypeID, &b.Year,
		&b.EntitledDays, &b.UsedDays, &b.CarryForward, &b.TotalAvailable,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, err
}

// Upsert implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	query := `
		INSERT INTO leave_balances (
			id, worker_id, leave_type_id, year,
			entitled_days, used_days, carry_forward, total_available,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
		ON CONFLICT (worker_id, leave_type_id, year) DO UPDATE
		SET entitled_days = EXCLUDED.entitled_days,
			total_available = EXCLUDED.total_available,
			updated_at = NOW()
		RETURNING ` + balanceColumns

	return scanBalance(q.QueryRow(ctx, query,
		id, balance.WorkerID, balance.LeaveTypeID, balance.Year,
		balance.EntitledDays, balance.UsedDays, balance.CarryForward, balance.TotalAvailable,
	))
}

// GetByWorkerTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByWorkerTypeYear(ctx context.Context, workerID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + balanceColumns + `
		FROM leave_balances
		WHERE worker_id = $1 AND leave_type_id = $2 AND year = $3`

	return scanBalance(q.QueryRow(ctx, query, workerID, leaveTypeID, year))
}

// GetByWorkerTypeYearForUpdate implements leave.LeaveBalanceRepository. The row
// stays locked until the surrounding transaction ends.
func (r *leaveBalanceRepositoryImpl) GetByWorkerTypeYearForUpdate(ctx context.Context, workerID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + balanceColumns + `
		FROM leave_balances
		WHERE worker_id = $1 AND leave_type_id = $2 AND year = $3
		FOR UPDATE`

	return scanBalance(q.QueryRow(ctx, query, workerID, leaveTypeID, year))
}

// ListByWorkerYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByWorkerYear(ctx context.Context, workerID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.worker_id, lb.leave_type_id, lb.year,
			   lb.entitled_days, lb.used_days, lb.carry_forward, lb.total_available,
			   lb.created_at, lb.updated_at,
			   lt.name AS leave_type_name, lt.category
		FROM leave_balances lb
		JOIN leave_types lt ON lb.leave_type_id = lt.id
		WHERE lb.worker_id = $1 AND lb.year = $2
		ORDER BY lt.name
	`

	rows, err := q.Query(ctx, query, workerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var b leave.LeaveBalance
		if err := rows.Scan(
			&b.ID, &b.WorkerID, &b.LeaveTypeID, &b.Year,
			&b.EntitledDays, &b.UsedDays, &b.CarryForward, &b.TotalAvailable,
			&b.CreatedAt, &b.UpdatedAt,
			&b.LeaveTypeName, &b.Category,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// ListByWorkerYearForUpdate implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByWorkerYearForUpdate(ctx context.Context, workerID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + balanceColumns + `
		FROM leave_balances
		WHERE worker_id = $1 AND year = $2
		ORDER BY leave_type_id
		FOR UPDATE`

	rows, err := q.Query(ctx, query, workerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// UpdateCarryForward implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) UpdateCarryForward(ctx context.Context, id string, carryForward int, totalAvailable decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET carry_forward = $2, total_available = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + balanceColumns

	return scanBalance(q.QueryRow(ctx, query, id, carryForward, totalAvailable))
}

// AddUsedDays implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) AddUsedDays(ctx context.Context, id string, days decimal.Decimal) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_balances
		SET used_days = used_days + $2,
			total_available = GREATEST(0, total_available - $2),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + balanceColumns

	return scanBalance(q.QueryRow(ctx, query, id, days))
}

// Delete implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_balances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}
