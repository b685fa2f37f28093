package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
)

// BalanceService owns the leave_balances ledger: seeding, refresh, carry forward
// and approval debits. Callers provide the transaction through ctx.
type BalanceService struct {
	leave.LeaveTypeRepository
	leave.TenurePolicyRepository
	leave.LeaveBalanceRepository
	calculator *BalanceCalculator
}

func NewBalanceService(
	leaveTypeRepository leave.LeaveTypeRepository,
	tenurePolicyRepository leave.TenurePolicyRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	calculator *BalanceCalculator,
) *BalanceService {
	return &BalanceService{
		LeaveTypeRepository:    leaveTypeRepository,
		TenurePolicyRepository: tenurePolicyRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
		calculator:             calculator,
	}
}

// SeedBalances writes the balances a new worker starts asOf's year with.
// Types the worker is not entitled to get no row.
func (b *BalanceService) SeedBalances(ctx context.Context, w worker.Worker, asOf time.Time) ([]leave.LeaveBalance, error) {
	return b.sync(ctx, w, asOf)
}

// RefreshBalances recomputes every balance of the worker for asOf's year and
// returns them. Existing rows keep used_days and carry_forward.
func (b *BalanceService) RefreshBalances(ctx context.Context, w worker.Worker, asOf time.Time) ([]leave.LeaveBalance, error) {
	if _, err := b.sync(ctx, w, asOf); err != nil {
		return nil, err
	}

	balances, err := b.LeaveBalanceRepository.ListByWorkerYear(ctx, w.ID, asOf.Year())
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	return balances, nil
}

func (b *BalanceService) sync(ctx context.Context, w worker.Worker, asOf time.Time) ([]leave.LeaveBalance, error) {
	year := asOf.Year()

	leaveTypes, err := b.LeaveTypeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	policies, err := b.TenurePolicyRepository.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenure policies: %w", err)
	}

	// Locked so an approval debit cannot land between reading used_days and the upsert.
	existing, err := b.LeaveBalanceRepository.ListByWorkerYearForUpdate(ctx, w.ID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	byType := make(map[string]leave.LeaveBalance, len(existing))
	for _, balance := range existing {
		byType[balance.LeaveTypeID] = balance
	}

	written := make([]leave.LeaveBalance, 0, len(leaveTypes))
	for _, leaveType := range leaveTypes {
		current, hasRow := byType[leaveType.ID]

		carryForward := 0
		used := decimal.Zero
		if hasRow {
			carryForward = current.CarryForward
			used = current.UsedDays
		}

		entitlement := b.calculator.Calculate(w, leaveType, policies, carryForward, asOf)
		if entitlement.Withheld {
			// A worker moved onto a contract loses the row seeded before the change.
			if hasRow {
				if err := b.LeaveBalanceRepository.Delete(ctx, current.ID); err != nil {
					return nil, fmt.Errorf("failed to remove withheld %s balance: %w", leaveType.Name, err)
				}
				slog.Info("Withheld leave balance removed", "worker_id", w.ID, "leave_type", leaveType.Name, "year", year)
			}
			continue
		}
		if !hasRow && !entitlement.Seedable() {
			slog.Debug("Nothing accrued yet, skipping", "worker_id", w.ID, "leave_type", leaveType.Name)
			continue
		}

		balance, err := b.LeaveBalanceRepository.Upsert(ctx, leave.LeaveBalance{
			WorkerID:       w.ID,
			LeaveTypeID:    leaveType.ID,
			Year:           year,
			EntitledDays:   entitlement.Entitled,
			UsedDays:       used,
			CarryForward:   carryForward,
			TotalAvailable: entitlement.Available(used),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to write %s balance: %w", leaveType.Name, err)
		}

		name, category := leaveType.Name, leaveType.Category
		balance.LeaveTypeName = &name
		balance.Category = &category
		written = append(written, balance)

		slog.Debug("Leave balance written",
			"worker_id", w.ID,
			"leave_type", leaveType.Name,
			"entitled", entitlement.Entitled.String(),
			"available", balance.TotalAvailable.String(),
			"year", year,
		)
	}

	return written, nil
}

// UpdateCarryForward sets the annual carry forward, clamped to [0, 5], and
// recomputes total_available. The balance row is locked for the update.
func (b *BalanceService) UpdateCarryForward(ctx context.Context, workerID string, leaveType leave.LeaveType, carryForward int, year int) (leave.LeaveBalance, error) {
	if leaveType.Category != leave.CategoryAnnual {
		return leave.LeaveBalance{}, leave.ErrCarryForwardNotAnnual
	}

	balance, err := b.LeaveBalanceRepository.GetByWorkerTypeYearForUpdate(ctx, workerID, leaveType.ID, year)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	carryForward = leave.ClampCarryForward(carryForward)
	total := b.calculator.CarryForwardTotal(balance.EntitledDays, carryForward, balance.UsedDays)

	updated, err := b.LeaveBalanceRepository.UpdateCarryForward(ctx, balance.ID, carryForward, total)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to update carry forward: %w", err)
	}

	slog.Info("Carry forward updated",
		"worker_id", workerID,
		"carry_forward", carryForward,
		"total_available", total.String(),
		"year", year,
	)
	return updated, nil
}

// Debit adds days to used_days of the worker's balance for year. A missing
// balance is an error so the surrounding transaction rolls back.
func (b *BalanceService) Debit(ctx context.Context, workerID, leaveTypeID string, year int, days decimal.Decimal) (leave.LeaveBalance, error) {
	balance, err := b.LeaveBalanceRepository.GetByWorkerTypeYearForUpdate(ctx, workerID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			slog.Warn("No leave balance to debit", "worker_id", workerID, "leave_type_id", leaveTypeID, "year", year)
		}
		return leave.LeaveBalance{}, err
	}

	updated, err := b.LeaveBalanceRepository.AddUsedDays(ctx, balance.ID, days)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to debit leave balance: %w", err)
	}
	return updated, nil
}
