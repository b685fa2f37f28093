package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
)

const refreshPageSize = 100

// BalanceRefresher recomputes a worker's balances for asOf's year.
type BalanceRefresher interface {
	RefreshBalances(ctx context.Context, w worker.Worker, asOf time.Time) ([]leave.LeaveBalance, error)
}

// BalanceJobs keeps accrual current without waiting for a worker to open their
// balances. On January 1 it also creates the new year's rows.
type BalanceJobs struct {
	tx         database.Transactor
	workerRepo worker.WorkerRepository
	refresher  BalanceRefresher
	now        func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

func NewBalanceJobs(
	tx database.Transactor,
	workerRepo worker.WorkerRepository,
	refresher BalanceRefresher,
	now func() time.Time,
) *BalanceJobs {
	if now == nil {
		now = time.Now
	}
	return &BalanceJobs{
		tx:         tx,
		workerRepo: workerRepo,
		refresher:  refresher,
		now:        now,
	}
}

func (j *BalanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("refresh_leave_balances", interval, j.RefreshAllBalances)
}

// RefreshAllBalances refreshes every worker at most once per calendar day. One
// worker's failure is logged and does not stop the rest.
func (j *BalanceJobs) RefreshAllBalances(ctx context.Context) error {
	asOf := calendar.Truncate(j.now())

	j.mu.Lock()
	if j.lastRun.Equal(asOf) {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	slog.Info("Cron: Starting leave balance refresh", "as_of", asOf.Format(calendar.DateLayout))

	refreshed, failed := 0, 0
	for page := 1; ; page++ {
		workers, total, err := j.workerRepo.List(ctx, worker.WorkerFilter{Page: page, Limit: refreshPageSize})
		if err != nil {
			return fmt.Errorf("failed to list workers: %w", err)
		}

		for _, w := range workers {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := j.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
				_, err := j.refresher.RefreshBalances(txCtx, w, asOf)
				return err
			})
			if err != nil {
				failed++
				slog.Warn("Cron: Failed to refresh leave balances", "worker_id", w.ID, "error", err)
				continue
			}
			refreshed++
		}

		if len(workers) == 0 || int64(page*refreshPageSize) >= total {
			break
		}
	}

	if failed == 0 {
		j.mu.Lock()
		j.lastRun = asOf
		j.mu.Unlock()
	}

	slog.Info("Cron: Leave balance refresh completed", "refreshed", refreshed, "failed", failed)
	return nil
}
