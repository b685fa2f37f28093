package worker

import (
	"context"
	"time"

	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
)

// WorkerService defines business logic for worker operations
type WorkerService interface {
	// CreateWorker inserts the worker and seeds current-year leave balances atomically
	CreateWorker(ctx context.Context, req CreateWorkerRequest) (CreateWorkerResponse, error)

	// UpdateWorker applies an HR edit
	UpdateWorker(ctx context.Context, req UpdateWorkerRequest) (WorkerResponse, error)

	GetWorker(ctx context.Context, id string) (WorkerResponse, error)
	ListWorkers(ctx context.Context, filter WorkerFilter) (ListWorkerResponse, error)
}

// BalanceSeeder creates the balances a new worker starts the year with.
type BalanceSeeder interface {
	SeedBalances(ctx context.Context, w Worker, asOf time.Time) ([]leave.LeaveBalance, error)
}
