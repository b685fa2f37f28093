package worker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

type WorkerServiceImpl struct {
	tx         database.Transactor
	workerRepo worker.WorkerRepository
	seeder     worker.BalanceSeeder
	now        func() time.Time
}

func NewWorkerService(
	tx database.Transactor,
	workerRepo worker.WorkerRepository,
	seeder worker.BalanceSeeder,
	now func() time.Time,
) worker.WorkerService {
	if now == nil {
		now = time.Now
	}
	return &WorkerServiceImpl{
		tx:         tx,
		workerRepo: workerRepo,
		seeder:     seeder,
		now:        now,
	}
}

// CreateWorker implements worker.WorkerService. The worker row and its opening
// balances commit together or not at all.
func (s *WorkerServiceImpl) CreateWorker(ctx context.Context, req worker.CreateWorkerRequest) (worker.CreateWorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.CreateWorkerResponse{}, err
	}

	newWorker := req.ToWorker()
	newWorker.Name = strings.TrimSpace(newWorker.Name)
	asOf := calendar.Truncate(s.now())

	var (
		created  worker.Worker
		balances []leave.LeaveBalance
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.workerRepo.Create(txCtx, newWorker)
		if err != nil {
			return fmt.Errorf("failed to create worker: %w", err)
		}

		balances, err = s.seeder.SeedBalances(txCtx, created, asOf)
		if err != nil {
			return fmt.Errorf("failed to seed leave balances: %w", err)
		}
		return nil
	})
	if err != nil {
		return worker.CreateWorkerResponse{}, err
	}

	slog.Info("Worker onboarded", "worker_id", created.ID, "balance_count", len(balances), "year", asOf.Year())

	resp := worker.CreateWorkerResponse{
		Worker:   worker.NewWorkerResponse(created),
		Balances: make([]leave.LeaveBalanceResponse, 0, len(balances)),
	}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, leave.NewLeaveBalanceResponse(b))
	}
	return resp, nil
}

// UpdateWorker implements worker.WorkerService. Balances pick the change up on
// their next refresh.
func (s *WorkerServiceImpl) UpdateWorker(ctx context.Context, req worker.UpdateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	w, err := s.workerRepo.GetByID(ctx, req.ID)
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	req.Apply(&w)
	w.Name = strings.TrimSpace(w.Name)

	if err := s.workerRepo.Update(ctx, w); err != nil {
		return worker.WorkerResponse{}, fmt.Errorf("failed to update worker: %w", err)
	}
	w.UpdatedAt = s.now()
	return worker.NewWorkerResponse(w), nil
}

// GetWorker implements worker.WorkerService.
func (s *WorkerServiceImpl) GetWorker(ctx context.Context, id string) (worker.WorkerResponse, error) {
	if !validator.IsValidUUID(id) {
		return worker.WorkerResponse{}, worker.ErrWorkerNotFound
	}

	w, err := s.workerRepo.GetByID(ctx, id)
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	return worker.NewWorkerResponse(w), nil
}

// ListWorkers implements worker.WorkerService.
func (s *WorkerServiceImpl) ListWorkers(ctx context.Context, filter worker.WorkerFilter) (worker.ListWorkerResponse, error) {
	if err := filter.Validate(); err != nil {
		return worker.ListWorkerResponse{}, err
	}
	filter.Normalize()

	workers, total, err := s.workerRepo.List(ctx, filter)
	if err != nil {
		return worker.ListWorkerResponse{}, fmt.Errorf("failed to list workers: %w", err)
	}

	items := make([]worker.WorkerResponse, 0, len(workers))
	for _, w := range workers {
		items = append(items, worker.NewWorkerResponse(w))
	}

	return worker.ListWorkerResponse{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}
