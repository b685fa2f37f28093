package worker

import "context"

type WorkerRepository interface {
	Create(ctx context.Context, newWorker Worker) (Worker, error)
	GetByID(ctx context.Context, id string) (Worker, error)
	List(ctx context.Context, filter WorkerFilter) ([]Worker, int64, error)
	Update(ctx context.Context, w Worker) error
}
