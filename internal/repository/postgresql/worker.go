package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
)

type workerRepositoryImpl struct {
	db *database.DB
}

func NewWorkerRepository(db *database.DB) worker.WorkerRepository {
	return &workerRepositoryImpl{db: db}
}

const workerColumns = `id, name, position, contract, date_joined, saturday_cycle, project, created_at, updated_at`

func scanWorker(row pgx.Row) (worker.Worker, error) {
	var w worker.Worker
	err := row.Scan(
		&w.ID, &w.Name, &w.Position, &w.Contract, &w.DateJoined,
		&w.SaturdayCycle, &w.Project, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

// Create implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Create(ctx context.Context, newWorker worker.Worker) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return worker.Worker{}, err
	}

	query := `
		INSERT INTO workers (
			id, name, position, contract, date_joined, saturday_cycle, project,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			NOW(), NOW()
		) RETURNING ` + workerColumns

	created, err := scanWorker(q.QueryRow(ctx, query,
		id, newWorker.Name, newWorker.Position, newWorker.Contract,
		newWorker.DateJoined, newWorker.SaturdayCycle, newWorker.Project,
	))
	if err != nil {
		return worker.Worker{}, err
	}
	return created, nil
}

// GetByID implements worker.WorkerRepository.
func (r *workerRepositoryImpl) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workerColumns + ` FROM workers WHERE id = $1`

	w, err := scanWorker(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, err
	}
	return w, nil
}

// List implements worker.WorkerRepository.
func (r *workerRepositoryImpl) List(ctx context.Context, filter worker.WorkerFilter) ([]worker.Worker, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Position != nil && *filter.Position != "" {
		conditions = append(conditions, fmt.Sprintf("position = $%d", argIdx))
		args = append(args, *filter.Position)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR project ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM workers WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count workers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM workers
		WHERE %s
		ORDER BY name, id
		LIMIT $%d OFFSET $%d
	`, workerColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	workers := make([]worker.Worker, 0)
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, 0, err
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return workers, total, nil
}

// Update implements worker.WorkerRepository.
func (r *workerRepositoryImpl) Update(ctx context.Context, w worker.Worker) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE workers
		SET name = $2, position = $3, contract = $4, date_joined = $5,
			saturday_cycle = $6, project = $7, updated_at = NOW()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query,
		w.ID, w.Name, w.Position, w.Contract, w.DateJoined, w.SaturdayCycle, w.Project,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return worker.ErrWorkerNotFound
	}
	return nil
}
