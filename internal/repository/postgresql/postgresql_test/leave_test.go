package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teraju-hris/leave-backend-go/internal/domain/holiday"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
	"github.com/teraju-hris/leave-backend-go/internal/repository/postgresql"
)

// Seeded by 0002_seed_leave_types.sql.
const (
	annualLeaveTypeID = "0192f000-0000-7000-8000-000000000001"
	sickLeaveTypeID   = "0192f000-0000-7000-8000-000000000002"
)

func createWorker(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, name string) worker.Worker {
	t.Helper()
	joined := calendar.Date(2020, time.March, 1)
	w, err := postgresql.NewWorkerRepository(setup.DB).Create(ctx, worker.Worker{
		Name:          name,
		Position:      worker.PositionEmployee,
		DateJoined:    &joined,
		SaturdayCycle: calendar.SaturdayCycleWork,
	})
	require.NoError(t, err)
	return w
}

func TestWorkerRepository_CreateGetUpdate(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewWorkerRepository(setup.DB)

	created := createWorker(t, ctx, setup, "Ayu")
	assert.NotEmpty(t, created.ID)
	require.NotNil(t, created.DateJoined)
	assert.Equal(t, "2020-03-01", created.DateJoined.Format(calendar.DateLayout))

	created.Contract = true
	created.SaturdayCycle = calendar.SaturdayCycleOff
	require.NoError(t, repo.Update(ctx, created))

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found.Contract)
	assert.Equal(t, calendar.SaturdayCycleOff, found.SaturdayCycle)

	_, err = repo.GetByID(ctx, "0192f000-0000-7000-8000-0000000000ff")
	assert.ErrorIs(t, err, worker.ErrWorkerNotFound)
}

func TestLeaveBalanceRepository_UpsertKeepsUsedAndCarry(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveBalanceRepository(setup.DB)
	w := createWorker(t, ctx, setup, "Bayu")

	first, err := repo.Upsert(ctx, leave.LeaveBalance{
		WorkerID: w.ID, LeaveTypeID: annualLeaveTypeID, Year: 2024,
		EntitledDays: decimal.NewFromInt(14), TotalAvailable: decimal.NewFromInt(7),
	})
	require.NoError(t, err)

	_, err = repo.UpdateCarryForward(ctx, first.ID, 3, decimal.NewFromInt(17))
	require.NoError(t, err)
	_, err = repo.AddUsedDays(ctx, first.ID, decimal.NewFromInt(2))
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, leave.LeaveBalance{
		WorkerID: w.ID, LeaveTypeID: annualLeaveTypeID, Year: 2024,
		EntitledDays: decimal.NewFromInt(18), TotalAvailable: decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.CarryForward)
	assert.True(t, second.UsedDays.Equal(decimal.NewFromInt(2)))
	assert.True(t, second.EntitledDays.Equal(decimal.NewFromInt(18)))
	assert.True(t, second.TotalAvailable.Equal(decimal.NewFromInt(8)))

	balances, err := repo.ListByWorkerYear(ctx, w.ID, 2024)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	require.NotNil(t, balances[0].Category)
	assert.Equal(t, leave.CategoryAnnual, *balances[0].Category)
}

func TestLeaveBalanceRepository_AddUsedDaysFloorsAvailable(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveBalanceRepository(setup.DB)
	w := createWorker(t, ctx, setup, "Citra")

	b, err := repo.Upsert(ctx, leave.LeaveBalance{
		WorkerID: w.ID, LeaveTypeID: sickLeaveTypeID, Year: 2024,
		EntitledDays: decimal.NewFromInt(2), TotalAvailable: decimal.NewFromInt(2),
	})
	require.NoError(t, err)

	updated, err := repo.AddUsedDays(ctx, b.ID, decimal.RequireFromString("3.5"))
	require.NoError(t, err)
	assert.True(t, updated.UsedDays.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, updated.TotalAvailable.IsZero())

	_, err = repo.GetByWorkerTypeYear(ctx, w.ID, sickLeaveTypeID, 2023)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestLeaveBalanceRepository_LockedListAndDelete(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveBalanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)
	w := createWorker(t, ctx, setup, "Cahya")

	b, err := repo.Upsert(ctx, leave.LeaveBalance{
		WorkerID: w.ID, LeaveTypeID: sickLeaveTypeID, Year: 2024,
		EntitledDays: decimal.NewFromInt(14), TotalAvailable: decimal.NewFromInt(14),
	})
	require.NoError(t, err)

	err = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		locked, err := repo.ListByWorkerYearForUpdate(txCtx, w.ID, 2024)
		if err != nil {
			return err
		}
		require.Len(t, locked, 1)
		assert.Equal(t, b.ID, locked[0].ID)
		return repo.Delete(txCtx, locked[0].ID)
	})
	require.NoError(t, err)

	_, err = repo.GetByWorkerTypeYear(ctx, w.ID, sickLeaveTypeID, 2024)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), leave.ErrBalanceNotFound)
}

func TestLeaveRequestRepository_TransitionStatusIsCompareAndSet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)
	w := createWorker(t, ctx, setup, "Dimas")
	manager := createWorker(t, ctx, setup, "Maya")

	created, err := repo.Create(ctx, leave.LeaveRequest{
		WorkerID:    w.ID,
		LeaveTypeID: annualLeaveTypeID,
		StartDate:   calendar.Date(2024, time.June, 17),
		EndDate:     calendar.Date(2024, time.June, 18),
		TotalDays:   decimal.NewFromInt(2),
		Status:      leave.LeaveRequestStatusPendingManager,
		Attachment:  &leave.Attachment{Data: []byte("%PDF-1.4"), MimeType: "application/pdf"},
		AppliedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, created.HasAttachment)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
				_, err := repo.TransitionStatus(txCtx, created.ID,
					[]leave.LeaveRequestStatus{leave.LeaveRequestStatusPendingManager},
					leave.StatusTransition{To: leave.LeaveRequestStatusApproved, ActorID: manager.ID, At: time.Now()},
				)
				return err
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
		}
	}
	assert.Equal(t, 1, succeeded)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, manager.ID, *stored.ApprovedBy)
	require.NotNil(t, stored.WorkerName)
	assert.Equal(t, "Dimas", *stored.WorkerName)

	attachment, err := repo.GetAttachment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", attachment.MimeType)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewWorkerRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	var createdID string
	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		w, err := repo.Create(txCtx, worker.Worker{Name: "Ghost", Position: worker.PositionEmployee, SaturdayCycle: calendar.SaturdayCycleNone})
		if err != nil {
			return err
		}
		createdID = w.ID
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetByID(ctx, createdID)
	assert.ErrorIs(t, err, worker.ErrWorkerNotFound)
}

func TestHolidayRepository_CountBetween(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewHolidayRepository(setup.DB)

	_, err := repo.Create(ctx, holiday.PublicHoliday{Name: "Founders Day", Date: calendar.Date(2024, time.June, 19)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, holiday.PublicHoliday{Name: "Duplicate", Date: calendar.Date(2024, time.June, 19)})
	assert.ErrorIs(t, err, holiday.ErrHolidayDateExists)

	n, err := repo.CountBetween(ctx, calendar.Date(2024, time.June, 17), calendar.Date(2024, time.June, 19))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.CountBetween(ctx, calendar.Date(2024, time.June, 20), calendar.Date(2024, time.June, 21))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := repo.ListByYear(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
