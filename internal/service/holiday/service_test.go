package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teraju-hris/leave-backend-go/internal/domain/holiday"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

type fakeHolidays struct {
	rows map[string]holiday.PublicHoliday
}

func (f *fakeHolidays) Create(ctx context.Context, h holiday.PublicHoliday) (holiday.PublicHoliday, error) {
	for _, existing := range f.rows {
		if existing.Date.Equal(h.Date) {
			return holiday.PublicHoliday{}, holiday.ErrHolidayDateExists
		}
	}
	h.ID = uuid.Must(uuid.NewV7()).String()
	f.rows[h.ID] = h
	return h, nil
}

func (f *fakeHolidays) ListByYear(ctx context.Context, year int) ([]holiday.PublicHoliday, error) {
	out := make([]holiday.PublicHoliday, 0)
	for _, h := range f.rows {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolidays) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	return 0, nil
}

func (f *fakeHolidays) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(f.rows, id)
	return nil
}

func TestHolidayService_CreateAndList(t *testing.T) {
	svc := NewHolidayService(&fakeHolidays{rows: map[string]holiday.PublicHoliday{}})
	ctx := context.Background()

	created, err := svc.CreateHoliday(ctx, holiday.CreateHolidayRequest{Name: " Independence Day ", Date: "2024-08-17"})
	require.NoError(t, err)
	assert.Equal(t, "Independence Day", created.Name)
	assert.Equal(t, "2024-08-17", created.Date)

	_, err = svc.CreateHoliday(ctx, holiday.CreateHolidayRequest{Name: "Duplicate", Date: "2024-08-17"})
	assert.ErrorIs(t, err, holiday.ErrHolidayDateExists)

	list, err := svc.ListHolidays(ctx, 2024)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.ListHolidays(ctx, 2025)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHolidayService_CreateHoliday_Invalid(t *testing.T) {
	svc := NewHolidayService(&fakeHolidays{rows: map[string]holiday.PublicHoliday{}})

	_, err := svc.CreateHoliday(context.Background(), holiday.CreateHolidayRequest{Name: "", Date: "17/08/2024"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "name")
	assert.Contains(t, verrs.ToMap(), "holiday_date")
}

func TestHolidayService_DeleteHoliday(t *testing.T) {
	svc := NewHolidayService(&fakeHolidays{rows: map[string]holiday.PublicHoliday{}})
	ctx := context.Background()

	created, err := svc.CreateHoliday(ctx, holiday.CreateHolidayRequest{Name: "New Year", Date: "2024-01-01"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteHoliday(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteHoliday(ctx, created.ID), holiday.ErrHolidayNotFound)
	assert.ErrorIs(t, svc.DeleteHoliday(ctx, "nope"), holiday.ErrHolidayNotFound)
}
