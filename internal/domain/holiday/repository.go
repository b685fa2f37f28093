package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h PublicHoliday) (PublicHoliday, error)
	ListByYear(ctx context.Context, year int) ([]PublicHoliday, error)
	// CountBetween counts holidays in [start, end], both inclusive.
	CountBetween(ctx context.Context, start, end time.Time) (int, error)
	Delete(ctx context.Context, id string) error
}
