package postgresql

import (
	"context"
	"time"

	"github.com/teraju-hris/leave-backend-go/internal/domain/holiday"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) Create(ctx context.Context, ph holiday.PublicHoliday) (holiday.PublicHoliday, error) {
	q := GetQuerier(ctx, h.db)

	id, err := newID()
	if err != nil {
		return holiday.PublicHoliday{}, err
	}

	query := `
		INSERT INTO public_holidays (id, name, holiday_date, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	if err := q.QueryRow(ctx, query, id, ph.Name, ph.Date).Scan(&ph.ID, &ph.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return holiday.PublicHoliday{}, holiday.ErrHolidayDateExists
		}
		return holiday.PublicHoliday{}, err
	}
	return ph, nil
}

// ListByYear implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) ListByYear(ctx context.Context, year int) ([]holiday.PublicHoliday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, name, holiday_date, created_at
		FROM public_holidays
		WHERE holiday_date >= $1 AND holiday_date < $2
		ORDER BY holiday_date
	`
	rows, err := q.Query(ctx, query, calendar.Date(year, time.January, 1), calendar.Date(year+1, time.January, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]holiday.PublicHoliday, 0)
	for rows.Next() {
		var ph holiday.PublicHoliday
		if err := rows.Scan(&ph.ID, &ph.Name, &ph.Date, &ph.CreatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, ph)
	}
	return holidays, rows.Err()
}

// CountBetween implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, h.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM public_holidays WHERE holiday_date BETWEEN $1 AND $2`,
		calendar.Truncate(start), calendar.Truncate(end),
	).Scan(&count)
	return count, err
}

// Delete implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, h.db)
	commandTag, err := q.Exec(ctx, `DELETE FROM public_holidays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}
