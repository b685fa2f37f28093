package holiday

import "errors"

var (
	ErrHolidayNotFound   = errors.New("Public holiday not found")
	ErrHolidayDateExists = errors.New("A public holiday already exists on this date")
)
