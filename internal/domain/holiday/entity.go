package holiday

import "time"

// PublicHoliday is a non-working calendar day excluded from approval debits.
type PublicHoliday struct {
	ID        string
	Name      string
	Date      time.Time
	CreatedAt time.Time
}
