package leave

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
)

var defaultEmergencyDays = decimal.NewFromFloat(0.5)

// DayCalculator turns date ranges into leave days and back.
type DayCalculator struct {
}

func NewDayCalculator() *DayCalculator {
	return &DayCalculator{}
}

// TotalDays sums the per-day weight over [start, end], rounded to 2 places.
func (c *DayCalculator) TotalDays(start, end time.Time, cycle calendar.SaturdayCycle) decimal.Decimal {
	total := decimal.Zero
	calendar.EachDay(start, end, func(day time.Time) {
		total = total.Add(calendar.DayWeight(day, cycle))
	})
	return total.Round(2)
}

// ForLeaveType applies the leave type's counting rule. Emergency leave ignores the
// range: the end date collapses onto the start date and the total is 0.5 unless
// emergencyDays picks 0.5 or 1.
func (c *DayCalculator) ForLeaveType(
	leaveType leave.LeaveType,
	start, end time.Time,
	cycle calendar.SaturdayCycle,
	emergencyDays *decimal.Decimal,
) (time.Time, decimal.Decimal, error) {
	if leaveType.Category == leave.CategoryEmergency {
		total := defaultEmergencyDays
		if emergencyDays != nil {
			if err := leave.ValidateEmergencyDays("total_days", *emergencyDays); err != nil {
				return time.Time{}, decimal.Zero, err
			}
			total = *emergencyDays
		}
		return calendar.Truncate(start), total, nil
	}

	return calendar.Truncate(end), c.TotalDays(start, end, cycle), nil
}

// DeriveEndDate walks forward from start spending each day's weight until total is
// used up, and returns the day the balance reached zero or below.
func (c *DayCalculator) DeriveEndDate(start time.Time, total decimal.Decimal, cycle calendar.SaturdayCycle) time.Time {
	day := calendar.Truncate(start)
	if !total.IsPositive() {
		return day
	}

	remaining := total
	for {
		remaining = remaining.Sub(calendar.DayWeight(day, cycle))
		if !remaining.IsPositive() {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
}

// EffectiveDays is the approval-time debit: inclusive calendar days minus public
// holidays in the range, never negative.
func (c *DayCalculator) EffectiveDays(start, end time.Time, holidays int) decimal.Decimal {
	days := calendar.DaysInclusive(start, end) - holidays
	if days < 0 {
		days = 0
	}
	return decimal.NewFromInt(int64(days))
}
