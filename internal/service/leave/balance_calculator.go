package leave

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
)

// Entitlement is what a worker is owed for one leave type in asOf's year.
type Entitlement struct {
	// Withheld types get no balance row at all.
	Withheld bool
	// Entitled is the full-year target.
	Entitled decimal.Decimal
	// Accrued is the available amount before used days are taken off. For annual
	// leave this is the pro-rated figure including carry forward.
	Accrued decimal.Decimal
}

// Seedable reports whether a new balance row should be written.
func (e Entitlement) Seedable() bool {
	return !e.Withheld && (e.Entitled.IsPositive() || e.Accrued.IsPositive())
}

// Available takes used days off the accrued amount, floored at zero.
func (e Entitlement) Available(used decimal.Decimal) decimal.Decimal {
	return floorZero(e.Accrued.Sub(used))
}

type BalanceCalculator struct {
	resolver *PolicyResolver
}

func NewBalanceCalculator(resolver *PolicyResolver) *BalanceCalculator {
	return &BalanceCalculator{resolver: resolver}
}

// Calculate applies the entitlement rules in priority order.
func (c *BalanceCalculator) Calculate(
	w worker.Worker,
	leaveType leave.LeaveType,
	policies []leave.TenurePolicy,
	carryForward int,
	asOf time.Time,
) Entitlement {
	switch leaveType.Category {
	case leave.CategoryEmergency:
		if w.Contract {
			return Entitlement{Withheld: true}
		}
	case leave.CategoryHospitalization, leave.CategoryMaternity:
		return flat(leaveType.DefaultLimit)
	case leave.CategoryAnnual:
		return c.calculateAnnual(w, leaveType, policies, carryForward, asOf)
	}

	tenure := calendar.TenureYears(w.DateJoined, asOf)
	days, _ := c.resolver.DaysPerYear(policies, leaveType, tenure, w.Contract)
	return flat(days)
}

// calculateAnnual accrues days_per_year/12 per elapsed month on top of the
// carry forward, floored to whole days.
func (c *BalanceCalculator) calculateAnnual(
	w worker.Worker,
	leaveType leave.LeaveType,
	policies []leave.TenurePolicy,
	carryForward int,
	asOf time.Time,
) Entitlement {
	tenure := calendar.TenureYears(w.DateJoined, asOf)
	daysPerYear, _ := c.resolver.DaysPerYear(policies, leaveType, tenure, w.Contract)
	months := calendar.MonthsElapsed(w.DateJoined, asOf)

	// floor(carry + dpy/12*months) in integer arithmetic
	accrued := (carryForward*12 + daysPerYear*months) / 12

	return Entitlement{
		Entitled: decimal.NewFromInt(int64(daysPerYear)),
		Accrued:  decimal.NewFromInt(int64(accrued)),
	}
}

// CarryForwardTotal is the total after a carry-forward edit:
// entitled + carry - used, floored at zero.
func (c *BalanceCalculator) CarryForwardTotal(entitled decimal.Decimal, carryForward int, used decimal.Decimal) decimal.Decimal {
	return floorZero(entitled.Add(decimal.NewFromInt(int64(carryForward))).Sub(used))
}

func flat(days int) Entitlement {
	d := decimal.NewFromInt(int64(days))
	return Entitlement{Entitled: d, Accrued: d}
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
