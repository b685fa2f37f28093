package leave

import (
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
)

// PolicyResolver picks the tenure band that applies to a worker.
type PolicyResolver struct {
}

func NewPolicyResolver() *PolicyResolver {
	return &PolicyResolver{}
}

// Resolve returns the band for (leaveTypeID, contract) covering tenureYears with the
// largest MinYears. Equal lower bounds prefer the tighter upper bound, then the lower ID.
func (p *PolicyResolver) Resolve(policies []leave.TenurePolicy, leaveTypeID string, tenureYears int, contract bool) (leave.TenurePolicy, error) {
	var best *leave.TenurePolicy
	for i := range policies {
		candidate := &policies[i]
		if candidate.LeaveTypeID != leaveTypeID || candidate.IsContract != contract {
			continue
		}
		if !candidate.Covers(tenureYears) {
			continue
		}
		if best == nil || moreSpecific(candidate, best) {
			best = candidate
		}
	}

	if best == nil {
		return leave.TenurePolicy{}, leave.ErrPolicyNotFound
	}
	return *best, nil
}

// DaysPerYear resolves the entitlement and falls back to the type's default_limit.
func (p *PolicyResolver) DaysPerYear(policies []leave.TenurePolicy, leaveType leave.LeaveType, tenureYears int, contract bool) (days int, resolved bool) {
	policy, err := p.Resolve(policies, leaveType.ID, tenureYears, contract)
	if err != nil {
		return leaveType.DefaultLimit, false
	}
	return policy.DaysPerYear, true
}

func moreSpecific(a, b *leave.TenurePolicy) bool {
	if a.MinYears != b.MinYears {
		return a.MinYears > b.MinYears
	}
	switch {
	case a.MaxYears != nil && b.MaxYears == nil:
		return true
	case a.MaxYears == nil && b.MaxYears != nil:
		return false
	case a.MaxYears != nil && b.MaxYears != nil && *a.MaxYears != *b.MaxYears:
		return *a.MaxYears < *b.MaxYears
	}
	return a.ID < b.ID
}
