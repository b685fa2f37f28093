package leave

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teraju-hris/leave-backend-go/internal/domain/holiday"
	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/domain/worker"
)

// memStore backs the in-memory repositories used by the service tests. Its
// transactor serialises units of work and restores a snapshot on error.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	types    map[string]leave.LeaveType
	policies map[string]leave.TenurePolicy
	balances map[string]leave.LeaveBalance
	requests map[string]leave.LeaveRequest
	workers  map[string]worker.Worker
	holidays map[string]holiday.PublicHoliday
}

func newMemStore() *memStore {
	return &memStore{
		types:    map[string]leave.LeaveType{},
		policies: map[string]leave.TenurePolicy{},
		balances: map[string]leave.LeaveBalance{},
		requests: map[string]leave.LeaveRequest{},
		workers:  map[string]worker.Worker{},
		holidays: map[string]holiday.PublicHoliday{},
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	types, policies, balances := copyMap(s.types), copyMap(s.policies), copyMap(s.balances)
	requests, workers, holidays := copyMap(s.requests), copyMap(s.workers), copyMap(s.holidays)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.types, s.policies, s.balances = types, policies, balances
		s.requests, s.workers, s.holidays = requests, workers, holidays
		s.mu.Unlock()
		return err
	}
	return nil
}

// ===== leave types =====

type memLeaveTypes struct{ *memStore }

func (r memLeaveTypes) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.types {
		if existing.Name == lt.Name {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	if lt.ID == "" {
		lt.ID = newID()
	}
	r.types[lt.ID] = lt
	return lt, nil
}

func (r memLeaveTypes) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lt, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r memLeaveTypes) List(ctx context.Context) ([]leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.LeaveType, 0, len(r.types))
	for _, lt := range r.types {
		out = append(out, lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memLeaveTypes) Update(ctx context.Context, lt leave.LeaveType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[lt.ID]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	r.types[lt.ID] = lt
	return nil
}

// ===== tenure policies =====

type memPolicies struct{ *memStore }

func (r memPolicies) Create(ctx context.Context, p leave.TenurePolicy) (leave.TenurePolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = newID()
	}
	r.policies[p.ID] = p
	return p, nil
}

func (r memPolicies) ListByLeaveType(ctx context.Context, leaveTypeID string) ([]leave.TenurePolicy, error) {
	all, _ := r.ListAll(ctx)
	out := make([]leave.TenurePolicy, 0)
	for _, p := range all {
		if p.LeaveTypeID == leaveTypeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPolicies) ListAll(ctx context.Context) ([]leave.TenurePolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.TenurePolicy, 0, len(r.policies))
	for _, p := range r.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memPolicies) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.policies[id]; !ok {
		return leave.ErrTenurePolicyNotFound
	}
	delete(r.policies, id)
	return nil
}

// ===== balances =====

type memBalances struct{ *memStore }

func (r memBalances) Upsert(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.balances {
		if existing.WorkerID == b.WorkerID && existing.LeaveTypeID == b.LeaveTypeID && existing.Year == b.Year {
			existing.EntitledDays = b.EntitledDays
			existing.TotalAvailable = b.TotalAvailable
			r.balances[id] = existing
			return existing, nil
		}
	}
	b.ID = newID()
	r.balances[b.ID] = b
	return b, nil
}

func (r memBalances) GetByWorkerTypeYear(ctx context.Context, workerID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.balances {
		if b.WorkerID == workerID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return b, nil
		}
	}
	return leave.LeaveBalance{}, leave.ErrBalanceNotFound
}

func (r memBalances) GetByWorkerTypeYearForUpdate(ctx context.Context, workerID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	return r.GetByWorkerTypeYear(ctx, workerID, leaveTypeID, year)
}

func (r memBalances) ListByWorkerYear(ctx context.Context, workerID string, year int) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]leave.LeaveBalance, 0)
	for _, b := range r.balances {
		if b.WorkerID == workerID && b.Year == year {
			if lt, ok := r.types[b.LeaveTypeID]; ok {
				name, category := lt.Name, lt.Category
				b.LeaveTypeName, b.Category = &name, &category
			}
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveTypeID < out[j].LeaveTypeID })
	return out, nil
}

func (r memBalances) ListByWorkerYearForUpdate(ctx context.Context, workerID string, year int) ([]leave.LeaveBalance, error) {
	return r.ListByWorkerYear(ctx, workerID, year)
}

func (r memBalances) UpdateCarryForward(ctx context.Context, id string, carryForward int, total decimal.Decimal) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[id]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	b.CarryForward = carryForward
	b.TotalAvailable = total
	r.balances[id] = b
	return b, nil
}

func (r memBalances) AddUsedDays(ctx context.Context, id string, days decimal.Decimal) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[id]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	b.UsedDays = b.UsedDays.Add(days)
	b.TotalAvailable = floorZero(b.TotalAvailable.Sub(days))
	r.balances[id] = b
	return b, nil
}

func (r memBalances) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[id]; !ok {
		return leave.ErrBalanceNotFound
	}
	delete(r.balances, id)
	return nil
}

// ===== requests =====

type memRequests struct{ *memStore }

func (r memRequests) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = newID()
	if req.Attachment != nil {
		req.HasAttachment = true
		mimeType := req.Attachment.MimeType
		req.AttachmentType = &mimeType
	}
	r.requests[req.ID] = req
	return req, nil
}

func (r memRequests) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	req.Attachment = nil
	return req, nil
}

func (r memRequests) GetAttachment(ctx context.Context, id string) (leave.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.Attachment{}, leave.ErrLeaveRequestNotFound
	}
	if req.Attachment == nil {
		return leave.Attachment{}, leave.ErrAttachmentNotFound
	}
	return *req.Attachment, nil
}

func (r memRequests) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]leave.LeaveRequest, 0)
	for _, req := range r.requests {
		if filter.WorkerID != nil && req.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		if filter.LeaveTypeID != nil && req.LeaveTypeID != *filter.LeaveTypeID {
			continue
		}
		req.Attachment = nil
		matched = append(matched, req)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r memRequests) TransitionStatus(ctx context.Context, id string, from []leave.LeaveRequestStatus, t leave.StatusTransition) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	allowed := false
	for _, s := range from {
		if req.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	actor, at := t.ActorID, t.At
	req.Status = t.To
	if t.To == leave.LeaveRequestStatusVerified {
		req.VerifiedBy, req.VerifiedAt = &actor, &at
	} else {
		req.ApprovedBy, req.DecisionDate = &actor, &at
	}
	r.requests[id] = req
	req.Attachment = nil
	return req, nil
}

// ===== workers =====

type memWorkers struct{ *memStore }

func (r memWorkers) Create(ctx context.Context, w worker.Worker) (worker.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == "" {
		w.ID = newID()
	}
	r.workers[w.ID] = w
	return w, nil
}

func (r memWorkers) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workers[id]
	if !ok {
		return worker.Worker{}, worker.ErrWorkerNotFound
	}
	return w, nil
}

func (r memWorkers) List(ctx context.Context, filter worker.WorkerFilter) ([]worker.Worker, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]worker.Worker, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, w)
	}
	return out, int64(len(out)), nil
}

func (r memWorkers) Update(ctx context.Context, w worker.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workers[w.ID]; !ok {
		return worker.ErrWorkerNotFound
	}
	r.workers[w.ID] = w
	return nil
}

// ===== holidays =====

type memHolidays struct{ *memStore }

func (r memHolidays) Create(ctx context.Context, h holiday.PublicHoliday) (holiday.PublicHoliday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h.ID = newID()
	r.holidays[h.ID] = h
	return h, nil
}

func (r memHolidays) ListByYear(ctx context.Context, year int) ([]holiday.PublicHoliday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]holiday.PublicHoliday, 0)
	for _, h := range r.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r memHolidays) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.holidays {
		if !h.Date.Before(start) && !h.Date.After(end) {
			n++
		}
	}
	return n, nil
}

func (r memHolidays) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.holidays[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(r.holidays, id)
	return nil
}
