package worker

import (
	"time"

	"github.com/teraju-hris/leave-backend-go/internal/domain/leave"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

type CreateWorkerRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	Position      string  `json:"position" validate:"required,oneof=employee manager hr"`
	Contract      bool    `json:"contract"`
	DateJoined    string  `json:"date_joined"`
	SaturdayCycle string  `json:"saturday_cycle" validate:"omitempty,oneof=work off none"`
	Project       *string `json:"project,omitempty" validate:"omitempty,max=255"`
}

func (r *CreateWorkerRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Name != "" && validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if r.DateJoined != "" {
		if _, ok := validator.IsValidDate(r.DateJoined); !ok {
			errs.Add("date_joined", "date_joined must be a valid date (YYYY-MM-DD)")
		}
	}
	return errs.Err()
}

// ToWorker builds the entity. Call Validate first.
func (r *CreateWorkerRequest) ToWorker() Worker {
	w := Worker{
		Name:     r.Name,
		Position: Position(r.Position),
		Contract: r.Contract,
		Project:  r.Project,
	}
	w.SaturdayCycle, _ = calendar.ParseSaturdayCycle(r.SaturdayCycle)
	if d, ok := validator.IsValidDate(r.DateJoined); ok {
		w.DateJoined = &d
	}
	return w
}

type UpdateWorkerRequest struct {
	ID            string  `json:"-"`
	Name          *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Position      *string `json:"position,omitempty" validate:"omitempty,oneof=employee manager hr"`
	Contract      *bool   `json:"contract,omitempty"`
	DateJoined    *string `json:"date_joined,omitempty"`
	SaturdayCycle *string `json:"saturday_cycle,omitempty" validate:"omitempty,oneof=work off none"`
	Project       *string `json:"project,omitempty" validate:"omitempty,max=255"`
}

func (r *UpdateWorkerRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name must not be empty")
	}
	if r.DateJoined != nil && *r.DateJoined != "" {
		if _, ok := validator.IsValidDate(*r.DateJoined); !ok {
			errs.Add("date_joined", "date_joined must be a valid date (YYYY-MM-DD)")
		}
	}
	return errs.Err()
}

// Apply copies the set fields onto w. An empty date_joined clears it.
func (r *UpdateWorkerRequest) Apply(w *Worker) {
	if r.Name != nil {
		w.Name = *r.Name
	}
	if r.Position != nil {
		w.Position = Position(*r.Position)
	}
	if r.Contract != nil {
		w.Contract = *r.Contract
	}
	if r.DateJoined != nil {
		if d, ok := validator.IsValidDate(*r.DateJoined); ok {
			w.DateJoined = &d
		} else {
			w.DateJoined = nil
		}
	}
	if r.SaturdayCycle != nil {
		w.SaturdayCycle = calendar.SaturdayCycle(*r.SaturdayCycle)
	}
	if r.Project != nil {
		w.Project = r.Project
	}
}

type WorkerFilter struct {
	Position *string
	Search   *string
	Page     int
	Limit    int
}

func (f *WorkerFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Position != nil && !Position(*f.Position).IsValid() {
		errs.Add("position", "position must be one of [employee manager hr]")
	}
	if f.Page < 0 {
		errs.Add("page", "page must not be negative")
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs.Add("limit", "limit must be between 1 and 100")
	}
	return errs.Err()
}

func (f *WorkerFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
}

type WorkerResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Position      Position               `json:"position"`
	Contract      bool                   `json:"contract"`
	DateJoined    *string                `json:"date_joined"`
	SaturdayCycle calendar.SaturdayCycle `json:"saturday_cycle"`
	Project       *string                `json:"project,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func NewWorkerResponse(w Worker) WorkerResponse {
	resp := WorkerResponse{
		ID:            w.ID,
		Name:          w.Name,
		Position:      w.Position,
		Contract:      w.Contract,
		SaturdayCycle: w.SaturdayCycle,
		Project:       w.Project,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
	if w.DateJoined != nil {
		d := w.DateJoined.Format(calendar.DateLayout)
		resp.DateJoined = &d
	}
	return resp
}

type CreateWorkerResponse struct {
	Worker   WorkerResponse               `json:"worker"`
	Balances []leave.LeaveBalanceResponse `json:"balances"`
}

type ListWorkerResponse struct {
	Items      []WorkerResponse `json:"items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalItems int64            `json:"total_items"`
	TotalPages int              `json:"total_pages"`
}
