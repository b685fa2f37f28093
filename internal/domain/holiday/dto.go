package holiday

import (
	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Date string `json:"holiday_date" validate:"required"`
}

func (r *CreateHolidayRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Name != "" && validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs.Add("holiday_date", "holiday_date must be a valid date (YYYY-MM-DD)")
		}
	}
	return errs.Err()
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"holiday_date"`
}

func NewHolidayResponse(h PublicHoliday) HolidayResponse {
	return HolidayResponse{ID: h.ID, Name: h.Name, Date: h.Date.Format(calendar.DateLayout)}
}
