package holiday

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teraju-hris/leave-backend-go/internal/domain/holiday"
	"github.com/teraju-hris/leave-backend-go/internal/pkg/validator"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
}

func NewHolidayService(holidayRepository holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{HolidayRepository: holidayRepository}
}

// ListHolidays implements holiday.HolidayService.
func (h *HolidayServiceImpl) ListHolidays(ctx context.Context, year int) ([]holiday.HolidayResponse, error) {
	if year < 1900 || year > 9999 {
		return nil, validator.ValidationErrors{{Field: "year", Message: "year must be a four digit year"}}
	}

	holidays, err := h.HolidayRepository.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list public holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, ph := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(ph))
	}
	return responses, nil
}

// CreateHoliday implements holiday.HolidayService.
func (h *HolidayServiceImpl) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	created, err := h.HolidayRepository.Create(ctx, holiday.PublicHoliday{
		Name: strings.TrimSpace(req.Name),
		Date: date,
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	slog.Info("Public holiday added", "holiday_id", created.ID, "date", req.Date)
	return holiday.NewHolidayResponse(created), nil
}

// DeleteHoliday implements holiday.HolidayService.
func (h *HolidayServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}
	return h.HolidayRepository.Delete(ctx, id)
}
