package worker

import (
	"time"

	"github.com/teraju-hris/leave-backend-go/internal/pkg/calendar"
)

type Worker struct {
	ID            string
	Name          string
	Position      Position
	Contract      bool
	DateJoined    *time.Time
	SaturdayCycle calendar.SaturdayCycle
	Project       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Position string

const (
	PositionEmployee Position = "employee"
	PositionManager  Position = "manager"
	PositionHR       Position = "hr"
)

func (p Position) IsValid() bool {
	switch p {
	case PositionEmployee, PositionManager, PositionHR:
		return true
	}
	return false
}
