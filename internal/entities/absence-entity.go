package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type AbsenceReason struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Absence - отсутствие сотрудника. Часы заполняются для частичного дня.
type Absence struct {
	ID         uint64      `json:"id"`
	PersonID   uint64      `json:"person_id"`
	ReasonID   uint64      `json:"reason_id"`
	ReasonName string      `json:"reason_name"`
	StartDate  time.Time   `json:"start_date"`
	EndDate    time.Time   `json:"end_date"`
	StartTime  null.String `json:"start_time"`
	EndTime    null.String `json:"end_time"`
	Comment    null.String `json:"comment"`
}
