package dto

import "github.com/aarondl/null/v8"

type RegisterAbsenceDTO struct {
	PersonID  uint64      `json:"person_id" validate:"required,gt=0"`
	ReasonID  uint64      `json:"reason_id" validate:"required,gt=0"`
	StartDate string      `json:"start_date" validate:"required,date_ymd"`
	EndDate   string      `json:"end_date" validate:"required,date_ymd"`
	StartTime null.String `json:"start_time" validate:"omitempty,clock_hm"`
	EndTime   null.String `json:"end_time" validate:"omitempty,clock_hm"`
	Comment   null.String `json:"comment" validate:"omitempty,max=1000"`
}
