package dto

import (
	"github.com/aarondl/null/v8"

	"hr-system/internal/entities"
)

type CreatePersonDTO struct {
	GivenName       string      `json:"given_name" validate:"required,not_blank,max=100"`
	SurnamePaternal string      `json:"surname_paternal" validate:"required,not_blank,max=100"`
	SurnameMaternal string      `json:"surname_maternal" validate:"max=100"`
	Email           null.String `json:"email" validate:"omitempty,custom_email"`
	EmployeeNumber  null.String `json:"employee_number" validate:"omitempty,max=50"`
	PhoneOne        null.String `json:"phone_one" validate:"omitempty,phone"`
	PhoneTwo        null.String `json:"phone_two" validate:"omitempty,phone"`
	PositionID      null.Uint64 `json:"position_id"`
	ManagerID       null.Uint64 `json:"manager_id"`
	// StartDate - дата назначения должности и руководителя, по умолчанию сегодня.
	StartDate string `json:"start_date" validate:"omitempty,date_ymd"`
	Username  string `json:"username" validate:"omitempty,min=3,max=100"`
	Password  string `json:"password" validate:"required_with=Username,omitempty,min=6"`
}

// UpdatePersonDTO - полное состояние формы. Пустые position_id и manager_id
// означают "снять должность" и "убрать руководителя".
type UpdatePersonDTO struct {
	GivenName       string      `json:"given_name" validate:"required,not_blank,max=100"`
	SurnamePaternal string      `json:"surname_paternal" validate:"required,not_blank,max=100"`
	SurnameMaternal string      `json:"surname_maternal" validate:"max=100"`
	Email           null.String `json:"email" validate:"omitempty,custom_email"`
	EmployeeNumber  null.String `json:"employee_number" validate:"omitempty,max=50"`
	PhoneOne        null.String `json:"phone_one" validate:"omitempty,phone"`
	PhoneTwo        null.String `json:"phone_two" validate:"omitempty,phone"`
	PositionID      null.Uint64 `json:"position_id"`
	ManagerID       null.Uint64 `json:"manager_id"`
}

type TerminatePersonDTO struct {
	Reason string `json:"reason" validate:"required,not_blank,max=1000"`
	Date   string `json:"date" validate:"omitempty,date_ymd"`
}

type PersonDetailDTO struct {
	entities.PersonListItem
	ManagerID   null.Uint64           `json:"manager_id"`
	ManagerName null.String           `json:"manager_name"`
	Termination *entities.Termination `json:"termination,omitempty"`
}

type ManagerOptionDTO struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	PositionName string `json:"position_name"`
	Level        int    `json:"level"`
}

// PersonFormDataDTO - справочники для формы регистрации и редактирования.
type PersonFormDataDTO struct {
	Departments []entities.Department `json:"departments"`
	Positions   []entities.Position   `json:"positions"`
	Managers    []ManagerOptionDTO    `json:"managers"`
}

// ReorganizationResultDTO - что изменилось в иерархии при сохранении сотрудника.
type ReorganizationResultDTO struct {
	PositionChanged        bool     `json:"position_changed"`
	PreviousManagerID      *uint64  `json:"previous_manager_id,omitempty"`
	ReassignedSubordinates []uint64 `json:"reassigned_subordinates"`
	ManagerChanged         bool     `json:"manager_changed"`
}
