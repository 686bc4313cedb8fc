package entities

import (
	"strings"
	"time"

	"github.com/aarondl/null/v8"

	"hr-system/pkg/constants"
)

type Person struct {
	ID              uint64                 `json:"id"`
	GivenName       string                 `json:"given_name"`
	SurnamePaternal string                 `json:"surname_paternal"`
	SurnameMaternal string                 `json:"surname_maternal"`
	Email           null.String            `json:"email"`
	EmployeeNumber  null.String            `json:"employee_number"`
	PhoneOne        null.String            `json:"phone_one"`
	PhoneTwo        null.String            `json:"phone_two"`
	Status          constants.PersonStatus `json:"status"`
	CreatedAt       *time.Time             `json:"created_at"`
	UpdatedAt       *time.Time             `json:"updated_at"`
}

// FullName - "apellido paterno, apellido materno, nombres", пустые части пропускаются.
func (p Person) FullName() string {
	return FullName(p.GivenName, p.SurnamePaternal, p.SurnameMaternal)
}

func (p Person) IsTerminated() bool {
	return p.Status == constants.PersonStatusTerminated
}

func FullName(given, paternal, maternal string) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{paternal, maternal, given} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// PersonListItem - строка списка сотрудников с текущей должностью.
type PersonListItem struct {
	Person
	PositionID        null.Uint64 `json:"position_id"`
	PositionName      null.String `json:"position_name"`
	PositionLevel     null.Int    `json:"position_level"`
	DepartmentID      null.Uint64 `json:"department_id"`
	DepartmentName    null.String `json:"department_name"`
	TerminationReason null.String `json:"termination_reason"`
}
