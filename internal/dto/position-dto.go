package dto

type PositionDTO struct {
	Name         string `json:"name" validate:"required,not_blank,max=150"`
	DepartmentID uint64 `json:"department_id" validate:"required,gt=0"`
	Level        int    `json:"level" validate:"min=0"`
}
