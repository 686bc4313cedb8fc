package dto

type DepartmentDTO struct {
	Name string `json:"name" validate:"required,not_blank,max=150"`
}
