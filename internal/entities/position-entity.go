package entities

// Position - должность (puesto). Level задает ранг для органиграммы.
type Position struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	DepartmentID   uint64 `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	Level          int    `json:"level"`
	Active         bool   `json:"active"`
}
