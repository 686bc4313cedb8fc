package dto

import "hr-system/internal/orgchart"

type OrgChartDTO struct {
	RootID       *uint64 `json:"root_id,omitempty"`
	DepartmentID *uint64 `json:"department_id,omitempty"`
	AsOf         string  `json:"as_of"`
	*orgchart.Chart
}

type SubtreeCountDTO struct {
	RootID      uint64 `json:"root_id"`
	AsOf        string `json:"as_of"`
	Descendants int    `json:"descendants"`
}

// SubtreeRowDTO - строка плоской таблицы подчинённых.
type SubtreeRowDTO struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	PositionName string  `json:"position_name"`
	Level        int     `json:"level"`
	Department   string  `json:"department"`
	ManagerID    *uint64 `json:"manager_id"`
	ManagerName  string  `json:"manager_name"`
	Depth        int     `json:"depth"`
}
