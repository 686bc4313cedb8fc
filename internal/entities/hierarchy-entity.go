package entities

import "time"

// PositionAssignment - назначение на должность (asigna_puesto).
type PositionAssignment struct {
	ID         uint64     `json:"id"`
	PersonID   uint64     `json:"person_id"`
	PositionID uint64     `json:"position_id"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Active     bool       `json:"active"`
}

// ReportsToEdge - интервал подчинения (asigna_jefe). Интервал полуоткрытый:
// [EffectiveStart, EffectiveEnd), EffectiveEnd == nil значит "по сей день".
type ReportsToEdge struct {
	ID             uint64     `json:"id"`
	PersonID       uint64     `json:"person_id"`
	ManagerID      uint64     `json:"manager_id"`
	ManagerName    string     `json:"manager_name,omitempty"`
	EffectiveStart time.Time  `json:"effective_start"`
	EffectiveEnd   *time.Time `json:"effective_end"`
}

func (e ReportsToEdge) IsOpen() bool {
	return e.EffectiveEnd == nil
}

// ValidAt проверяет start <= asOf < end.
func (e ReportsToEdge) ValidAt(asOf time.Time) bool {
	if asOf.Before(e.EffectiveStart) {
		return false
	}
	return e.EffectiveEnd == nil || asOf.Before(*e.EffectiveEnd)
}

// Termination - запись об увольнении (baja_persona).
type Termination struct {
	ID       uint64    `json:"id"`
	PersonID uint64    `json:"person_id"`
	Reason   string    `json:"reason"`
	Date     time.Time `json:"date"`
}
