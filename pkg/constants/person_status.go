package constants

type PersonStatus string

const (
	PersonStatusActive     PersonStatus = "Activo"
	PersonStatusTerminated PersonStatus = "Baja"
)

var PersonStatusNames = map[PersonStatus]string{
	PersonStatusActive:     "Активный сотрудник",
	PersonStatusTerminated: "Уволен",
}

func (s PersonStatus) IsValid() bool {
	_, ok := PersonStatusNames[s]
	return ok
}
