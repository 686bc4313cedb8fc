package seeders

type positionSeed struct {
	Name  string
	Level int
}

// Отделы и их должности. Уровень задает размер узла на органиграмме.
var departmentsData = []struct {
	Name      string
	Positions []positionSeed
}{
	{Name: "Dirección General", Positions: []positionSeed{
		{Name: "Director General", Level: 5},
		{Name: "Asistente de Dirección", Level: 1},
	}},
	{Name: "Recursos Humanos", Positions: []positionSeed{
		{Name: "Gerente de Recursos Humanos", Level: 4},
		{Name: "Analista de Nómina", Level: 2},
		{Name: "Auxiliar de Recursos Humanos", Level: 1},
	}},
	{Name: "Tecnologías de la Información", Positions: []positionSeed{
		{Name: "Gerente de TI", Level: 4},
		{Name: "Líder de Desarrollo", Level: 3},
		{Name: "Desarrollador", Level: 2},
		{Name: "Soporte Técnico", Level: 1},
	}},
	{Name: "Finanzas", Positions: []positionSeed{
		{Name: "Gerente de Finanzas", Level: 4},
		{Name: "Contador", Level: 2},
	}},
}

var documentTypesData = []string{
	"Identificación oficial",
	"Comprobante de domicilio",
	"Acta de nacimiento",
	"CURP",
	"Contrato laboral",
}

var absenceReasonsData = []string{
	"Vacaciones",
	"Incapacidad médica",
	"Permiso personal",
	"Capacitación",
}

const superuserRoleName = "Administrador"
