package constants

// Ключи прав (таблица rutas). Проверяются middleware.RequirePermission.
const (
	PermPersonsView      = "personas:ver"
	PermPersonsCreate    = "personas:crear"
	PermPersonsEdit      = "personas:editar"
	PermPersonsTerminate = "personas:baja"

	PermDocumentsView   = "documentos:ver"
	PermDocumentsUpload = "documentos:cargar"
	PermDocumentsDelete = "documentos:borrar"

	PermAbsencesView     = "ausencias:ver"
	PermAbsencesRegister = "ausencias:registrar"

	PermCatalogsView = "catalogos:ver"
	PermCatalogsEdit = "catalogos:editar"

	PermRolesView = "roles:ver"
	PermRolesEdit = "roles:editar"

	PermOrgChartView = "organigrama:ver"

	PermSuperuser = "superuser"
)

// RouteDescriptions используется сидером для наполнения rutas.
var RouteDescriptions = map[string]string{
	PermPersonsView:      "Просмотр сотрудников",
	PermPersonsCreate:    "Создание сотрудников",
	PermPersonsEdit:      "Редактирование сотрудников и смена должности",
	PermPersonsTerminate: "Регистрация увольнения",
	PermDocumentsView:    "Просмотр документов",
	PermDocumentsUpload:  "Загрузка документов",
	PermDocumentsDelete:  "Удаление документов",
	PermAbsencesView:     "Просмотр отсутствий",
	PermAbsencesRegister: "Регистрация отсутствий",
	PermCatalogsView:     "Просмотр справочников",
	PermCatalogsEdit:     "Редактирование справочников",
	PermRolesView:        "Просмотр ролей и прав",
	PermRolesEdit:        "Управление ролями и правами",
	PermOrgChartView:     "Органиграмма",
	PermSuperuser:        "Полный доступ",
}
