package routes

import (
	"github.com/labstack/echo/v4"

	"hr-system/internal/controllers"
	"hr-system/pkg/constants"
	"hr-system/pkg/middleware"
)

func runPersonRouter(
	secureGroup *echo.Group,
	personCtrl *controllers.PersonController,
	documentCtrl *controllers.DocumentController,
	absenceCtrl *controllers.AbsenceController,
	authMW *middleware.AuthMiddleware,
) {
	persons := secureGroup.Group("/persons")

	persons.GET("", personCtrl.GetPersons, authMW.RequirePermission(constants.PermPersonsView))
	persons.GET("/form-data", personCtrl.FormData, authMW.RequirePermission(constants.PermPersonsEdit))
	persons.POST("", personCtrl.CreatePerson, authMW.RequirePermission(constants.PermPersonsCreate))
	persons.GET("/:id", personCtrl.GetPerson, authMW.RequirePermission(constants.PermPersonsView))
	persons.PUT("/:id", personCtrl.UpdatePerson, authMW.RequirePermission(constants.PermPersonsEdit))
	persons.POST("/:id/termination", personCtrl.TerminatePerson, authMW.RequirePermission(constants.PermPersonsTerminate))
	persons.GET("/:id/managers", personCtrl.ManagerHistory, authMW.RequirePermission(constants.PermPersonsView))
	persons.GET("/:id/positions", personCtrl.PositionHistory, authMW.RequirePermission(constants.PermPersonsView))

	persons.GET("/:id/documents", documentCtrl.GetPersonDocuments, authMW.RequirePermission(constants.PermDocumentsView))
	persons.POST("/:id/documents", documentCtrl.UploadDocument, authMW.RequirePermission(constants.PermDocumentsUpload))
	persons.DELETE("/:id/documents/:uploadId", documentCtrl.DeleteDocument, authMW.RequirePermission(constants.PermDocumentsDelete))
	secureGroup.GET("/document-types", documentCtrl.GetDocumentTypes, authMW.RequirePermission(constants.PermDocumentsView))

	persons.GET("/:id/absences", absenceCtrl.GetPersonAbsences, authMW.RequirePermission(constants.PermAbsencesView))
	secureGroup.POST("/absences", absenceCtrl.RegisterAbsence, authMW.RequirePermission(constants.PermAbsencesRegister))
	secureGroup.GET("/absence-reasons", absenceCtrl.GetReasons, authMW.RequirePermission(constants.PermAbsencesView))
}
