package routes

import (
	"net/http"

	"openform/handlers"
	"openform/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	formHandler *handlers.FormHandler,
	fieldHandler *handlers.FieldHandler,
	publicHandler *handlers.PublicHandler,
	submissionHandler *handlers.SubmissionHandler,
	adminToken string,
) {
	auth := middleware.AdminAuth(adminToken)

	// Form and field creation are open; everything else administrative sits
	// behind the bearer gate.
	router.POST("/forms", formHandler.CreateForm)
	router.POST("/forms/:formId/fields", fieldHandler.CreateField)
	router.POST("/forms/:formId/submit", auth, submissionHandler.SubmitForm)
	router.GET("/forms/:formId/listSubmissions", auth, submissionHandler.ListSubmissions)

	admin := router.Group("/admin")
	admin.Use(auth)
	{
		admin.GET("/forms", formHandler.ListFormsAdmin)
		admin.PUT("/forms", formHandler.UpdateForm)
		admin.DELETE("/forms", formHandler.DeleteForm)
		admin.PATCH("/fields/:fieldId", fieldHandler.UpdateField)
		admin.DELETE("/fields/:fieldId", fieldHandler.DeleteField)
		admin.PUT("/forms/:formId/fields/reorder", fieldHandler.ReorderFields)
		admin.GET("/formsFields", fieldHandler.ListFields)
	}

	// Public surface
	router.GET("/users/forms", publicHandler.ListForms)
	router.GET("/user/forms/:formId", publicHandler.GetFormDefinition)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
