package handlers

import (
	"errors"
	"net/http"

	"openform/logger"
	"openform/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PublicHandler struct {
	formService *services.FormService
}

func NewPublicHandler(formService *services.FormService) *PublicHandler {
	return &PublicHandler{
		formService: formService,
	}
}

func (h *PublicHandler) ListForms(c *gin.Context) {
	forms, err := h.formService.ListFormsPublic()
	if err != nil {
		logger.Log.Error("list public forms failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Forms fetched successfully", Data: forms})
}

func (h *PublicHandler) GetFormDefinition(c *gin.Context) {
	formID, ok := paramID(c, "formId", "Invalid form ID")
	if !ok {
		return
	}

	def, err := h.formService.GetFormDefinition(formID)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, Response{Status: false, Message: "Form not found"})
			return
		}
		logger.Log.Error("get form definition failed", zap.Uint("formId", formID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Form definition fetched successfully", Data: def})
}
