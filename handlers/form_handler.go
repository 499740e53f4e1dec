package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"openform/logger"
	"openform/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FormHandler struct {
	formService *services.FormService
}

func NewFormHandler(formService *services.FormService) *FormHandler {
	return &FormHandler{
		formService: formService,
	}
}

func (h *FormHandler) CreateForm(c *gin.Context) {
	var req services.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Title is required"})
		return
	}

	form, err := h.formService.CreateForm(&req)
	if err != nil {
		logger.Log.Error("create form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, Response{Status: true, Message: "Form created successfully", Data: form})
}

func (h *FormHandler) ListFormsAdmin(c *gin.Context) {
	forms, err := h.formService.ListFormsAdmin()
	if err != nil {
		logger.Log.Error("list forms failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Forms fetched successfully", Data: forms})
}

func (h *FormHandler) UpdateForm(c *gin.Context) {
	formID, ok := formIDFromQuery(c)
	if !ok {
		return
	}

	var req services.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid form payload"})
		return
	}

	form, err := h.formService.UpdateForm(formID, &req)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, Response{Status: false, Message: "Form not found"})
			return
		}
		logger.Log.Error("update form failed", zap.Uint("formId", formID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Form updated successfully", Data: form})
}

func (h *FormHandler) DeleteForm(c *gin.Context) {
	formID, ok := formIDFromQuery(c)
	if !ok {
		return
	}

	err := h.formService.DeleteForm(formID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrHasSubmissions):
			c.JSON(http.StatusBadRequest, Response{
				Status:  false,
				Message: "Cannot delete form because submissions exist. Consider archiving instead.",
			})
		case errors.Is(err, services.ErrFormNotFound):
			c.JSON(http.StatusNotFound, Response{Status: false, Message: "Form not found"})
		default:
			logger.Log.Error("delete form failed", zap.Uint("formId", formID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Form deleted successfully"})
}

// formIDFromQuery parses the formId query parameter, writing the error
// response itself on failure.
func formIDFromQuery(c *gin.Context) (uint, bool) {
	formID, err := strconv.ParseUint(c.Query("formId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid form ID"})
		return 0, false
	}
	return uint(formID), true
}
