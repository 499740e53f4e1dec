package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"openform/logger"
	"openform/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FieldHandler struct {
	fieldService *services.FieldService
}

func NewFieldHandler(fieldService *services.FieldService) *FieldHandler {
	return &FieldHandler{
		fieldService: fieldService,
	}
}

func (h *FieldHandler) CreateField(c *gin.Context) {
	formID, ok := paramID(c, "formId", "Invalid form ID")
	if !ok {
		return
	}

	var req services.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid field payload"})
		return
	}

	field, err := h.fieldService.CreateField(formID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFormNotFound):
			c.JSON(http.StatusNotFound, Response{Status: false, Message: "Form not found"})
		case errors.Is(err, services.ErrMissingFieldAttrs):
			c.JSON(http.StatusBadRequest, Response{Status: false, Message: "label, name and type are required fields"})
		case errors.Is(err, services.ErrInvalidFieldType):
			c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid field type"})
		case errors.Is(err, services.ErrOptionsRequired):
			c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Options are required for radio/select/checkbox fields"})
		case errors.Is(err, services.ErrInvalidPattern):
			c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid validation pattern"})
		case errors.Is(err, services.ErrDuplicateFieldName):
			c.JSON(http.StatusBadRequest, Response{
				Status:  false,
				Message: fmt.Sprintf("Field name %q already exists in this form. Please choose a different name.", req.Name),
			})
		default:
			logger.Log.Error("create field failed", zap.Uint("formId", formID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, Response{Status: true, Message: "Field created successfully", Data: field})
}

func (h *FieldHandler) UpdateField(c *gin.Context) {
	fieldID, ok := paramID(c, "fieldId", "Invalid field ID")
	if !ok {
		return
	}

	var req services.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid field payload"})
		return
	}

	field, err := h.fieldService.UpdateField(fieldID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFieldNotFound):
			c.JSON(http.StatusNotFound, Response{Status: false, Message: "Field not found"})
		case errors.Is(err, services.ErrInvalidFieldType):
			c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid field type"})
		case errors.Is(err, services.ErrOptionsRequired):
			c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Options are required for radio/select/checkbox fields"})
		case errors.Is(err, services.ErrInvalidPattern):
			c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid validation pattern"})
		default:
			logger.Log.Error("update field failed", zap.Uint("fieldId", fieldID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Field updated successfully", Data: field})
}

func (h *FieldHandler) DeleteField(c *gin.Context) {
	fieldID, ok := paramID(c, "fieldId", "Invalid field ID")
	if !ok {
		return
	}

	if err := h.fieldService.DeleteField(fieldID); err != nil {
		if errors.Is(err, services.ErrFieldNotFound) {
			c.JSON(http.StatusNotFound, Response{Status: false, Message: "Field not found"})
			return
		}
		logger.Log.Error("delete field failed", zap.Uint("fieldId", fieldID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Field deleted successfully"})
}

func (h *FieldHandler) ReorderFields(c *gin.Context) {
	formID, ok := paramID(c, "formId", "Invalid form ID")
	if !ok {
		return
	}

	var req services.ReorderFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Status:  false,
			Message: "Invalid input format. Expected array of fieldId/order pairs.",
		})
		return
	}

	if err := h.fieldService.ReorderFields(formID, req.FieldsOrder); err != nil {
		logger.Log.Error("reorder fields failed", zap.Uint("formId", formID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Fields reordered successfully"})
}

func (h *FieldHandler) ListFields(c *gin.Context) {
	formID, ok := formIDFromQuery(c)
	if !ok {
		return
	}

	fields, err := h.fieldService.ListFields(formID)
	if err != nil {
		logger.Log.Error("list fields failed", zap.Uint("formId", formID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{Status: true, Message: "Fields fetched successfully", Data: fields})
}

// paramID parses a numeric path parameter, writing the error response itself
// on failure.
func paramID(c *gin.Context, name, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: false, Message: message})
		return 0, false
	}
	return uint(id), true
}
