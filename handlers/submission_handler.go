package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"openform/logger"
	"openform/models"
	"openform/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

func (h *SubmissionHandler) SubmitForm(c *gin.Context) {
	formID, ok := paramID(c, "formId", "Invalid form ID")
	if !ok {
		return
	}

	var req services.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Invalid submission payload"})
		return
	}

	meta := &models.SubmissionMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	validationErrors, err := h.submissionService.SubmitForm(formID, req.Answers, meta)
	if err != nil {
		if errors.Is(err, services.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, Response{Status: false, Message: "Form not found"})
			return
		}
		logger.Log.Error("submit form failed", zap.Uint("formId", formID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}
	if validationErrors != nil {
		c.JSON(http.StatusBadRequest, Response{Status: false, Message: "Validation failed", Errors: validationErrors})
		return
	}

	c.JSON(http.StatusCreated, Response{Status: true, Message: "Form submitted successfully"})
}

func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	formID, ok := paramID(c, "formId", "Invalid form ID")
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	submissions, total, err := h.submissionService.ListSubmissions(formID, page, limit)
	if err != nil {
		logger.Log.Error("list submissions failed", zap.Uint("formId", formID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Status: false, Message: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, Response{
		Status:  true,
		Message: "Submissions fetched successfully",
		Data:    submissions,
		Pagination: &Pagination{
			Total:      total,
			Page:       page,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}
