package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeseer/gradeseer-api/internal/dto"
	"github.com/gradeseer/gradeseer-api/internal/service"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
	"github.com/gradeseer/gradeseer-api/pkg/response"
)

// AdvisorHandler serves the academic advisor chat endpoint.
type AdvisorHandler struct {
	service *service.AdvisorService
}

// NewAdvisorHandler constructs an advisor handler.
func NewAdvisorHandler(svc *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{service: svc}
}

// Chat godoc
// @Summary Ask the academic advisor
// @Description Answer a student question grounded in their grade data. Falls back to a locally rendered summary when the model is unavailable.
// @Tags Advisor
// @Accept json
// @Produce json
// @Param payload body dto.ChatRequest true "Chat payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /advisor/chat [post]
func (h *AdvisorHandler) Chat(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chat payload"))
		return
	}

	res, err := h.service.Chat(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
