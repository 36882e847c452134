package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeseer/gradeseer-api/internal/service"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
	"github.com/gradeseer/gradeseer-api/pkg/response"
)

// DashboardHandler serves the cross-subject overview.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Overview godoc
// @Summary Dashboard overview
// @Description Per-subject grade cards, GPA, attention list, and upcoming work
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}
