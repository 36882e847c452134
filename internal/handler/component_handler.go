package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeseer/gradeseer-api/internal/models"
	"github.com/gradeseer/gradeseer-api/internal/service"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
	"github.com/gradeseer/gradeseer-api/pkg/response"
)

// ComponentHandler handles grading-component endpoints nested under a subject.
type ComponentHandler struct {
	service *service.ComponentService
}

// NewComponentHandler constructs a component handler.
func NewComponentHandler(svc *service.ComponentService) *ComponentHandler {
	return &ComponentHandler{service: svc}
}

// List godoc
// @Summary List components of a subject
// @Tags Components
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/components [get]
func (h *ComponentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	components, err := h.service.List(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, components, nil)
}

// Create godoc
// @Summary Add a grading component
// @Tags Components
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body models.CreateComponentRequest true "Component payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /subjects/{id}/components [post]
func (h *ComponentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	component, err := h.service.Create(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, component)
}

// Update godoc
// @Summary Update a grading component
// @Tags Components
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param componentId path string true "Component ID"
// @Param payload body models.UpdateComponentRequest true "Component payload"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id}/components/{componentId} [put]
func (h *ComponentHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	component, err := h.service.Update(c.Request.Context(), claims.UserID, c.Param("id"), c.Param("componentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, component, nil)
}

// Delete godoc
// @Summary Delete a grading component
// @Tags Components
// @Produce json
// @Param id path string true "Subject ID"
// @Param componentId path string true "Component ID"
// @Success 204
// @Router /subjects/{id}/components/{componentId} [delete]
func (h *ComponentHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id"), c.Param("componentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
