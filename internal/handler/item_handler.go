package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeseer/gradeseer-api/internal/models"
	"github.com/gradeseer/gradeseer-api/internal/service"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
	"github.com/gradeseer/gradeseer-api/pkg/response"
)

// ItemHandler handles assessment-item endpoints nested under a component.
type ItemHandler struct {
	service *service.ItemService
}

// NewItemHandler constructs an item handler.
func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{service: svc}
}

// List godoc
// @Summary List items of a component
// @Tags Items
// @Produce json
// @Param componentId path string true "Component ID"
// @Success 200 {object} response.Envelope
// @Router /components/{componentId}/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	items, err := h.service.List(c.Request.Context(), claims.UserID, c.Param("componentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Log an assessment item
// @Tags Items
// @Accept json
// @Produce json
// @Param componentId path string true "Component ID"
// @Param payload body models.CreateItemRequest true "Item payload"
// @Success 201 {object} response.Envelope
// @Router /components/{componentId}/items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), claims.UserID, c.Param("componentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update an assessment item
// @Tags Items
// @Accept json
// @Produce json
// @Param componentId path string true "Component ID"
// @Param itemId path string true "Item ID"
// @Param payload body models.UpdateItemRequest true "Item payload"
// @Success 200 {object} response.Envelope
// @Router /components/{componentId}/items/{itemId} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), claims.UserID, c.Param("componentId"), c.Param("itemId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete an assessment item
// @Tags Items
// @Produce json
// @Param componentId path string true "Component ID"
// @Param itemId path string true "Item ID"
// @Success 204
// @Router /components/{componentId}/items/{itemId} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("componentId"), c.Param("itemId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
