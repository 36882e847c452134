package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gradeseer/gradeseer-api/internal/service"
	appErrors "github.com/gradeseer/gradeseer-api/pkg/errors"
	"github.com/gradeseer/gradeseer-api/pkg/response"
)

// ExportHandler serves downloadable transcript and report files.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Transcript godoc
// @Summary Download transcript
// @Description Render the archival history as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /exports/transcript [get]
func (h *ExportHandler) Transcript(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	file, err := h.service.Transcript(c.Request.Context(), claims.UserID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// SubjectReport godoc
// @Summary Download subject report
// @Description Render one subject's status snapshot as CSV or PDF
// @Tags Exports
// @Produce octet-stream
// @Param id path string true "Subject ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /exports/subjects/{id} [get]
func (h *ExportHandler) SubjectReport(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	file, err := h.service.SubjectReport(c.Request.Context(), claims.UserID, c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
