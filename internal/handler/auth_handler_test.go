package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gradeseer/gradeseer-api/internal/middleware"
	"github.com/gradeseer/gradeseer-api/internal/models"
)

func TestMeRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsClaimsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:   "u1",
		Email:    "student@example.com",
		FullName: "Student",
		Role:     models.RoleStudent,
	})

	h.Me(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "student@example.com")
}

func TestDashboardOverviewRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewDashboardHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	h.Overview(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
