package tenant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	ctx := SetTenantIDContext(context.Background(), "org-1")
	assert.Equal(t, "org-1", GetTenantIDFromContext(ctx))
	assert.Empty(t, GetTenantIDFromContext(context.Background()))
}

func TestRequireTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireTenant(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r2 := gin.New()
	r2.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(SetTenantIDContext(c.Request.Context(), "org-1"))
	})
	r2.GET("/x", RequireTenant(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
