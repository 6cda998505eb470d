package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/centroforma/forma-api/internal/models"
)

func runRBAC(t *testing.T, claims *models.JWTClaims, roles ...models.UserRole) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/trainers", nil)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	RequireRoles(roles...)(c)
	return c, w
}

func TestRequireRolesAllows(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}
	c, _ := runRBAC(t, claims, models.RoleAdmin, models.RoleTrainer)
	assert.False(t, c.IsAborted())
}

func TestRequireRolesForbidsOtherRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleTrainee}
	c, w := runRBAC(t, claims, models.RoleAdmin)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	c, w := runRBAC(t, nil, models.RoleAdmin)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
