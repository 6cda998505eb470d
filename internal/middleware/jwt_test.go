package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

type validatorMock struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (m *validatorMock) ValidateToken(token string) (*models.JWTClaims, error) {
	m.token = token
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func runJWT(t *testing.T, auth tokenValidator, header string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/trainers", nil)
	require.NoError(t, err)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c.Request = req
	JWT(auth)(c)
	return c, w
}

func TestJWTMissingHeader(t *testing.T) {
	c, w := runJWT(t, &validatorMock{}, "")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTWrongScheme(t *testing.T) {
	c, w := runJWT(t, &validatorMock{}, "Basic dXNlcjpwYXNz")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTInvalidToken(t *testing.T) {
	auth := &validatorMock{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")}
	c, w := runJWT(t, auth, "Bearer bad-token")
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "bad-token", auth.token)
}

func TestJWTStoresClaims(t *testing.T) {
	auth := &validatorMock{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleTrainer}}
	c, _ := runJWT(t, auth, "Bearer good-token")
	require.False(t, c.IsAborted())

	claims := ClaimsFromContext(c)
	require.NotNil(t, claims)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleTrainer, claims.Role)
}

func TestClaimsFromContextUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ClaimsFromContext(c))
}
