package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centroforma/forma-api/internal/middleware"
	"github.com/centroforma/forma-api/internal/models"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/trainers?"+rawQuery, nil)
	return c
}

func TestPageParamsDefaults(t *testing.T) {
	page, size := pageParams(testContext(t, ""))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)
}

func TestPageParamsClampsInvalidValues(t *testing.T) {
	page, size := pageParams(testContext(t, "page=-3&page_size=9999"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)

	page, size = pageParams(testContext(t, "page=abc&page_size=50"))
	assert.Equal(t, 1, page)
	assert.Equal(t, 50, size)
}

func TestBoolQuery(t *testing.T) {
	assert.Nil(t, boolQuery(testContext(t, ""), "active"))
	assert.Nil(t, boolQuery(testContext(t, "active=maybe"), "active"))

	value := boolQuery(testContext(t, "active=true"), "active")
	require.NotNil(t, value)
	assert.True(t, *value)
}

func TestDateQuery(t *testing.T) {
	parsed, err := dateQuery(testContext(t, "date_from=2026-09-01"), "date_from")
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *parsed)

	parsed, err = dateQuery(testContext(t, ""), "date_from")
	require.NoError(t, err)
	assert.Nil(t, parsed)

	_, err = dateQuery(testContext(t, "date_from=01-09-2026"), "date_from")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestActorFromContext(t *testing.T) {
	c := testContext(t, "")
	_, err := actorFromContext(c)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, err.Code)

	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleTrainer})
	actor, err := actorFromContext(c)
	require.Nil(t, err)
	assert.Equal(t, "u1", actor.UserID)
	assert.Equal(t, models.RoleTrainer, actor.Role)
}
