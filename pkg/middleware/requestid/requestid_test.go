package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func run(t *testing.T, incoming string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	if incoming != "" {
		c.Request.Header.Set(Header, incoming)
	}
	Middleware()(c)
	return c, w
}

func TestMiddlewareGeneratesID(t *testing.T) {
	c, w := run(t, "")
	id := Value(c)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Header().Get(Header))
}

func TestMiddlewareKeepsCallerID(t *testing.T) {
	c, w := run(t, "gateway-trace-1")
	assert.Equal(t, "gateway-trace-1", Value(c))
	assert.Equal(t, "gateway-trace-1", w.Header().Get(Header))
}

func TestValueWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, Value(c))
}
