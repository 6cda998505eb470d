package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func run(t *testing.T, allowedOrigins []string, origin, method string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/api/v1/trainers", nil)
	if origin != "" {
		c.Request.Header.Set("Origin", origin)
	}
	New(allowedOrigins)(c)
	return c, w
}

func TestAllowsConfiguredOrigin(t *testing.T) {
	_, w := run(t, []string{"https://app.forma.pt"}, "https://app.forma.pt", http.MethodGet)
	assert.Equal(t, "https://app.forma.pt", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRejectsUnknownOrigin(t *testing.T) {
	_, w := run(t, []string{"https://app.forma.pt"}, "https://evil.example", http.MethodGet)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginMatchIgnoresCaseAndTrailingSlash(t *testing.T) {
	_, w := run(t, []string{"https://App.Forma.pt/"}, "https://app.forma.pt", http.MethodGet)
	assert.Equal(t, "https://app.forma.pt", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestExposesDownloadHeaders(t *testing.T) {
	_, w := run(t, nil, "", http.MethodGet)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestPreflightShortCircuits(t *testing.T) {
	c, w := run(t, nil, "https://app.forma.pt", http.MethodOptions)
	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNoContent, w.Code)
}
