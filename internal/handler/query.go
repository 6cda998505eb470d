package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/centroforma/forma-api/internal/middleware"
	"github.com/centroforma/forma-api/internal/service"
	appErrors "github.com/centroforma/forma-api/pkg/errors"
)

const queryDateLayout = "2006-01-02"

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || size < 1 || size > 200 {
		size = 20
	}
	return page, size
}

func boolQuery(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func dateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, name+" must use YYYY-MM-DD")
	}
	return &parsed, nil
}

// actorFromContext builds the service-layer caller identity from the
// JWT claims set by the auth middleware.
func actorFromContext(c *gin.Context) (service.Actor, *appErrors.Error) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return service.Actor{}, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	return service.Actor{UserID: claims.UserID, Role: claims.Role}, nil
}
