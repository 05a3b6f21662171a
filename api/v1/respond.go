package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/logger"
	"github.com/foodgram-api/middleware"
	"github.com/foodgram-api/models"
	"github.com/foodgram-api/services"
	"github.com/foodgram-api/validation"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrAlreadyExists, http.StatusBadRequest},
	{services.ErrSelfSubscription, http.StatusBadRequest},
	{services.ErrRelationNotFound, http.StatusBadRequest},
	{services.ErrIngredientInUse, http.StatusBadRequest},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrUnauthenticated, http.StatusUnauthorized},
	{services.ErrPermissionDenied, http.StatusForbidden},
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

func respondValidation(c *gin.Context, verr *validation.Errors) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Validation failed",
		"errors":  verr.Fields,
	})
}

// respondError maps a service error to its HTTP status. Unknown errors are
// logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *validation.Errors
	if errors.As(err, &verr) {
		respondValidation(c, verr)
		return
	}
	if errors.Is(err, services.ErrInvalidImage) {
		respondValidation(c, validation.Field("image", validation.MsgInvalidImage))
		return
	}

	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{
				"status":  "error",
				"message": e.err.Error(),
			})
			return
		}
	}

	_ = c.Error(err)
	logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": "Internal server error",
	})
}

// bindJSON decodes and validates the body, writing a 400 on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondValidation(c, validation.FromBinding(err))
		return false
	}
	return true
}

// paramID parses a positive numeric path parameter, writing a 400 on failure
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// queryPagination reads page and limit; malformed values fall back to defaults
func queryPagination(c *gin.Context) dto.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return dto.Pagination{Page: page, Limit: limit}
}

// queryBool treats "1" and "true" as true
func queryBool(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	}
	return false
}

// requireUser returns the authenticated user, writing a 401 for anonymous requests
func requireUser(c *gin.Context) (*models.User, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, services.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}
