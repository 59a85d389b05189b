package httpx

import (
	"net/http"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes err as {"error": ...}. Conflicts also carry the dependent
// counts; internal errors are logged and answered with a generic message.
func Error(c *gin.Context, log logger.ZapLogger, err error) {
	status := apperror.HTTPStatus(err)

	body := gin.H{"error": err.Error()}
	switch status {
	case http.StatusUnauthorized:
		body["error"] = "Unauthorized"
	case http.StatusConflict:
		if conflict, ok := apperror.AsConflict(err); ok {
			body["items_count"] = conflict.ItemsCount
			body["subcategories_count"] = conflict.SubcategoriesCount
		}
	case http.StatusInternalServerError:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		body["error"] = "Internal server error"
	}

	c.AbortWithStatusJSON(status, body)
}

// InvalidBody answers a request whose JSON body could not be decoded. The
// credential can then only come from the header; without a valid one the
// answer is 401, never 400.
func InvalidBody(c *gin.Context, gate *auth.Gate) {
	if err := gate.Authorize(Credential(c, "")); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
