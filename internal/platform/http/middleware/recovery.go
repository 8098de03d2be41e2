package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"zaitan_backend/internal/api"
)

// Recovery turns a handler panic into a 500. The panic value is echoed only when verbose is set.
func Recovery(verbose bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
			"stack", string(debug.Stack()),
		)
		resp := api.ErrorResponse{Error: "internal server error"}
		if verbose {
			resp.Details = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Not Found"})
}
