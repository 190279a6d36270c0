package shared

import (
	"github.com/gin-gonic/gin"

	"github.com/mirelo-app/tutor-server/internal/httperror"
)

// WriteError writes an error in the client wire shape.
func WriteError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	status, payload := httperror.Response(err)
	c.JSON(status, payload)
}
