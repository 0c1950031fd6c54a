package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/pkg/apperror"
)

// ResponseError writes the standardized error body for a failed operation.
// Validation errors additionally carry the full violation list.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	var validationErr *apperror.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(code, gin.H{
			"error":      validationErr.Error(),
			"violations": validationErr.Violations,
		})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
