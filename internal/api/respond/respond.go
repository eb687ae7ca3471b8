// Package respond writes the JSON error envelope shared by handlers and
// middleware.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uninorte/feria-gamer/internal/validation"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	StatusCode int                     `json:"statusCode"`
	Message    string                  `json:"message"`
	Error      string                  `json:"error"`
	Errors     []validation.FieldError `json:"errors,omitempty"`
}

// Error writes an error response with the given status and message
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// Abort writes an error response and stops the handler chain
func Abort(c *gin.Context, status int, message string) {
	Error(c, status, message)
	c.Abort()
}

// BadRequest writes a 400 carrying the field errors derived from err
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "La solicitud no es válida",
		Error:      http.StatusText(http.StatusBadRequest),
		Errors:     validation.Describe(err),
	})
}
