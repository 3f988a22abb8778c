package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/galmuri/galmuri/internal/auth"
)

// GetUserID extracts the authenticated user's ID from the gin context.
func GetUserID(c *gin.Context) string {
	return auth.GetUserID(c)
}

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with an optional flag.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondForbidden sends a 403 Forbidden response.
func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// parseUUIDParam extracts and validates a UUID from URL parameters.
// Responds with a 400 error and returns false on malformed input.
func parseUUIDParam(c *gin.Context, paramName string) (string, bool) {
	raw := c.Param(paramName)
	if _, err := uuid.Parse(raw); err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return "", false
	}
	return raw, true
}
