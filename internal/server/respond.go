package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiResponse is the envelope every endpoint responds with
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func respondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, apiResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// respondFail reports a business-rule failure on HTTP 200. Clients check the
// success flag, not just the status code.
func respondFail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, apiResponse{
		Success: false,
		Message: message,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{
		Success: false,
		Message: message,
		Error:   message,
	})
}
