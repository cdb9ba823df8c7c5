package http

import "github.com/gin-gonic/gin"

type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Error message"`
}

type successResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Success message"`
	Data    interface{} `json:"data,omitempty"`
}

func newErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, errorResponse{
		Success: false,
		Message: message,
	})
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, errorResponse{
		Success: false,
		Message: message,
	})
}

func newSuccessResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, successResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
