package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every API response carries {success: bool}; payloads sit under "data" and
// failures carry a human-readable "error" alongside a non-2xx status.

// OK sends a 200 response. A nil payload yields a bare {success:true}.
func OK(c *gin.Context, data interface{}) {
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created sends a 201 response with the created entity.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// BadRequest sends a 400 validation error.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// Unauthorized sends a 401 error.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
}

// NotFound sends a 404 error.
func NotFound(c *gin.Context) {
	NotFoundMsg(c, "not found")
}

// NotFoundMsg sends a 404 error with a custom message.
func NotFoundMsg(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": message})
}

// MethodNotAllowed sends a 405 error.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "method not allowed"})
}

// Conflict sends a 409 error for unique-constraint violations.
func Conflict(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{"success": false, "error": message})
}

// InternalError sends a 500 error.
func InternalError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}
