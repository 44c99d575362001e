package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the response shape the legacy frontend consumes:
// {success, message?, data?}.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination metadata returned with paginated blog lists.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalBlogs"`
	PerPage     int   `json:"blogsPerPage"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

type pagedEnvelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 success response.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 success response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// Paged sends a paginated 200 response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedEnvelope{Success: true, Data: data, Pagination: pagination})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Success: false, Message: message})
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Message: message})
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, envelope{Success: false, Message: message})
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, envelope{Success: false, Message: message})
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, envelope{Success: false, Message: "Method not allowed."})
}

// TooManyRequests sends a 429 error response.
func TooManyRequests(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, envelope{Success: false, Message: message})
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, err error) {
	msg := "Internal server error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Success: false, Message: msg})
}
