// Package response writes the JSON error envelope shared by all handlers.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes returned in the envelope.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeAlreadyApplied   = "ALREADY_APPLIED"
	CodeAlreadyMember    = "ALREADY_MEMBER"
	CodeCommunityFull    = "COMMUNITY_FULL"
	CodeNotRecruiting    = "NOT_RECRUITING"
	CodeAlreadyProcessed = "ALREADY_PROCESSED"
	CodeNotPending       = "NOT_PENDING"
	CodeCapacityTooLow   = "CAPACITY_TOO_LOW"
	CodeNotEnoughMembers = "NOT_ENOUGH_MEMBERS"
	CodeUserExists       = "USER_EXISTS"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse represents error response structure.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the payload of ErrorResponse.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error writes an error envelope and aborts the chain.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	})
}

// BadRequest writes a 400 INVALID_REQUEST envelope.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeInvalidRequest, message)
}

// NotFound writes a 404 envelope.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// Forbidden writes a 403 envelope.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, CodeForbidden, message)
}

// Unauthorized writes a 401 envelope.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Internal logs err and writes a 500 envelope without leaking details.
func Internal(c *gin.Context, logger *zap.SugaredLogger, msg string, err error) {
	logger.Errorw(msg,
		"error", err,
		"method", c.Request.Method,
		"path", c.FullPath(),
	)
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}
