package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/infrastructure/logger"
	"github.com/hotelops/backend/internal/interfaces/http/dto"
	"github.com/hotelops/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// StatusClientClosedRequest is logged for requests abandoned by the client
const StatusClientClosedRequest = 499

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return middleware.GetRequestID(c)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	code = dto.NormalizeErrorCode(code)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps err to a response. Domain errors keep their code, an expired
// deadline is reported as unavailable and a request canceled by the client gets
// no body. Anything else is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := shared.IsDomainError(err); ok {
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
		return
	}

	ctx := c.Request.Context()
	if errors.Is(err, context.DeadlineExceeded) {
		logger.L(ctx).Warn("Request deadline exceeded", zap.Error(err))
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "The request timed out")
		return
	}

	if errors.Is(err, context.Canceled) {
		logger.L(ctx).Info("Client closed request")
		c.AbortWithStatus(StatusClientClosedRequest)
		return
	}

	logger.L(ctx).Error("Request failed", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}
