package util

import (
	"errors"
	"net/http"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/logger"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Kind    string      `json:"kind,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind error) int {
	switch kind {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden, ErrNotAvailable, ErrLateSubmission:
		return http.StatusForbidden
	case ErrAlreadySubmitted, ErrNotYetOverdue, ErrAttemptFinished:
		return http.StatusConflict
	case ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error envelope for err. Storage failures never leak detail.
func RespondError(c *gin.Context, err error) {
	kind := Kind(err)
	if kind == ErrStorageFailure {
		LogInternalError(c, err)
		return
	}
	monitoring.DomainErrors.WithLabelValues(KindName(kind)).Inc()

	resp := Response{
		Code:    StatusFor(kind),
		Message: err.Error(),
		Kind:    KindName(kind),
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		resp.Message = ve.Msg
		resp.Errors = ve.Fields
	}
	c.JSON(resp.Code, resp)
}
