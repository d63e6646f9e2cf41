package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/contact-desk/pkg/logger"
)

// Error 统一错误响应体
type Error struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Result 写操作成功响应体
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      uint   `json:"id,omitempty"`
}

const (
	MsgValidationFailed = "Validation failed"
	MsgChallengeFailed  = "CAPTCHA verification failed"
	MsgNotFound         = "Message not found"
	MsgInternal         = "Internal server error"
)

// Success 200 返回数据本体
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201
func Created(c *gin.Context, message string, id uint) {
	c.JSON(http.StatusCreated, Result{Success: true, Message: message, ID: id})
}

// OK 200 {success:true, message}
func OK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Result{Success: true, Message: message})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Error{Error: msg})
}

// ValidationFailed 400，附带字段级错误
func ValidationFailed(c *gin.Context, details interface{}) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Error{Error: MsgValidationFailed, Details: details})
}

func ChallengeFailed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Error{Error: MsgChallengeFailed})
}

func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, Error{Error: MsgNotFound})
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Error{Error: msg})
}

func TooManyRequests(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Error{Error: msg})
}

func PayloadTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, Error{Error: "Request body too large"})
}

// InternalError 记录日志并上报 Sentry，客户端只收到不透明的错误信息
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, Error{Error: MsgInternal})
}
