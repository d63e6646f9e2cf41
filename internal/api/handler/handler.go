package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/contact-desk/internal/service"
	"github.com/d60-Lab/contact-desk/internal/validation"
	"github.com/d60-Lab/contact-desk/pkg/response"
)

// writeError 统一把服务层错误映射为 HTTP 响应
func writeError(c *gin.Context, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Details)
	case errors.Is(err, service.ErrChallengeFailed):
		response.ChallengeFailed(c)
	case errors.Is(err, service.ErrMessageNotFound):
		response.NotFound(c)
	default:
		response.InternalError(c, err)
	}
}

// parseID 非数字或 0 视为不存在
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// positiveQuery 非数字或小于 1 时返回 def
func positiveQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} healthResponse
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "OK", Timestamp: time.Now().UTC()})
}
