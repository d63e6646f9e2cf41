package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/contact-desk/internal/service"
	"github.com/d60-Lab/contact-desk/pkg/response"
)

const (
	msgMarkedRead = "Message marked as read"
	msgDeleted    = "Message deleted successfully"
)

// MessageHandler 留言管理接口，同一套处理器挂在 /api 与 /admin-api 下
type MessageHandler struct {
	moderationService service.ModerationService
	defaultPageSize   int
}

func NewMessageHandler(moderationService service.ModerationService, defaultPageSize int) *MessageHandler {
	if defaultPageSize < 1 {
		defaultPageSize = service.DefaultPageSize
	}
	return &MessageHandler{moderationService: moderationService, defaultPageSize: defaultPageSize}
}

// Register 在 g 下注册留言管理路由
func (h *MessageHandler) Register(g *gin.RouterGroup) {
	g.GET("/messages", h.List)
	g.GET("/messages/:id", h.Get)
	g.PUT("/messages/:id/read", h.MarkRead)
	g.DELETE("/messages/:id", h.Delete)
	g.GET("/stats", h.Stats)
}

// List 分页查询留言
// @Summary 留言列表
// @Description 按创建时间倒序
// @Tags 留言管理
// @Produce json
// @Security BasicAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量"
// @Success 200 {object} model.MessagePage
// @Failure 500 {object} response.Error
// @Router /admin-api/messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	page := positiveQuery(c, "page", 1)
	limit := positiveQuery(c, "limit", h.defaultPageSize)

	res, err := h.moderationService.List(c.Request.Context(), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, res)
}

// Get 查询单条留言
// @Summary 留言详情
// @Tags 留言管理
// @Produce json
// @Security BasicAuth
// @Param id path int true "留言ID"
// @Success 200 {object} model.Message
// @Failure 404 {object} response.Error
// @Router /admin-api/messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c)
		return
	}
	msg, err := h.moderationService.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, msg)
}

// MarkRead 标记已读
// @Summary 标记已读（幂等）
// @Tags 留言管理
// @Produce json
// @Security BasicAuth
// @Param id path int true "留言ID"
// @Success 200 {object} response.Result
// @Failure 404 {object} response.Error
// @Router /admin-api/messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c)
		return
	}
	if err := h.moderationService.MarkRead(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, msgMarkedRead)
}

// Delete 删除留言
// @Summary 删除留言
// @Tags 留言管理
// @Produce json
// @Security BasicAuth
// @Param id path int true "留言ID"
// @Success 200 {object} response.Result
// @Failure 404 {object} response.Error
// @Router /admin-api/messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		response.NotFound(c)
		return
	}
	if err := h.moderationService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, msgDeleted)
}

// Stats 留言统计
// @Summary 留言统计
// @Description today 为当天（UTC），week 为含今天在内的最近 7 天
// @Tags 留言管理
// @Produce json
// @Security BasicAuth
// @Success 200 {object} model.MessageStats
// @Failure 500 {object} response.Error
// @Router /admin-api/stats [get]
func (h *MessageHandler) Stats(c *gin.Context) {
	st, err := h.moderationService.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, st)
}
