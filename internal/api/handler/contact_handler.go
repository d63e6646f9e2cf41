package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/contact-desk/internal/api/middleware"
	"github.com/d60-Lab/contact-desk/internal/service"
	"github.com/d60-Lab/contact-desk/internal/validation"
	"github.com/d60-Lab/contact-desk/pkg/response"
)

const msgSent = "Message sent successfully!"

// ContactHandler 公开联系表单接口
type ContactHandler struct {
	contactService service.ContactService
}

func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Captcha 获取算术验证题
// @Summary 获取验证题
// @Description 返回题目与答案，客户端提交时回传答案
// @Tags 联系表单
// @Produce json
// @Success 200 {object} challenge.Challenge
// @Router /api/captcha [get]
func (h *ContactHandler) Captcha(c *gin.Context) {
	response.Success(c, h.contactService.Challenge())
}

// Submit 提交留言
// @Summary 提交联系表单
// @Tags 联系表单
// @Accept json
// @Produce json
// @Param request body validation.Submission true "留言内容与验证码"
// @Success 201 {object} response.Result
// @Failure 400 {object} response.Error
// @Failure 413 {object} response.Error
// @Failure 429 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /api/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var sub validation.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.PayloadTooLarge(c)
			return
		}
		response.BadRequest(c, "Invalid request body")
		return
	}

	origin := service.Origin{
		IP:        c.GetString(middleware.ClientIPKey),
		UserAgent: c.Request.UserAgent(),
	}
	if origin.IP == "" {
		origin.IP = c.ClientIP()
	}

	msg, err := h.contactService.Submit(c.Request.Context(), sub, origin)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, msgSent, msg.ID)
}
