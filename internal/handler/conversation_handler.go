package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"meetmind-go/internal/service"
	"meetmind-go/pkg/log"
)

// ConversationHandler 负责处理问答历史相关的 API 请求。
type ConversationHandler struct {
	conversationService service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler 实例。
func NewConversationHandler(conversationService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// conversationMeetingID 解析可选的 meetingId 查询参数，缺省为 0（全部会议）。
func conversationMeetingID(c *gin.Context) uint {
	raw := c.Query("meetingId")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// History 返回当前用户在某次会议上的问答历史。
func (h *ConversationHandler) History(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID := conversationMeetingID(c)

	history, err := h.conversationService.GetConversationHistory(c.Request.Context(), user.ID, meetingID)
	if err != nil {
		log.Errorf("[ConversationHandler] 获取问答历史失败, user: %s, error: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "获取问答历史失败",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": history, "message": "success"})
}

// Clear 清空当前用户在某次会议上的问答历史。
func (h *ConversationHandler) Clear(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID := conversationMeetingID(c)

	if err := h.conversationService.ClearConversation(c.Request.Context(), user.ID, meetingID); err != nil {
		log.Errorf("[ConversationHandler] 清空问答历史失败, user: %s, error: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "清空问答历史失败",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "问答历史已清空"})
}
