package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"meetmind-go/internal/service"
	"meetmind-go/pkg/log"
)

// TranslationHandler 负责处理会议内容翻译相关的 API 请求。
type TranslationHandler struct {
	translationService service.TranslationService
}

// NewTranslationHandler 创建一个新的 TranslationHandler 实例。
func NewTranslationHandler(translationService service.TranslationService) *TranslationHandler {
	return &TranslationHandler{translationService: translationService}
}

// TranslateRequest 定义了翻译 API 的请求体结构。
type TranslateRequest struct {
	ContentType    string `json:"contentType" binding:"required"`
	TargetLanguage string `json:"targetLanguage" binding:"required"`
}

// Translate 将会议摘要或转写全文翻译到目标语言。
func (h *TranslationHandler) Translate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("[TranslationHandler] Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "无效的请求负载：contentType 和 targetLanguage 不能为空",
		})
		return
	}

	tr, err := h.translationService.Translate(c.Request.Context(), user.ID, meetingID, req.ContentType, req.TargetLanguage)
	if err != nil {
		log.Errorf("[TranslationHandler] 翻译失败, MeetingID: %d, error: %v", meetingID, err)
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": tr, "message": "success"})
}

// List 返回某次会议已缓存的全部翻译。
func (h *TranslationHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	trs, err := h.translationService.ListTranslations(user.ID, meetingID)
	if err != nil {
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": trs, "message": "success"})
}

// Delete 删除某次会议的一条翻译缓存。
func (h *TranslationHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}
	translationID, ok := uintParam(c, "translationId", "无效的翻译 ID")
	if !ok {
		return
	}

	if err := h.translationService.DeleteTranslation(user.ID, meetingID, translationID); err != nil {
		log.Errorf("[TranslationHandler] 删除翻译失败, MeetingID: %d, TranslationID: %d, error: %v", meetingID, translationID, err)
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "翻译已删除"})
}

// Languages 返回支持的目标语言列表。
func (h *TranslationHandler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"data":    h.translationService.SupportedLanguages(),
		"message": "success",
	})
}
