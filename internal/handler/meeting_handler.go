package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"meetmind-go/internal/model"
	"meetmind-go/internal/service"
	"meetmind-go/pkg/log"
)

// MeetingHandler 负责处理会议生命周期相关的 API 请求。
type MeetingHandler struct {
	meetingService service.MeetingService
}

// NewMeetingHandler 创建一个新的 MeetingHandler 实例。
func NewMeetingHandler(meetingService service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// currentUser 取出由 AuthMiddleware 注入的用户对象。
func currentUser(c *gin.Context) (*model.User, bool) {
	userValue, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "无法获取用户信息"})
		return nil, false
	}
	user, ok := userValue.(*model.User)
	if !ok || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "用户数据类型错误"})
		return nil, false
	}
	return user, true
}

// meetingIDParam 解析路径中的会议 ID。
func meetingIDParam(c *gin.Context) (uint, bool) {
	return uintParam(c, "id", "无效的会议 ID")
}

// uintParam 解析路径中的无符号整数参数，非法时写出 400 响应。
func uintParam(c *gin.Context, name, badMessage string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": badMessage,
		})
		return 0, false
	}
	return uint(id), true
}

// writeMeetingError 按错误类型返回统一的 JSON 错误响应。
func writeMeetingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMeetingNotOwned):
		c.JSON(http.StatusForbidden, gin.H{
			"code":    http.StatusForbidden,
			"message": "无权访问该会议",
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":    http.StatusNotFound,
			"message": "会议不存在",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": err.Error(),
		})
	}
}

// Upload 处理会议音频上传请求。表单字段：file（音频）、title（可选）。
func (h *MeetingHandler) Upload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warnf("[MeetingHandler] 上传请求缺少音频文件: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "缺少音频文件",
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "读取上传文件失败",
		})
		return
	}
	defer file.Close()

	title := c.PostForm("title")
	meeting, err := h.meetingService.Upload(c.Request.Context(), user.ID, title, file, fileHeader)
	if err != nil {
		log.Errorf("[MeetingHandler] 上传会议失败, user: %s, error: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": err.Error(),
		})
		return
	}

	log.Infof("[MeetingHandler] 会议上传成功, MeetingID: %d, user: %s", meeting.ID, user.Username)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": meeting, "message": "上传成功，正在后台处理"})
}

// List 返回当前用户的全部会议。
func (h *MeetingHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	meetings, err := h.meetingService.List(user.ID)
	if err != nil {
		log.Errorf("[MeetingHandler] 查询会议列表失败, user: %s, error: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "查询会议列表失败",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": meetings, "message": "success"})
}

// Detail 返回会议详情，包括转写、摘要与洞察。
func (h *MeetingHandler) Detail(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	detail, err := h.meetingService.Detail(meetingID, user.ID)
	if err != nil {
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": detail, "message": "success"})
}

// Delete 删除会议及其全部衍生数据。
func (h *MeetingHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	if err := h.meetingService.Delete(c.Request.Context(), meetingID, user.ID); err != nil {
		log.Errorf("[MeetingHandler] 删除会议失败, MeetingID: %d, error: %v", meetingID, err)
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "会议已删除"})
}
