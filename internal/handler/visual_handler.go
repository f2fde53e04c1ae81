package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"meetmind-go/internal/model"
	"meetmind-go/internal/service"
	"meetmind-go/pkg/log"
)

// VisualHandler 负责处理视觉摘要相关的 API 请求。
type VisualHandler struct {
	visualService service.VisualService
}

// NewVisualHandler 创建一个新的 VisualHandler 实例。
func NewVisualHandler(visualService service.VisualService) *VisualHandler {
	return &VisualHandler{visualService: visualService}
}

// GenerateVisualRequest 定义了视觉摘要生成 API 的请求体结构。
type GenerateVisualRequest struct {
	VisualType string `json:"visualType"`
	Style      string `json:"style"`
}

// Generate 为某次会议生成一张视觉摘要图。
func (h *VisualHandler) Generate(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	var req GenerateVisualRequest
	// 请求体可省略，全部字段取默认值
	_ = c.ShouldBindJSON(&req)
	if req.VisualType == "" {
		req.VisualType = model.VisualTypeSummary
	}

	asset, err := h.visualService.Generate(c.Request.Context(), user.ID, meetingID, req.VisualType, req.Style)
	if err != nil {
		log.Errorf("[VisualHandler] 生成视觉摘要失败, MeetingID: %d, error: %v", meetingID, err)
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": asset, "message": "success"})
}

// List 返回某次会议的全部视觉资产。
func (h *VisualHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	assets, err := h.visualService.ListVisuals(user.ID, meetingID)
	if err != nil {
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "data": assets, "message": "success"})
}

// Delete 删除某次会议的一条视觉资产。
func (h *VisualHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}
	assetID, ok := uintParam(c, "assetId", "无效的资产 ID")
	if !ok {
		return
	}

	if err := h.visualService.DeleteVisual(c.Request.Context(), user.ID, meetingID, assetID); err != nil {
		log.Errorf("[VisualHandler] 删除视觉资产失败, MeetingID: %d, AssetID: %d, error: %v", meetingID, assetID, err)
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "视觉资产已删除"})
}
