package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"meetmind-go/internal/service"
	"meetmind-go/pkg/log"
)

// SearchHandler 结构体定义了检索与洞察相关的处理器。
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// SemanticSearch 是处理语义检索请求的 Gin 处理函数。
// 查询参数：query（必填）、topK、threshold。
func (h *SearchHandler) SemanticSearch(c *gin.Context) {
	query := c.Query("query")
	log.Infof("[SearchHandler] 收到语义检索请求, query: %s", query)

	if query == "" {
		log.Warnf("[SearchHandler] 检索请求失败: query 参数为空")
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的查询参数"})
		return
	}
	topK, err := strconv.Atoi(c.DefaultQuery("topK", "0"))
	if err != nil || topK < 0 {
		topK = 0
	}
	threshold, err := strconv.ParseFloat(c.DefaultQuery("threshold", "0"), 64)
	if err != nil || threshold < 0 {
		threshold = 0
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	resp, err := h.searchService.SemanticSearch(c.Request.Context(), user.ID, query, topK, threshold)
	if err != nil {
		log.Errorf("[SearchHandler] 语义检索服务返回错误, error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "检索失败"})
		return
	}

	log.Infof("[SearchHandler] 检索成功, query: '%s', type: %s, 返回 %d 条结果", query, resp.SearchType, len(resp.Results))
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": resp, "message": "success"})
}

// SimilarMeetings 返回目标会议的相似会议、跨会议洞察与推荐。
func (h *SearchHandler) SimilarMeetings(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	resp, err := h.searchService.SimilarMeetings(c.Request.Context(), user.ID, meetingID)
	if err != nil {
		log.Errorf("[SearchHandler] 相似会议计算失败, MeetingID: %d, error: %v", meetingID, err)
		writeMeetingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": resp, "message": "success"})
}

// Insights 在用户全部已分析会议上执行跨会议主题洞察。
// 可选查询参数 themes 支持逗号分隔的自定义主题集。
func (h *SearchHandler) Insights(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var themes []string
	if raw := c.Query("themes"); raw != "" {
		themes = splitThemes(raw)
	}

	results, err := h.searchService.DiscoverInsights(c.Request.Context(), user.ID, themes)
	if err != nil {
		log.Errorf("[SearchHandler] 跨会议洞察失败, user: %s, error: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "洞察计算失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": results, "message": "success"})
}

// ReindexMeeting 对单个会议重建语义索引。
func (h *SearchHandler) ReindexMeeting(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	meetingID, ok := meetingIDParam(c)
	if !ok {
		return
	}

	count, err := h.searchService.ReindexMeeting(c.Request.Context(), user.ID, meetingID)
	if err != nil {
		log.Errorf("[SearchHandler] 会议重建索引失败, MeetingID: %d, error: %v", meetingID, err)
		writeMeetingError(c, err)
		return
	}
	log.Infof("[SearchHandler] 会议重建索引完成, MeetingID: %d, %d 个分块", meetingID, count)
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"meetingId": meetingID, "chunkCount": count}, "message": "success"})
}

// Reindex 对用户全部已分析会议重建语义索引。
func (h *SearchHandler) Reindex(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.searchService.ReindexAll(c.Request.Context(), user.ID)
	if err != nil {
		log.Errorf("[SearchHandler] 重建索引失败, user: %s, error: %v", user.Username, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":            "重建索引失败",
			"reindexedCount":   count,
			"partialCompleted": count > 0,
		})
		return
	}
	log.Infof("[SearchHandler] 重建索引完成, user: %s, 共 %d 个会议", user.Username, count)
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"reindexedCount": count}, "message": "success"})
}

// splitThemes 解析逗号分隔的主题参数，忽略空白项。
func splitThemes(raw string) []string {
	var themes []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			themes = append(themes, part)
		}
	}
	return themes
}
