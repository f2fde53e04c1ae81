// Package service 实现了应用的业务逻辑层。
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"meetmind-go/pkg/llm"
	"meetmind-go/pkg/log"
)

// AnalysisResult 是 LLM 对一次会议转录文本的结构化分析结果。
type AnalysisResult struct {
	Summary            string   `json:"summary"`
	ActionItems        []string `json:"action_items"`
	Decisions          []string `json:"decisions"`
	KeyTopics          []string `json:"key_topics"`
	EffectivenessScore int      `json:"effectiveness_score"`
	EffectivenessNotes string   `json:"effectiveness_notes"`
	Recommendations    []string `json:"recommendations"`
}

// AnalysisService 封装了基于 LLM 的会议内容分析。
type AnalysisService interface {
	AnalyzeMeeting(ctx context.Context, title, transcript string) (*AnalysisResult, error)
}

type analysisService struct {
	llmClient llm.Client
}

// NewAnalysisService 创建一个新的 AnalysisService 实例。
func NewAnalysisService(llmClient llm.Client) AnalysisService {
	return &analysisService{llmClient: llmClient}
}

const analysisSystemPrompt = `You are a meeting analysis assistant. Analyze the meeting transcript and respond with a single JSON object using exactly these keys:
  "summary": a concise paragraph summarizing the meeting,
  "action_items": array of action item strings (who does what, with deadline if mentioned),
  "decisions": array of decision strings,
  "key_topics": array of short topic strings,
  "effectiveness_score": integer 1-10 rating how productive the meeting was,
  "effectiveness_notes": one or two sentences explaining the score,
  "recommendations": array of suggestions to improve future meetings.
Respond with JSON only, no markdown fences, no extra text.`

// AnalyzeMeeting 调用 LLM 生成会议摘要、行动项、决策、关键话题与效率评估。
func (s *analysisService) AnalyzeMeeting(ctx context.Context, title, transcript string) (*AnalysisResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("转录文本为空，无法分析")
	}

	log.Infof("[AnalysisService] 开始分析会议 '%s', 转录长度: %d 字符", title, len(transcript))

	messages := []llm.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Meeting title: %s\n\nTranscript:\n%s", title, transcript)},
	}

	raw, err := s.llmClient.Complete(ctx, messages, nil)
	if err != nil {
		return nil, fmt.Errorf("调用 LLM 分析失败: %w", err)
	}

	result, err := parseAnalysisResult(raw)
	if err != nil {
		log.Errorf("[AnalysisService] 解析 LLM 响应失败: %v, 原始响应: %.200s", err, raw)
		return nil, fmt.Errorf("解析分析结果失败: %w", err)
	}

	log.Infof("[AnalysisService] 分析完成: %d 个行动项, %d 个决策, %d 个关键话题, 效率评分 %d",
		len(result.ActionItems), len(result.Decisions), len(result.KeyTopics), result.EffectivenessScore)
	return result, nil
}

// parseAnalysisResult 从 LLM 响应中解析出结构化结果。
// 部分模型会无视指令包上 markdown 代码围栏，这里做剥离。
func parseAnalysisResult(raw string) (*AnalysisResult, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, fmt.Errorf("分析结果缺少 summary 字段")
	}
	if result.ActionItems == nil {
		result.ActionItems = []string{}
	}
	if result.Decisions == nil {
		result.Decisions = []string{}
	}
	if result.KeyTopics == nil {
		result.KeyTopics = []string{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []string{}
	}
	return &result, nil
}
