// Package pipeline 定义了会议音频处理的核心流程。
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meetmind-go/internal/config"
	"meetmind-go/internal/model"
	"meetmind-go/internal/repository"
	"meetmind-go/internal/search"
	"meetmind-go/internal/service"
	"meetmind-go/pkg/es"
	"meetmind-go/pkg/log"
	"meetmind-go/pkg/speech"
	"meetmind-go/pkg/storage"
	"meetmind-go/pkg/tasks"
)

// Processor 封装了会议处理流水线的所有依赖和逻辑：
// 转写 → 内容分析 → 语义索引 → 关键词索引。
type Processor struct {
	speechClient    *speech.Client
	analysisService service.AnalysisService
	engine          *search.Engine
	esCfg           config.ElasticsearchConfig
	minioCfg        config.MinIOConfig
	embeddingCfg    config.EmbeddingConfig
	meetingRepo     repository.MeetingRepository
	chunkRepo       repository.ChunkRepository
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(
	speechClient *speech.Client,
	analysisService service.AnalysisService,
	engine *search.Engine,
	esCfg config.ElasticsearchConfig,
	minioCfg config.MinIOConfig,
	embeddingCfg config.EmbeddingConfig,
	meetingRepo repository.MeetingRepository,
	chunkRepo repository.ChunkRepository,
) *Processor {
	return &Processor{
		speechClient:    speechClient,
		analysisService: analysisService,
		engine:          engine,
		esCfg:           esCfg,
		minioCfg:        minioCfg,
		embeddingCfg:    embeddingCfg,
		meetingRepo:     meetingRepo,
		chunkRepo:       chunkRepo,
	}
}

// Process 是会议处理的主函数。失败时会议被置为 error 状态，
// 由消费者端的重试机制决定是否重投。
func (p *Processor) Process(ctx context.Context, task tasks.MeetingProcessingTask) error {
	log.Infof("[Processor] 开始处理会议, MeetingID: %d, FileName: %s, OwnerID: %d", task.MeetingID, task.FileName, task.OwnerID)

	if err := p.meetingRepo.UpdateStatus(task.MeetingID, model.MeetingStatusProcessing); err != nil {
		log.Warnf("[Processor] 更新会议状态为 processing 失败, MeetingID: %d: %v", task.MeetingID, err)
	}

	err := p.process(ctx, task)
	if err != nil {
		if stErr := p.meetingRepo.UpdateStatus(task.MeetingID, model.MeetingStatusError); stErr != nil {
			log.Errorf("[Processor] 更新会议状态为 error 失败, MeetingID: %d: %v", task.MeetingID, stErr)
		}
		return err
	}

	log.Infof("[Processor] 会议处理成功完成, MeetingID: %d", task.MeetingID)
	return nil
}

func (p *Processor) process(ctx context.Context, task tasks.MeetingProcessingTask) error {
	// 1. 从 MinIO 下载音频
	log.Infof("[Processor] 步骤1: 从MinIO下载音频, Bucket: %s, Object: %s", p.minioCfg.BucketName, task.ObjectName)
	object, err := storage.GetObject(ctx, p.minioCfg.BucketName, task.ObjectName)
	if err != nil {
		log.Errorf("[Processor] 从MinIO下载音频失败, Object: %s, Error: %v", task.ObjectName, err)
		return fmt.Errorf("从 MinIO 下载音频失败: %w", err)
	}
	defer object.Close()

	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(object)
	if err != nil {
		log.Errorf("[Processor] 从MinIO对象流中读取内容失败, Error: %v", err)
		return fmt.Errorf("读取MinIO对象流失败: %w", err)
	}
	log.Infof("[Processor] 步骤1: 音频下载成功, 大小: %d字节", size)
	if size == 0 {
		log.Warnf("[Processor] 音频 '%s' 内容为空, 处理中止", task.FileName)
		return errors.New("音频内容为空")
	}

	// 2. 语音转写
	log.Info("[Processor] 步骤2: 调用转写服务")
	transcription, err := p.speechClient.Transcribe(ctx, bytes.NewReader(buf.Bytes()), task.FileName)
	if err != nil {
		log.Errorf("[Processor] 音频转写失败, FileName: %s, Error: %v", task.FileName, err)
		return fmt.Errorf("音频转写失败: %w", err)
	}
	log.Infof("[Processor] 步骤2: 转写成功, 文本长度: %d 字符, 时长: %.1f秒", len(transcription.Text), transcription.Duration)

	segmentsJSON, err := json.Marshal(transcription.Segments)
	if err != nil {
		return fmt.Errorf("序列化转写片段失败: %w", err)
	}
	if err := p.meetingRepo.SaveTranscription(&model.Transcription{
		MeetingID: task.MeetingID,
		FullText:  transcription.Text,
		Segments:  string(segmentsJSON),
		Language:  transcription.Language,
	}); err != nil {
		log.Errorf("[Processor] 保存转写结果失败, MeetingID: %d, Error: %v", task.MeetingID, err)
		return fmt.Errorf("保存转写结果失败: %w", err)
	}
	if err := p.meetingRepo.MarkTranscribed(task.MeetingID, transcription.Duration); err != nil {
		log.Warnf("[Processor] 标记会议已转录失败, MeetingID: %d: %v", task.MeetingID, err)
	}

	// 3. LLM 内容分析
	log.Info("[Processor] 步骤3: 开始 LLM 内容分析")
	analysis, err := p.analysisService.AnalyzeMeeting(ctx, task.Title, transcription.Text)
	if err != nil {
		log.Errorf("[Processor] 会议内容分析失败, MeetingID: %d, Error: %v", task.MeetingID, err)
		return fmt.Errorf("会议内容分析失败: %w", err)
	}

	actionItems, _ := json.Marshal(analysis.ActionItems)
	decisions, _ := json.Marshal(analysis.Decisions)
	keyTopics, _ := json.Marshal(analysis.KeyTopics)
	recommendations, _ := json.Marshal(analysis.Recommendations)

	if err := p.meetingRepo.SaveSummary(&model.MeetingSummary{
		MeetingID:   task.MeetingID,
		Summary:     analysis.Summary,
		ActionItems: string(actionItems),
		Decisions:   string(decisions),
		KeyTopics:   string(keyTopics),
	}); err != nil {
		log.Errorf("[Processor] 保存会议摘要失败, MeetingID: %d, Error: %v", task.MeetingID, err)
		return fmt.Errorf("保存会议摘要失败: %w", err)
	}
	if err := p.meetingRepo.SaveInsight(&model.MeetingInsight{
		MeetingID:          task.MeetingID,
		EffectivenessScore: analysis.EffectivenessScore,
		EffectivenessNotes: analysis.EffectivenessNotes,
		Recommendations:    string(recommendations),
	}); err != nil {
		log.Errorf("[Processor] 保存效率洞察失败, MeetingID: %d, Error: %v", task.MeetingID, err)
		return fmt.Errorf("保存效率洞察失败: %w", err)
	}
	log.Info("[Processor] 步骤3: 内容分析完成并已保存")

	// 4. 语义索引：分块 + 批量向量化
	log.Info("[Processor] 步骤4: 开始语义索引")
	records, err := p.engine.IndexMeeting(ctx, task.MeetingID, transcription.Text, task.Title, analysis.Summary)
	if err != nil {
		log.Errorf("[Processor] 会议语义索引失败, MeetingID: %d, Error: %v", task.MeetingID, err)
		return fmt.Errorf("会议语义索引失败: %w", err)
	}
	log.Infof("[Processor] 步骤4: 向量化完成, 共 %d 个分块", len(records))

	chunks := make([]*model.MeetingChunk, 0, len(records))
	for _, record := range records {
		chunk, err := model.NewMeetingChunk(record, p.embeddingCfg.Model)
		if err != nil {
			return fmt.Errorf("序列化分块向量失败: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	if err := p.chunkRepo.ReplaceMeetingChunks(task.MeetingID, chunks); err != nil {
		log.Errorf("[Processor] 替换会议分块失败, MeetingID: %d, Error: %v", task.MeetingID, err)
		return fmt.Errorf("替换会议分块失败: %w", err)
	}
	log.Infof("[Processor] 步骤4: 已将 %d 个分块存入数据库", len(chunks))

	// 5. 关键词兜底索引到 Elasticsearch
	log.Info("[Processor] 步骤5: 索引转写全文到 Elasticsearch")
	esDoc := model.EsMeeting{
		MeetingID:  task.MeetingID,
		Title:      task.Title,
		Transcript: transcription.Text,
		Summary:    analysis.Summary,
		OwnerID:    task.OwnerID,
	}
	if err := es.IndexMeeting(ctx, p.esCfg.IndexName, esDoc); err != nil {
		log.Errorf("[Processor] 索引会议到Elasticsearch失败, MeetingID: %d, Error: %v", task.MeetingID, err)
		return fmt.Errorf("索引会议到 Elasticsearch 失败: %w", err)
	}

	// 6. 标记分析完成，会议进入检索语料
	if err := p.meetingRepo.UpdateStatus(task.MeetingID, model.MeetingStatusAnalyzed); err != nil {
		log.Errorf("[Processor] 更新会议状态为 analyzed 失败, MeetingID: %d, Error: %v", task.MeetingID, err)
		return fmt.Errorf("更新会议状态失败: %w", err)
	}
	return nil
}
