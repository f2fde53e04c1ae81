package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"
	"meetmind-go/internal/config"
	"meetmind-go/internal/model"
	"meetmind-go/internal/repository"
	"meetmind-go/pkg/es"
	"meetmind-go/pkg/kafka"
	"meetmind-go/pkg/log"
	"meetmind-go/pkg/storage"
	"meetmind-go/pkg/tasks"
)

// ErrMeetingNotOwned 表示当前用户无权访问目标会议。
var ErrMeetingNotOwned = errors.New("无权访问该会议")

// 允许上传的音频扩展名。
var allowedAudioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".mp4":  true,
	".webm": true,
	".ogg":  true,
	".flac": true,
}

// MeetingSummaryDTO 是解析后的会议分析摘要。
type MeetingSummaryDTO struct {
	Summary     string   `json:"summary"`
	ActionItems []string `json:"actionItems"`
	Decisions   []string `json:"decisions"`
	KeyTopics   []string `json:"keyTopics"`
}

// MeetingInsightDTO 是解析后的会议效率洞察。
type MeetingInsightDTO struct {
	EffectivenessScore int      `json:"effectivenessScore"`
	EffectivenessNotes string   `json:"effectivenessNotes"`
	Recommendations    []string `json:"recommendations"`
}

// MeetingDetailResponse 聚合了一次会议的全部衍生内容。
// 尚未生成的部分为 nil / 空字符串。
type MeetingDetailResponse struct {
	Meeting    *model.Meeting     `json:"meeting"`
	Transcript string             `json:"transcript,omitempty"`
	Language   string             `json:"language,omitempty"`
	Summary    *MeetingSummaryDTO `json:"summary,omitempty"`
	Insight    *MeetingInsightDTO `json:"insight,omitempty"`
}

// MeetingService 接口定义了会议生命周期的业务操作。
type MeetingService interface {
	Upload(ctx context.Context, ownerID uint, title string, file multipart.File, header *multipart.FileHeader) (*model.Meeting, error)
	List(ownerID uint) ([]model.Meeting, error)
	Detail(meetingID, ownerID uint) (*MeetingDetailResponse, error)
	Delete(ctx context.Context, meetingID, ownerID uint) error
	FindOwned(meetingID, ownerID uint) (*model.Meeting, error)
}

type meetingService struct {
	meetingRepo     repository.MeetingRepository
	chunkRepo       repository.ChunkRepository
	visualRepo      repository.VisualRepository
	translationRepo repository.TranslationRepository
	minioCfg        config.MinIOConfig
	esCfg           config.ElasticsearchConfig
}

// NewMeetingService 创建一个新的 MeetingService 实例。
func NewMeetingService(
	meetingRepo repository.MeetingRepository,
	chunkRepo repository.ChunkRepository,
	visualRepo repository.VisualRepository,
	translationRepo repository.TranslationRepository,
	minioCfg config.MinIOConfig,
	esCfg config.ElasticsearchConfig,
) MeetingService {
	return &meetingService{
		meetingRepo:     meetingRepo,
		chunkRepo:       chunkRepo,
		visualRepo:      visualRepo,
		translationRepo: translationRepo,
		minioCfg:        minioCfg,
		esCfg:           esCfg,
	}
}

// Upload 接收音频文件，存入 MinIO 并投递处理任务。
// 会议立刻以 uploaded 状态返回，转写与分析在消费者端异步完成。
func (s *meetingService) Upload(ctx context.Context, ownerID uint, title string, file multipart.File, header *multipart.FileHeader) (*model.Meeting, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAudioExts[ext] {
		return nil, fmt.Errorf("不支持的音频格式: %s", ext)
	}
	if strings.TrimSpace(title) == "" {
		title = strings.TrimSuffix(header.Filename, ext)
	}

	objectName := fmt.Sprintf("audio/%d_%s", time.Now().UnixNano(), header.Filename)
	log.Infof("[MeetingService] 上传音频到MinIO, Object: %s, Size: %d", objectName, header.Size)
	if err := storage.PutObjectStream(ctx, s.minioCfg.BucketName, objectName, file, header.Size, header.Header.Get("Content-Type")); err != nil {
		return nil, fmt.Errorf("上传音频到 MinIO 失败: %w", err)
	}

	meeting := &model.Meeting{
		Title:      title,
		FileName:   header.Filename,
		ObjectName: objectName,
		Status:     model.MeetingStatusUploaded,
		OwnerID:    ownerID,
	}
	if err := s.meetingRepo.Create(meeting); err != nil {
		// 数据库写入失败时回收已上传的对象
		if rmErr := storage.RemoveObject(ctx, s.minioCfg.BucketName, objectName); rmErr != nil {
			log.Warnf("[MeetingService] 回收MinIO对象失败, Object: %s: %v", objectName, rmErr)
		}
		return nil, fmt.Errorf("创建会议记录失败: %w", err)
	}

	task := tasks.MeetingProcessingTask{
		MeetingID:  meeting.ID,
		ObjectName: objectName,
		FileName:   header.Filename,
		Title:      meeting.Title,
		OwnerID:    ownerID,
	}
	if err := kafka.ProduceMeetingTask(task); err != nil {
		log.Errorf("[MeetingService] 投递会议处理任务失败, MeetingID: %d: %v", meeting.ID, err)
		if stErr := s.meetingRepo.UpdateStatus(meeting.ID, model.MeetingStatusError); stErr != nil {
			log.Errorf("[MeetingService] 更新会议状态为 error 失败, MeetingID: %d: %v", meeting.ID, stErr)
		}
		return nil, fmt.Errorf("投递会议处理任务失败: %w", err)
	}

	log.Infof("[MeetingService] 会议上传成功, MeetingID: %d, Title: %s", meeting.ID, meeting.Title)
	return meeting, nil
}

// List 返回某个用户的全部会议。
func (s *meetingService) List(ownerID uint) ([]model.Meeting, error) {
	return s.meetingRepo.FindByOwner(ownerID)
}

// FindOwned 查找会议并校验归属。
func (s *meetingService) FindOwned(meetingID, ownerID uint) (*model.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.OwnerID != ownerID {
		return nil, ErrMeetingNotOwned
	}
	return meeting, nil
}

// Detail 聚合会议的转写、摘要与洞察。
func (s *meetingService) Detail(meetingID, ownerID uint) (*MeetingDetailResponse, error) {
	meeting, err := s.FindOwned(meetingID, ownerID)
	if err != nil {
		return nil, err
	}

	resp := &MeetingDetailResponse{Meeting: meeting}

	if tr, err := s.meetingRepo.FindTranscription(meetingID); err == nil {
		resp.Transcript = tr.FullText
		resp.Language = tr.Language
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if summary, err := s.meetingRepo.FindSummary(meetingID); err == nil {
		resp.Summary = &MeetingSummaryDTO{
			Summary:     summary.Summary,
			ActionItems: parseJSONList(summary.ActionItems),
			Decisions:   parseJSONList(summary.Decisions),
			KeyTopics:   parseJSONList(summary.KeyTopics),
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if insight, err := s.meetingRepo.FindInsight(meetingID); err == nil {
		resp.Insight = &MeetingInsightDTO{
			EffectivenessScore: insight.EffectivenessScore,
			EffectivenessNotes: insight.EffectivenessNotes,
			Recommendations:    parseJSONList(insight.Recommendations),
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return resp, nil
}

// Delete 删除会议及其全部衍生数据：数据库记录、语义分块、
// 翻译缓存、视觉资产、ES 文档与 MinIO 对象。
func (s *meetingService) Delete(ctx context.Context, meetingID, ownerID uint) error {
	meeting, err := s.FindOwned(meetingID, ownerID)
	if err != nil {
		return err
	}

	log.Infof("[MeetingService] 开始删除会议, MeetingID: %d, Title: %s", meetingID, meeting.Title)

	if err := s.chunkRepo.DeleteByMeetingID(meetingID); err != nil {
		return fmt.Errorf("删除会议分块失败: %w", err)
	}
	if err := s.translationRepo.DeleteByMeetingID(meetingID); err != nil {
		return fmt.Errorf("删除翻译缓存失败: %w", err)
	}

	// 视觉资产：先清理 MinIO 中的图片对象，再删数据库记录
	assets, err := s.visualRepo.FindByMeetingID(meetingID)
	if err != nil {
		return fmt.Errorf("查询视觉资产失败: %w", err)
	}
	for _, asset := range assets {
		if asset.ObjectName == "" {
			continue
		}
		if err := storage.RemoveObject(ctx, s.minioCfg.BucketName, asset.ObjectName); err != nil {
			log.Warnf("[MeetingService] 删除视觉资产对象失败, Object: %s: %v", asset.ObjectName, err)
		}
	}
	if err := s.visualRepo.DeleteByMeetingID(meetingID); err != nil {
		return fmt.Errorf("删除视觉资产记录失败: %w", err)
	}

	if err := es.DeleteMeeting(ctx, s.esCfg.IndexName, meetingID); err != nil {
		log.Warnf("[MeetingService] 删除ES文档失败, MeetingID: %d: %v", meetingID, err)
	}
	if err := storage.RemoveObject(ctx, s.minioCfg.BucketName, meeting.ObjectName); err != nil {
		log.Warnf("[MeetingService] 删除MinIO音频对象失败, Object: %s: %v", meeting.ObjectName, err)
	}

	if err := s.meetingRepo.Delete(meetingID); err != nil {
		return fmt.Errorf("删除会议记录失败: %w", err)
	}
	log.Infof("[MeetingService] 会议删除完成, MeetingID: %d", meetingID)
	return nil
}

// parseJSONList 解析 JSON 数组字符串，解析失败返回空切片。
func parseJSONList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}
