package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"meetmind-go/internal/config"
	"meetmind-go/internal/model"
	"meetmind-go/internal/repository"
	"meetmind-go/pkg/imagegen"
	"meetmind-go/pkg/log"
	"meetmind-go/pkg/storage"
)

// VisualService 接口定义了会议视觉摘要的生成与查询。
// 生成的图片下载后存入 MinIO，对外通过预签名 URL 访问。
type VisualService interface {
	Generate(ctx context.Context, ownerID, meetingID uint, visualType, style string) (*model.VisualAsset, error)
	ListVisuals(ownerID, meetingID uint) ([]model.VisualAsset, error)
	DeleteVisual(ctx context.Context, ownerID, meetingID, assetID uint) error
}

type visualService struct {
	meetingRepo repository.MeetingRepository
	visualRepo  repository.VisualRepository
	imageClient *imagegen.Client
	minioCfg    config.MinIOConfig
	imageCfg    config.ImageConfig
}

// NewVisualService 创建一个新的 VisualService 实例。
func NewVisualService(
	meetingRepo repository.MeetingRepository,
	visualRepo repository.VisualRepository,
	imageClient *imagegen.Client,
	minioCfg config.MinIOConfig,
	imageCfg config.ImageConfig,
) VisualService {
	return &visualService{
		meetingRepo: meetingRepo,
		visualRepo:  visualRepo,
		imageClient: imageClient,
		minioCfg:    minioCfg,
		imageCfg:    imageCfg,
	}
}

// 视觉风格到提示词修饰的映射。
var visualStyles = map[string]string{
	"professional": "clean corporate infographic style, muted colors",
	"playful":      "colorful hand-drawn sketch style with friendly icons",
	"minimal":      "minimalist flat design, few colors, lots of whitespace",
}

// Generate 为某次会议生成一张视觉摘要图。
func (s *visualService) Generate(ctx context.Context, ownerID, meetingID uint, visualType, style string) (*model.VisualAsset, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.OwnerID != ownerID {
		return nil, ErrMeetingNotOwned
	}

	styleHint, ok := visualStyles[style]
	if !ok {
		style = "professional"
		styleHint = visualStyles[style]
	}

	content, title, err := s.loadVisualContent(meetingID, visualType, meeting.Title)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"An infographic visualizing the following meeting content, %s. No text-heavy layout, focus on icons and structure.\n\nMeeting: %s\n\n%s",
		styleHint, meeting.Title, content)

	log.Infof("[VisualService] 开始生成视觉摘要, MeetingID: %d, Type: %s, Style: %s", meetingID, visualType, style)
	image, err := s.imageClient.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("生成图像失败: %w", err)
	}

	// 下载图像并转存 MinIO，生成方返回的 URL 通常短时效
	data, err := s.imageClient.Download(ctx, image.URL)
	if err != nil {
		return nil, fmt.Errorf("下载生成的图像失败: %w", err)
	}
	objectName := fmt.Sprintf("visuals/%d_%d_%s.png", meetingID, time.Now().UnixNano(), visualType)
	if err := storage.PutObject(ctx, s.minioCfg.BucketName, objectName, data, "image/png"); err != nil {
		return nil, fmt.Errorf("保存图像到 MinIO 失败: %w", err)
	}
	imageURL, err := storage.GetPresignedURL(s.minioCfg.BucketName, objectName, 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("生成图像访问链接失败: %w", err)
	}

	asset := &model.VisualAsset{
		MeetingID:     meetingID,
		VisualType:    visualType,
		Title:         title,
		ImageURL:      imageURL,
		ObjectName:    objectName,
		PromptUsed:    prompt,
		RevisedPrompt: image.RevisedPrompt,
		Style:         style,
		ImageSize:     s.imageCfg.Size,
	}
	if err := s.visualRepo.Create(asset); err != nil {
		return nil, fmt.Errorf("保存视觉资产记录失败: %w", err)
	}
	log.Infof("[VisualService] 视觉摘要生成完成, MeetingID: %d, AssetID: %d", meetingID, asset.ID)
	return asset, nil
}

// ListVisuals 返回某次会议的全部视觉资产。
func (s *visualService) ListVisuals(ownerID, meetingID uint) ([]model.VisualAsset, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.OwnerID != ownerID {
		return nil, ErrMeetingNotOwned
	}
	return s.visualRepo.FindByMeetingID(meetingID)
}

// DeleteVisual 删除一条视觉资产及其 MinIO 对象。
func (s *visualService) DeleteVisual(ctx context.Context, ownerID, meetingID, assetID uint) error {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return err
	}
	if meeting.OwnerID != ownerID {
		return ErrMeetingNotOwned
	}

	asset, err := s.visualRepo.FindByID(assetID)
	if err != nil {
		return err
	}
	if asset.MeetingID != meetingID {
		return gorm.ErrRecordNotFound
	}

	// 对象删除失败不阻塞记录删除，资产记录是权威数据
	if err := storage.RemoveObject(ctx, s.minioCfg.BucketName, asset.ObjectName); err != nil {
		log.Warnf("[VisualService] 删除图像对象失败, Object: %s, error: %v", asset.ObjectName, err)
	}
	if err := s.visualRepo.DeleteByID(assetID); err != nil {
		return fmt.Errorf("删除视觉资产记录失败: %w", err)
	}
	log.Infof("[VisualService] 视觉资产已删除, MeetingID: %d, AssetID: %d", meetingID, assetID)
	return nil
}

// loadVisualContent 按视觉类型取出作图素材。
func (s *visualService) loadVisualContent(meetingID uint, visualType, meetingTitle string) (content, title string, err error) {
	summary, err := s.meetingRepo.FindSummary(meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", errors.New("该会议尚未生成摘要，无法生成视觉内容")
		}
		return "", "", err
	}

	switch visualType {
	case model.VisualTypeSummary:
		return summary.Summary, fmt.Sprintf("Summary of %s", meetingTitle), nil
	case model.VisualTypeActionItems:
		items := parseJSONList(summary.ActionItems)
		if len(items) == 0 {
			return "", "", errors.New("该会议没有行动项")
		}
		return "Action items:\n- " + strings.Join(items, "\n- "), fmt.Sprintf("Action items of %s", meetingTitle), nil
	case model.VisualTypeDecisions:
		items := parseJSONList(summary.Decisions)
		if len(items) == 0 {
			return "", "", errors.New("该会议没有决策记录")
		}
		return "Decisions:\n- " + strings.Join(items, "\n- "), fmt.Sprintf("Decisions of %s", meetingTitle), nil
	}
	return "", "", fmt.Errorf("不支持的视觉类型: %s", visualType)
}
