package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"meetmind-go/internal/model"
	"meetmind-go/internal/repository"
	"meetmind-go/pkg/llm"
	"meetmind-go/pkg/log"
)

// Language 描述一个支持的目标语言。
type Language struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

// 支持的翻译目标语言集合。顺序即 API 返回顺序。
var supportedLanguages = []Language{
	{Code: "zh", Name: "Chinese", NativeName: "中文"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
	{Code: "ja", Name: "Japanese", NativeName: "日本語"},
	{Code: "ko", Name: "Korean", NativeName: "한국어"},
	{Code: "pt", Name: "Portuguese", NativeName: "Português"},
	{Code: "ru", Name: "Russian", NativeName: "Русский"},
	{Code: "ar", Name: "Arabic", NativeName: "العربية"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी"},
}

// TranslationService 接口定义了会议内容翻译操作。
// 翻译结果按 (会议, 内容类型, 目标语言) 落库缓存。
type TranslationService interface {
	Translate(ctx context.Context, ownerID, meetingID uint, contentType, targetLanguage string) (*model.Translation, error)
	ListTranslations(ownerID, meetingID uint) ([]model.Translation, error)
	DeleteTranslation(ownerID, meetingID, translationID uint) error
	SupportedLanguages() []Language
}

type translationService struct {
	meetingRepo     repository.MeetingRepository
	translationRepo repository.TranslationRepository
	llmClient       llm.Client
}

// NewTranslationService 创建一个新的 TranslationService 实例。
func NewTranslationService(
	meetingRepo repository.MeetingRepository,
	translationRepo repository.TranslationRepository,
	llmClient llm.Client,
) TranslationService {
	return &translationService{
		meetingRepo:     meetingRepo,
		translationRepo: translationRepo,
		llmClient:       llmClient,
	}
}

// SupportedLanguages 返回全部支持的目标语言。
func (s *translationService) SupportedLanguages() []Language {
	return supportedLanguages
}

func lookupLanguage(code string) (Language, bool) {
	for _, lang := range supportedLanguages {
		if lang.Code == code {
			return lang, true
		}
	}
	return Language{}, false
}

// Translate 将某次会议的摘要或转写全文翻译到目标语言。
// 命中缓存时直接返回，不再调用 LLM。
func (s *translationService) Translate(ctx context.Context, ownerID, meetingID uint, contentType, targetLanguage string) (*model.Translation, error) {
	lang, ok := lookupLanguage(targetLanguage)
	if !ok {
		return nil, fmt.Errorf("不支持的目标语言: %s", targetLanguage)
	}
	if contentType != model.TranslateContentSummary && contentType != model.TranslateContentTranscript {
		return nil, fmt.Errorf("不支持的内容类型: %s", contentType)
	}

	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.OwnerID != ownerID {
		return nil, ErrMeetingNotOwned
	}

	// 缓存命中则直接返回
	cached, err := s.translationRepo.Find(meetingID, contentType, targetLanguage)
	if err == nil {
		log.Infof("[TranslationService] 翻译缓存命中, MeetingID: %d, %s -> %s", meetingID, contentType, targetLanguage)
		return cached, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	original, err := s.loadContent(meetingID, contentType)
	if err != nil {
		return nil, err
	}

	log.Infof("[TranslationService] 开始翻译, MeetingID: %d, %s -> %s, 长度: %d", meetingID, contentType, targetLanguage, len(original))
	messages := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(
			"You are a professional translator. Translate the following meeting %s into %s (%s). Preserve the meaning, tone and formatting. Respond with the translation only.",
			contentType, lang.Name, lang.NativeName)},
		{Role: "user", Content: original},
	}
	translated, err := s.llmClient.Complete(ctx, messages, nil)
	if err != nil {
		return nil, fmt.Errorf("调用 LLM 翻译失败: %w", err)
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		return nil, errors.New("LLM 返回了空的翻译结果")
	}

	tr := &model.Translation{
		MeetingID:      meetingID,
		ContentType:    contentType,
		TargetLanguage: lang.Code,
		LanguageName:   lang.Name,
		NativeName:     lang.NativeName,
		OriginalText:   original,
		TranslatedText: translated,
		OriginalLength: len(original),
		TranslatedLen:  len(translated),
	}
	if err := s.translationRepo.Create(tr); err != nil {
		return nil, fmt.Errorf("保存翻译结果失败: %w", err)
	}
	return tr, nil
}

// ListTranslations 返回某次会议已缓存的全部翻译。
func (s *translationService) ListTranslations(ownerID, meetingID uint) ([]model.Translation, error) {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return nil, err
	}
	if meeting.OwnerID != ownerID {
		return nil, ErrMeetingNotOwned
	}
	return s.translationRepo.FindByMeetingID(meetingID)
}

// DeleteTranslation 删除一条翻译缓存记录，下次请求将重新翻译。
func (s *translationService) DeleteTranslation(ownerID, meetingID, translationID uint) error {
	meeting, err := s.meetingRepo.FindByID(meetingID)
	if err != nil {
		return err
	}
	if meeting.OwnerID != ownerID {
		return ErrMeetingNotOwned
	}

	tr, err := s.translationRepo.FindByID(translationID)
	if err != nil {
		return err
	}
	if tr.MeetingID != meetingID {
		return gorm.ErrRecordNotFound
	}
	log.Infof("[TranslationService] 删除翻译缓存, MeetingID: %d, TranslationID: %d", meetingID, translationID)
	return s.translationRepo.DeleteByID(translationID)
}

// loadContent 取出待翻译的原文。
func (s *translationService) loadContent(meetingID uint, contentType string) (string, error) {
	switch contentType {
	case model.TranslateContentSummary:
		summary, err := s.meetingRepo.FindSummary(meetingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", errors.New("该会议尚未生成摘要")
			}
			return "", err
		}
		return summary.Summary, nil
	case model.TranslateContentTranscript:
		tr, err := s.meetingRepo.FindTranscription(meetingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", errors.New("该会议尚未生成转写")
			}
			return "", err
		}
		return tr.FullText, nil
	}
	return "", fmt.Errorf("不支持的内容类型: %s", contentType)
}
