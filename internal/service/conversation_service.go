package service

import (
	"context"

	"meetmind-go/internal/model"
	"meetmind-go/internal/repository"
)

// ConversationService 定义了问答历史的业务逻辑接口。
type ConversationService interface {
	GetConversationHistory(ctx context.Context, userID, meetingID uint) ([]model.ChatMessage, error)
	ClearConversation(ctx context.Context, userID, meetingID uint) error
}

type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

// GetConversationHistory 获取用户在某次会议上当前会话的完整消息历史。
func (s *conversationService) GetConversationHistory(ctx context.Context, userID, meetingID uint) ([]model.ChatMessage, error) {
	conversationID, err := s.repo.GetOrCreateConversationID(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetConversationHistory(ctx, conversationID)
}

// ClearConversation 清空用户在某次会议上的当前会话。
func (s *conversationService) ClearConversation(ctx context.Context, userID, meetingID uint) error {
	return s.repo.ClearConversation(ctx, userID, meetingID)
}
