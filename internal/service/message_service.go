package service

import (
	"context"
	"errors"

	"cirqls/internal/models"
	"cirqls/internal/repository"

	"gorm.io/gorm"
)

const maxMessageLen = 5000

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

type SendMessageInput struct {
	SenderID    uint
	RecipientID uint
	Body        string
}

// Conversation is one entry in a user's inbox listing.
type Conversation struct {
	Peer     *models.User      `json:"with_user"`
	Messages []*models.Message `json:"messages"`
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo}
}

func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if in.Body == "" {
		return nil, models.NewValidationError("Message body is required")
	}
	if len(in.Body) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 5000 characters)")
	}
	if in.SenderID == in.RecipientID {
		return nil, models.NewValidationError("Cannot message yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, in.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("user", in.RecipientID)
		}
		return nil, models.NewUpstreamError("messages", err)
	}

	message := &models.Message{
		SenderID:    in.SenderID,
		RecipientID: in.RecipientID,
		Body:        in.Body,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, models.NewUpstreamError("messages", err)
	}
	return message, nil
}

// GetConversation returns the exchange with one peer and marks the peer's
// messages read, since fetching a conversation means looking at it.
func (s *MessageService) GetConversation(ctx context.Context, userID, peerID uint, limit, offset int) ([]*models.Message, error) {
	messages, err := s.messageRepo.GetConversation(ctx, userID, peerID, limit, offset)
	if err != nil {
		return nil, models.NewUpstreamError("messages", err)
	}
	if err := s.messageRepo.MarkConversationRead(ctx, userID, peerID); err != nil {
		return nil, models.NewUpstreamError("messages", err)
	}
	return messages, nil
}

// GetConversations lists the user's inbox, one entry per peer with the
// recent exchange, most recently active first.
func (s *MessageService) GetConversations(ctx context.Context, userID uint) ([]Conversation, error) {
	peerIDs, err := s.messageRepo.GetConversationPeers(ctx, userID)
	if err != nil {
		return nil, models.NewUpstreamError("messages", err)
	}

	conversations := make([]Conversation, 0, len(peerIDs))
	for _, peerID := range peerIDs {
		peer, err := s.userRepo.GetByID(ctx, peerID)
		if err != nil {
			return nil, models.NewUpstreamError("messages", err)
		}
		messages, err := s.messageRepo.GetConversation(ctx, userID, peerID, 50, 0)
		if err != nil {
			return nil, models.NewUpstreamError("messages", err)
		}
		conversations = append(conversations, Conversation{Peer: peer, Messages: messages})
	}
	return conversations, nil
}
