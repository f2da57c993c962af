package repository

import (
	"context"

	"cirqls/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// GetConversation returns the messages exchanged between two users,
	// oldest first.
	GetConversation(ctx context.Context, userID, peerID uint, limit, offset int) ([]*models.Message, error)
	// GetConversationPeers returns the IDs of users this user has exchanged
	// messages with, most recent conversation first.
	GetConversationPeers(ctx context.Context, userID uint) ([]uint, error)
	GetUnreadForRecipient(ctx context.Context, recipientID uint) ([]*models.Message, error)
	// MarkConversationRead marks every message from peer to user as read.
	MarkConversationRead(ctx context.Context, userID, peerID uint) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) GetConversation(ctx context.Context, userID, peerID uint, limit, offset int) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID).
		Order("sent_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) GetConversationPeers(ctx context.Context, userID uint) ([]uint, error) {
	var rows []struct {
		PeerID uint
	}
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS peer_id", userID).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Group("peer_id").
		Order("MAX(sent_at) DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	peers := make([]uint, 0, len(rows))
	for _, row := range rows {
		peers = append(peers, row.PeerID)
	}
	return peers, nil
}

func (r *messageRepository) GetUnreadForRecipient(ctx context.Context, recipientID uint) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Order("sent_at DESC").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, userID, peerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", userID, peerID, false).
		Update("is_read", true).Error
}
