package service

import (
	"context"
	"sort"
	"time"

	"cirqls/internal/models"
	"cirqls/internal/notifications"
	"cirqls/internal/repository"
)

type NotificationService struct {
	messageRepo repository.MessageRepository
	commentRepo repository.CommentRepository
}

// Notification is one entry in the unread inbox: either a direct message or
// a comment left on one of the user's posts. Type discriminates the payload.
type Notification struct {
	Type      string      `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	Payload   interface{} `json:"payload"`
}

func NewNotificationService(messageRepo repository.MessageRepository, commentRepo repository.CommentRepository) *NotificationService {
	return &NotificationService{messageRepo: messageRepo, commentRepo: commentRepo}
}

// GetNotifications returns the user's unread messages and unread comments on
// their posts as one list, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uint) ([]Notification, error) {
	messages, err := s.messageRepo.GetUnreadForRecipient(ctx, userID)
	if err != nil {
		return nil, models.NewUpstreamError("notifications", err)
	}

	comments, err := s.commentRepo.GetUnreadForAuthor(ctx, userID)
	if err != nil {
		return nil, models.NewUpstreamError("notifications", err)
	}

	result := make([]Notification, 0, len(messages)+len(comments))
	for _, m := range messages {
		result = append(result, Notification{
			Type:      notifications.EventNewMessage,
			CreatedAt: m.SentAt,
			Payload:   m,
		})
	}
	for _, c := range comments {
		result = append(result, Notification{
			Type:      notifications.EventNewNotification,
			CreatedAt: c.CreatedAt,
			Payload:   c,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
