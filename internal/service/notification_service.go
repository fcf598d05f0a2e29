package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/model"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/repository"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/internal/util"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/logger"
	"github.com/Nishashahzad/ISLAMIC-CENTER-LMS/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Notifier delivers a message to a user. Callers treat delivery as best-effort.
type Notifier interface {
	Notify(ctx context.Context, recipientID uint, title, message string) error
}

// NotificationService persists notifications and, when Redis is configured,
// publishes them on notifications:<userId> for live clients.
type NotificationService struct {
	Users         *repository.UserRepository
	Notifications *repository.NotificationRepository
	Redis         *redis.Client
}

func NewNotificationService(users *repository.UserRepository, notifications *repository.NotificationRepository, rdb *redis.Client) *NotificationService {
	return &NotificationService{Users: users, Notifications: notifications, Redis: rdb}
}

func Channel(userID string) string {
	return "notifications:" + userID
}

func (s *NotificationService) Notify(ctx context.Context, recipientID uint, title, message string) error {
	n := &model.Notification{RecipientID: recipientID, Title: title, Message: message}
	if err := s.Notifications.Create(ctx, n); err != nil {
		return err
	}
	if s.Redis == nil {
		return nil
	}

	recipient, err := s.Users.FindByID(ctx, recipientID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(ctx, Channel(recipient.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// ListForUser returns the caller's most recent notifications.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	user, err := s.Users.FindByUserID(ctx, userID)
	if err != nil {
		return nil, util.Storage("resolve user", err)
	}
	list, err := s.Notifications.ListByRecipient(ctx, user.ID, limit)
	if err != nil {
		return nil, util.Storage("list notifications", err)
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, notificationID uint) error {
	user, err := s.Users.FindByUserID(ctx, userID)
	if err != nil {
		return util.Storage("resolve user", err)
	}
	ok, err := s.Notifications.MarkRead(ctx, notificationID, user.ID)
	if err != nil {
		return util.Storage("mark notification read", err)
	}
	if !ok {
		return util.ErrNotificationNotFound
	}
	return nil
}

// notifyBestEffort sends through n and only logs a failure.
func notifyBestEffort(ctx context.Context, n Notifier, recipientID uint, title, message string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, recipientID, title, message); err != nil {
		monitoring.GradingEvents.WithLabelValues(monitoring.EventNotificationError).Inc()
		logger.Log.Warn("Notification failed",
			zap.Uint("recipientId", recipientID),
			zap.String("title", title),
			zap.Error(err),
		)
	}
}
