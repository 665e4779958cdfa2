package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"denimops/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	notificationListKey = "denimops:notifications"
	notificationChannel = "denimops:events"
	notificationBacklog = 1000
)

// NotificationService is the fire-and-forget event sink. A failed push is
// logged and swallowed; it must never block or fail the calling operation.
type NotificationService interface {
	Notify(ctx context.Context, notificationType, message string)
}

type redisNotificationService struct {
	client *redis.Client
}

func NewNotificationService(redisAddr, redisPassword string, redisDB int) NotificationService {
	parsedAddr := redisAddr
	if strings.HasPrefix(redisAddr, "redis://") || strings.HasPrefix(redisAddr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(redisAddr, "redis://"), "rediss://"); hostPort != redisAddr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	return &redisNotificationService{client: client}
}

func (s *redisNotificationService) Notify(ctx context.Context, notificationType, message string) {
	notification := models.Notification{
		Type:      notificationType,
		Message:   message,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(notification)
	if err != nil {
		log.Printf("Failed to marshal notification %s: %v", notificationType, err)
		return
	}

	if err := s.client.LPush(ctx, notificationListKey, data).Err(); err != nil {
		log.Printf("Failed to push notification %s: %v", notificationType, err)
		return
	}
	s.client.LTrim(ctx, notificationListKey, 0, notificationBacklog-1)

	if err := s.client.Publish(ctx, notificationChannel, data).Err(); err != nil {
		log.Printf("Failed to publish notification %s: %v", notificationType, err)
	}
}
