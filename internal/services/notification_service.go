package services

import (
	"context"
	"fmt"

	"firebase.google.com/go/messaging"

	"homevistaBack/internal/models"
	"homevistaBack/internal/repositories"
)

// NotificationService sends FCM pushes to listers about their own
// listings. A nil messaging client disables pushes entirely.
type NotificationService struct {
	Client   *messaging.Client
	UserRepo *repositories.UserRepository
}

// ListingPublished tells the lister their listing is live.
func (s *NotificationService) ListingPublished(ctx context.Context, property models.Property) error {
	if s.Client == nil {
		return nil
	}

	token, err := s.UserRepo.GetFCMToken(ctx, property.ListedBy)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Your listing is live",
			Body:  fmt.Sprintf("%s is now visible to buyers", property.Title),
		},
		Data: map[string]string{
			"property_id": fmt.Sprintf("%d", property.ID),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	_, err = s.Client.Send(ctx, message)
	return err
}
