package push

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/entities"
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	PushService interface {
		RegisterSubscription(ctx context.Context, req domain.RegisterPushSubscriptionRequest) (domain.PushSubscriptionResponse, error)
		HasSubscription(ctx context.Context, endpoint string) (bool, error)
		GetPublicKey() (domain.PublicKeyResponse, error)
	}

	pushService struct {
		pushRepository PushRepository
		publicKey      string
	}
)

func NewPushService(pushRepository PushRepository, publicKey string) PushService {
	return &pushService{
		pushRepository: pushRepository,
		publicKey:      publicKey,
	}
}

func (s *pushService) RegisterSubscription(ctx context.Context, req domain.RegisterPushSubscriptionRequest) (domain.PushSubscriptionResponse, error) {
	if req.Subscription.Endpoint == "" || req.Subscription.Keys.P256dh == "" || req.Subscription.Keys.Auth == "" {
		return domain.PushSubscriptionResponse{}, domain.ErrInvalidSubscription
	}

	blob, err := json.Marshal(req.Subscription)
	if err != nil {
		return domain.PushSubscriptionResponse{}, domain.ErrInvalidSubscription
	}

	subscription := &entities.PushSubscription{
		ID:           uuid.New(),
		Endpoint:     req.Subscription.Endpoint,
		Subscription: datatypes.JSON(blob),
		BrowserInfo:  req.BrowserInfo,
	}
	if err := s.pushRepository.UpsertSubscription(ctx, subscription); err != nil {
		log.Errorf("RegisterSubscription: Error persisting subscription, endpoint: %s, err: %v", subscription.Endpoint, err)
		return domain.PushSubscriptionResponse{}, domain.ErrStoreUnavailable
	}

	// an overwrite keeps the original row id
	stored, err := s.pushRepository.GetSubscriptionByEndpoint(ctx, subscription.Endpoint)
	if err != nil {
		log.Warnf("RegisterSubscription: Error reading back subscription, endpoint: %s, err: %v", subscription.Endpoint, err)
		stored = subscription
	}

	log.Infof("RegisterSubscription: Registered push subscription, ID: %s, browser: %s", stored.ID, stored.BrowserInfo)
	return domain.PushSubscriptionResponse{
		ID:          stored.ID.String(),
		Endpoint:    stored.Endpoint,
		BrowserInfo: stored.BrowserInfo,
	}, nil
}

func (s *pushService) HasSubscription(ctx context.Context, endpoint string) (bool, error) {
	if _, err := s.pushRepository.GetSubscriptionByEndpoint(ctx, endpoint); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, domain.ErrStoreUnavailable
	}
	return true, nil
}

func (s *pushService) GetPublicKey() (domain.PublicKeyResponse, error) {
	if s.publicKey == "" {
		return domain.PublicKeyResponse{}, domain.ErrNoPublicKey
	}
	return domain.PublicKeyResponse{PublicKey: s.publicKey}, nil
}
