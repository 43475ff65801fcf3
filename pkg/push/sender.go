package push

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/entities"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/pkg/errors"
)

const (
	DefaultSubject = "mailto:admin@refrigerator-pwa.com"
	DefaultTTL     = 24 * 60 * 60
)

// Sender delivers one encrypted payload to one subscription.
type Sender interface {
	Send(ctx context.Context, subscription *entities.PushSubscription, payload []byte) error
}

type (
	SenderConfig struct {
		PublicKey  string
		PrivateKey string
		Subject    string
		TTL        int
		HTTPClient webpush.HTTPClient
	}

	vapidSender struct {
		options webpush.Options
	}
)

// NewSender fails closed when either half of the VAPID key pair is missing.
func NewSender(cfg SenderConfig) (Sender, error) {
	if cfg.PublicKey == "" || cfg.PrivateKey == "" {
		return nil, domain.ErrMissingVAPIDKeys
	}
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &vapidSender{
		options: webpush.Options{
			HTTPClient: cfg.HTTPClient,
			// the library adds the mailto: scheme itself
			Subscriber:      strings.TrimPrefix(cfg.Subject, "mailto:"),
			TTL:             cfg.TTL,
			Urgency:         webpush.UrgencyNormal,
			VAPIDPublicKey:  cfg.PublicKey,
			VAPIDPrivateKey: cfg.PrivateKey,
		},
	}, nil
}

func (s *vapidSender) Send(ctx context.Context, subscription *entities.PushSubscription, payload []byte) error {
	var target webpush.Subscription
	if err := json.Unmarshal(subscription.Subscription, &target); err != nil {
		return errors.Wrapf(err, "error decoding push subscription for endpoint: %s", subscription.Endpoint)
	}
	if target.Endpoint == "" {
		target.Endpoint = subscription.Endpoint
	}

	opts := s.options
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &target, &opts)
	if err != nil {
		return errors.Wrapf(err, "error sending push to endpoint: %s", subscription.Endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("push service rejected endpoint: %s, status: %d, body: %s",
			subscription.Endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
