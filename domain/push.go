package domain

import "errors"

var (
	MessageSuccessRegisterSubscription  = "push subscription registered successfully"
	MessageSuccessGetPublicKey          = "public key retrieved successfully"
	MessageSuccessGetSubscriptionStatus = "push subscription status retrieved successfully"

	MessageFailedRegisterSubscription  = "failed to register push subscription"
	MessageFailedGetPublicKey          = "failed to retrieve public key"
	MessageFailedGetSubscriptionStatus = "failed to retrieve push subscription status"

	ErrMissingVAPIDKeys    = errors.New("VAPID public and private keys must both be configured")
	ErrNoPublicKey         = errors.New("VAPID public key is not configured")
	ErrInvalidSubscription = errors.New("invalid push subscription")
)

type (
	PushSubscriptionKeys struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	}

	// PushSubscriptionPayload mirrors the JSON form of a browser PushSubscription.
	PushSubscriptionPayload struct {
		Endpoint       string               `json:"endpoint" validate:"required,url"`
		ExpirationTime *int64               `json:"expirationTime"`
		Keys           PushSubscriptionKeys `json:"keys" validate:"required"`
	}

	RegisterPushSubscriptionRequest struct {
		Subscription PushSubscriptionPayload `json:"subscription" validate:"required"`
		BrowserInfo  string                  `json:"browserInfo"`
	}

	PushSubscriptionResponse struct {
		ID          string `json:"id"`
		Endpoint    string `json:"endpoint"`
		BrowserInfo string `json:"browserInfo"`
	}

	SubscriptionStatusRequest struct {
		Endpoint string `query:"endpoint" validate:"required,url"`
	}

	SubscriptionStatusResponse struct {
		Endpoint   string `json:"endpoint"`
		Subscribed bool   `json:"subscribed"`
	}

	PublicKeyResponse struct {
		PublicKey string `json:"publicKey"`
	}
)
