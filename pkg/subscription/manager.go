package subscription

import (
	"Fridge-Keeper/domain"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/pkg/errors"
)

type Code string

const (
	CodeSWNotSupported    Code = "sw_not_supported"
	CodePushNotSupported  Code = "push_not_supported"
	CodeNoPublicKey       Code = "no_public_key"
	CodeAlreadySubscribed Code = "already_subscribed"
	CodeAlreadyDenied     Code = "already_denied"
	CodePermissionDenied  Code = "permission_denied"
	CodeDBError           Code = "db_error"
	CodeUnknownError      Code = "unknown_error"
)

// Error carries the failure class of a subscribe attempt.
type Error struct {
	Code Code
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of a subscribe error, or "" for nil.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknownError
}

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

type State string

const (
	StateUnsupported       State = "unsupported"
	StateNoPermission      State = "no_permission"
	StatePermissionGranted State = "permission_granted"
	StatePermissionDenied  State = "permission_denied"
	StateSubscribed        State = "subscribed"
)

type (
	// Platform is the device side of web push: service worker support,
	// notification permission and the push manager.
	Platform interface {
		SupportsServiceWorker() bool
		SupportsPush() bool
		Permission(ctx context.Context) Permission
		RequestPermission(ctx context.Context) (Permission, error)
		// CurrentSubscription returns nil when the device holds no subscription.
		CurrentSubscription(ctx context.Context) (*domain.PushSubscriptionPayload, error)
		Subscribe(ctx context.Context, applicationServerKey string) (*domain.PushSubscriptionPayload, error)
		Unsubscribe(ctx context.Context) error
		BrowserInfo() string
	}

	// Registrar persists subscriptions on the server and triggers the welcome
	// message.
	Registrar interface {
		Register(ctx context.Context, req domain.RegisterPushSubscriptionRequest) error
		Registered(ctx context.Context, endpoint string) (bool, error)
		Welcome(ctx context.Context, endpoint string) error
	}
)

type Manager struct {
	platform  Platform
	registrar Registrar
	publicKey string
}

func NewManager(platform Platform, registrar Registrar, publicKey string) *Manager {
	return &Manager{
		platform:  platform,
		registrar: registrar,
		publicKey: publicKey,
	}
}

// Subscribe walks the device from its current permission state to a
// persisted subscription. Every failure is an *Error.
func (m *Manager) Subscribe(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Subscribe: Recovered from panic: %v", r)
			err = &Error{Code: CodeUnknownError, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if !m.platform.SupportsServiceWorker() {
		return &Error{Code: CodeSWNotSupported}
	}
	if !m.platform.SupportsPush() {
		return &Error{Code: CodePushNotSupported}
	}
	if m.publicKey == "" {
		return &Error{Code: CodeNoPublicKey, Err: domain.ErrNoPublicKey}
	}

	current, err := m.platform.CurrentSubscription(ctx)
	if err != nil {
		return &Error{Code: CodeUnknownError, Err: err}
	}
	if current != nil {
		return &Error{Code: CodeAlreadySubscribed}
	}

	switch m.platform.Permission(ctx) {
	case PermissionDenied:
		return &Error{Code: CodeAlreadyDenied}
	case PermissionGranted:
	default:
		p, err := m.platform.RequestPermission(ctx)
		if err != nil {
			return &Error{Code: CodeUnknownError, Err: err}
		}
		if p != PermissionGranted {
			return &Error{Code: CodePermissionDenied}
		}
	}

	sub, err := m.platform.Subscribe(ctx, m.publicKey)
	if err != nil {
		return &Error{Code: CodeUnknownError, Err: err}
	}
	if sub == nil {
		return &Error{Code: CodeUnknownError, Err: errors.New("platform returned no subscription")}
	}

	if err := m.registrar.Register(ctx, domain.RegisterPushSubscriptionRequest{
		Subscription: *sub,
		BrowserInfo:  m.platform.BrowserInfo(),
	}); err != nil {
		// drop the device subscription so a retry starts from a clean state
		if uerr := m.platform.Unsubscribe(ctx); uerr != nil {
			log.Warnf("Subscribe: Error removing unregistered subscription, endpoint: %s, err: %v", sub.Endpoint, uerr)
		}
		return &Error{Code: CodeDBError, Err: err}
	}

	if err := m.registrar.Welcome(ctx, sub.Endpoint); err != nil {
		log.Warnf("Subscribe: Error sending welcome notification, endpoint: %s, err: %v", sub.Endpoint, err)
	}
	return nil
}

// CheckSubscription reports whether the device currently holds a push
// subscription. It never prompts or registers anything.
func (m *Manager) CheckSubscription(ctx context.Context) (bool, error) {
	if !m.platform.SupportsServiceWorker() || !m.platform.SupportsPush() {
		return false, nil
	}
	sub, err := m.platform.CurrentSubscription(ctx)
	if err != nil {
		return false, err
	}
	return sub != nil, nil
}

// CheckRegistration reports whether the device subscription is also known to
// the server. Like CheckSubscription it never prompts or registers anything.
func (m *Manager) CheckRegistration(ctx context.Context) (bool, error) {
	if !m.platform.SupportsServiceWorker() || !m.platform.SupportsPush() {
		return false, nil
	}
	sub, err := m.platform.CurrentSubscription(ctx)
	if err != nil || sub == nil {
		return false, err
	}
	return m.registrar.Registered(ctx, sub.Endpoint)
}

func (m *Manager) State(ctx context.Context) State {
	if !m.platform.SupportsServiceWorker() || !m.platform.SupportsPush() {
		return StateUnsupported
	}
	if ok, err := m.CheckSubscription(ctx); err == nil && ok {
		return StateSubscribed
	}
	switch m.platform.Permission(ctx) {
	case PermissionGranted:
		return StatePermissionGranted
	case PermissionDenied:
		return StatePermissionDenied
	default:
		return StateNoPermission
	}
}
