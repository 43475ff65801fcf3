package handlers

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/internal/api/presenters"
	"Fridge-Keeper/pkg/push"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PushHandler interface {
		GetPublicKey(c *fiber.Ctx) error
		RegisterSubscription(c *fiber.Ctx) error
		GetSubscriptionStatus(c *fiber.Ctx) error
	}

	pushHandler struct {
		pushService push.PushService
		validator   *validator.Validate
	}
)

func NewPushHandler(pushService push.PushService, validator *validator.Validate) PushHandler {
	return &pushHandler{
		pushService: pushService,
		validator:   validator,
	}
}

func (h *pushHandler) GetPublicKey(c *fiber.Ctx) error {
	res, err := h.pushService.GetPublicKey()
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetPublicKey, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPublicKey)
}

func (h *pushHandler) RegisterSubscription(c *fiber.Ctx) error {
	req := new(domain.RegisterPushSubscriptionRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterSubscription, err)
	}

	if req.BrowserInfo == "" {
		req.BrowserInfo = c.Get(fiber.HeaderUserAgent)
	}

	res, err := h.pushService.RegisterSubscription(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRegisterSubscription, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegisterSubscription)
}

// GetSubscriptionStatus reports whether the server holds a subscription for
// the endpoint query parameter.
func (h *pushHandler) GetSubscriptionStatus(c *fiber.Ctx) error {
	req := new(domain.SubscriptionStatusRequest)

	if err := c.QueryParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSubscriptionStatus, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSubscriptionStatus, err)
	}

	ok, err := h.pushService.HasSubscription(c.Context(), req.Endpoint)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetSubscriptionStatus, err)
	}

	return presenters.SuccessResponse(c, domain.SubscriptionStatusResponse{
		Endpoint:   req.Endpoint,
		Subscribed: ok,
	}, fiber.StatusOK, domain.MessageSuccessGetSubscriptionStatus)
}
