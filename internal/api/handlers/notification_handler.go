package handlers

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/internal/api/presenters"
	"Fridge-Keeper/pkg/freshness"
	"Fridge-Keeper/pkg/notification"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	NotificationHandler interface {
		SendNotification(c *fiber.Ctx) error
	}

	notificationHandler struct {
		notificationService notification.NotificationService
		validator           *validator.Validate
	}
)

func NewNotificationHandler(notificationService notification.NotificationService, validator *validator.Validate) NotificationHandler {
	return &notificationHandler{
		notificationService: notificationService,
		validator:           validator,
	}
}

// SendNotification serves three triggers: an empty body runs the batch scan,
// {name, expiry_date} runs the immediate path and {welcome: true} sends the
// onboarding message.
func (h *notificationHandler) SendNotification(c *fiber.Ctx) error {
	req := new(domain.SendNotificationRequest)

	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendNotification, err)
	}

	switch {
	case req.Welcome:
		report, err := h.notificationService.SendWelcome(c.Context(), req.Endpoint)
		if err != nil {
			return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSendNotification, err)
		}
		return presenters.SuccessResponse(c, domain.SendNotificationResponse{
			Success: true,
			Sent:    report.Sent,
			Failed:  report.Failed,
		}, fiber.StatusOK, domain.MessageSuccessSendNotification)

	case req.IsBatch():
		if subject, ok := c.Locals("trigger_subject").(string); ok {
			log.Infof("SendNotification: Batch scan triggered by %s", subject)
		}
		res, err := h.notificationService.NotifyExpiring(c.Context())
		if err != nil {
			return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSendNotification, err)
		}
		if res.Items == 0 {
			return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageNoItemsToNotify)
		}
		return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSendNotification)

	default:
		expiry, err := freshness.ParseDate(req.ExpiryDate)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendNotification, domain.ErrInvalidExpiryDate)
		}
		res, err := h.notificationService.NotifyAdded(c.Context(), req.Name, expiry)
		if err != nil {
			return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSendNotification, err)
		}

		switch {
		case res.Items == 0:
			return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageNoItemsToNotify)
		case res.Sent == 0 && res.Failed == 0:
			return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageNoSubscribersToNotify)
		}
		return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSendNotification)
	}
}
