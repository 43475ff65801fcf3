package domain

import "errors"

var (
	MessageSuccessSendNotification = "notifications sent"
	MessageNoItemsToNotify         = "No items"
	MessageNoSubscribersToNotify   = "No subscriptions to notify"

	MessageFailedSendNotification = "failed to send notifications"

	ErrTriggerUnauthorized = errors.New("batch trigger token is missing or invalid")
)

type (
	// NotificationPayload is the JSON document handed to the service worker.
	NotificationPayload struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		URL   string `json:"url"`
	}

	// SendNotificationRequest is the body of the notification trigger. An empty
	// body selects the batch scan; name/expiry_date select the immediate path.
	SendNotificationRequest struct {
		Name       string `json:"name"`
		ExpiryDate string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
		Welcome    bool   `json:"welcome"`
		// Endpoint limits a welcome message to the device that just subscribed.
		Endpoint string `json:"endpoint" validate:"omitempty,url"`
	}

	SendNotificationResponse struct {
		Success bool `json:"success"`
		Items   int  `json:"items"`
		Sent    int  `json:"sent"`
		Failed  int  `json:"failed"`
	}

	DeliveryReport struct {
		Sent   int
		Failed int
	}
)

func (r SendNotificationRequest) IsBatch() bool {
	return !r.Welcome && r.Name == ""
}
