package notification

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/entities"
	"Fridge-Keeper/pkg/freshness"
	"Fridge-Keeper/pkg/push"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type (
	NotificationService interface {
		// NotifyAdded pushes the immediate alert when a new item is already
		// notification-worthy. Items is 1 when the item qualified, Sent and
		// Failed count the deliveries.
		NotifyAdded(ctx context.Context, name string, expiryDate time.Time) (domain.SendNotificationResponse, error)
		// NotifyExpiring runs the batch scan over [today, today+3] in the
		// reference zone and pushes one aggregate alert.
		NotifyExpiring(ctx context.Context) (domain.SendNotificationResponse, error)
		// SendWelcome pushes the onboarding message. An empty endpoint
		// addresses every subscription.
		SendWelcome(ctx context.Context, endpoint string) (domain.DeliveryReport, error)
	}

	ExpiringSource interface {
		GetIngredientsByExpiryRange(ctx context.Context, startDate, endDate time.Time) ([]*entities.Ingredient, error)
	}

	SubscriptionSource interface {
		GetSubscriptions(ctx context.Context) ([]*entities.PushSubscription, error)
	}

	notificationService struct {
		ingredients   ExpiringSource
		subscriptions SubscriptionSource
		sender        push.Sender
		zone          *time.Location
		clock         func() time.Time
	}
)

func NewNotificationService(ingredients ExpiringSource, subscriptions SubscriptionSource, sender push.Sender, zone *time.Location, clock func() time.Time) NotificationService {
	if zone == nil {
		zone = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &notificationService{
		ingredients:   ingredients,
		subscriptions: subscriptions,
		sender:        sender,
		zone:          zone,
		clock:         clock,
	}
}

// FixedZone returns the batch reference zone for a whole-hour UTC offset.
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone("", offsetHours*60*60)
}

func (s *notificationService) now() time.Time {
	return s.clock().In(s.zone)
}

func (s *notificationService) NotifyAdded(ctx context.Context, name string, expiryDate time.Time) (domain.SendNotificationResponse, error) {
	if !freshness.IsNotificationWorthy(expiryDate, s.now()) {
		log.Debugf("notify: Item: %s expires on %s, not notification-worthy", name, freshness.FormatDate(expiryDate))
		return domain.SendNotificationResponse{Success: true}, nil
	}

	report, err := s.broadcast(ctx, BuildPayload(KindImmediate, []string{name}), "")
	if err != nil {
		return domain.SendNotificationResponse{}, err
	}
	log.Infof("notify: Immediate alert for Item: %s, success: %d, failure: %d", name, report.Sent, report.Failed)

	return domain.SendNotificationResponse{
		Success: true,
		Items:   1,
		Sent:    report.Sent,
		Failed:  report.Failed,
	}, nil
}

func (s *notificationService) NotifyExpiring(ctx context.Context) (domain.SendNotificationResponse, error) {
	today := freshness.Day(s.now())
	end := today.AddDate(0, 0, freshness.UrgentThresholdDays)

	items, err := s.ingredients.GetIngredientsByExpiryRange(ctx, today, end)
	if err != nil {
		log.Errorf("notify: Error getting Items expiring between %s and %s, err: %v",
			freshness.FormatDate(today), freshness.FormatDate(end), err)
		return domain.SendNotificationResponse{}, domain.ErrStoreUnavailable
	}
	if len(items) == 0 {
		log.Infof("notify: No Items expiring between %s and %s", freshness.FormatDate(today), freshness.FormatDate(end))
		return domain.SendNotificationResponse{Success: true}, nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ExpiryDate.Before(items[j].ExpiryDate)
	})
	names := make([]string, 0, len(items))
	for _, i := range items {
		names = append(names, i.Name)
	}

	report, err := s.broadcast(ctx, BuildPayload(KindBatch, names), "")
	if err != nil {
		return domain.SendNotificationResponse{}, err
	}
	log.Infof("notify: Batch alert for %d Item(s), success: %d, failure: %d", len(items), report.Sent, report.Failed)

	return domain.SendNotificationResponse{
		Success: true,
		Items:   len(items),
		Sent:    report.Sent,
		Failed:  report.Failed,
	}, nil
}

func (s *notificationService) SendWelcome(ctx context.Context, endpoint string) (domain.DeliveryReport, error) {
	return s.broadcast(ctx, BuildPayload(KindWelcome, nil), endpoint)
}

// broadcast delivers payload to every registered subscription, or only to the
// one matching endpoint when it is set. A failed delivery is counted and
// logged and never stops the others.
func (s *notificationService) broadcast(ctx context.Context, payload domain.NotificationPayload, endpoint string) (domain.DeliveryReport, error) {
	subs, err := s.subscriptions.GetSubscriptions(ctx)
	if err != nil {
		log.Errorf("broadcast: Error getting push subscriptions, err: %v", err)
		return domain.DeliveryReport{}, domain.ErrStoreUnavailable
	}

	if endpoint != "" {
		matched := subs[:0:0]
		for _, sub := range subs {
			if sub.Endpoint == endpoint {
				matched = append(matched, sub)
			}
		}
		subs = matched
	}
	if len(subs) == 0 {
		log.Infof("broadcast: No push subscriptions to deliver: %q", payload.Title)
		return domain.DeliveryReport{}, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.DeliveryReport{}, err
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		report domain.DeliveryReport
	)
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *entities.PushSubscription) {
			defer wg.Done()
			err := s.sender.Send(ctx, sub, body)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				log.Warnf("broadcast: Error delivering push, subscription ID: %s, err: %v", sub.ID, err)
				return
			}
			report.Sent++
		}(sub)
	}
	wg.Wait()

	return report, nil
}
