package push

import (
	"Fridge-Keeper/entities"
	"context"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	PushRepository interface {
		UpsertSubscription(ctx context.Context, subscription *entities.PushSubscription) error
		GetSubscriptionByEndpoint(ctx context.Context, endpoint string) (*entities.PushSubscription, error)
		GetSubscriptions(ctx context.Context) ([]*entities.PushSubscription, error)
	}

	pushRepository struct {
		db *gorm.DB
	}
)

func NewPushRepository(db *gorm.DB) PushRepository {
	return &pushRepository{db: db}
}

// UpsertSubscription inserts the subscription or, when a row with the same
// endpoint exists, overwrites its blob and browser info.
func (r *pushRepository) UpsertSubscription(ctx context.Context, subscription *entities.PushSubscription) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"subscription", "browser_info", "updated_at"}),
		}).
		Create(subscription).Error; err != nil {
		return errors.Wrapf(err, "error upserting push subscription for endpoint: %s", subscription.Endpoint)
	}
	return nil
}

func (r *pushRepository) GetSubscriptionByEndpoint(ctx context.Context, endpoint string) (*entities.PushSubscription, error) {
	var subscription entities.PushSubscription
	if err := r.db.WithContext(ctx).Where("endpoint = ?", endpoint).First(&subscription).Error; err != nil {
		return nil, errors.Wrapf(err, "error finding push subscription for endpoint: %s", endpoint)
	}
	return &subscription, nil
}

func (r *pushRepository) GetSubscriptions(ctx context.Context) ([]*entities.PushSubscription, error) {
	var subscriptions []*entities.PushSubscription
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&subscriptions).Error; err != nil {
		return nil, errors.Wrap(err, "error finding all push subscriptions")
	}
	return subscriptions, nil
}
