package notification

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Scheduler struct {
	service NotificationService
}

func NewScheduler(service NotificationService) *Scheduler {
	return &Scheduler{service: service}
}

// Run performs the batch scan on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context, ticker *time.Ticker) {
	for {
		select {
		case <-ctx.Done():
			log.Info("scheduler: Stopping batch notifications")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	log.Info("scheduler: Starting batch expiry scan")
	res, err := s.service.NotifyExpiring(ctx)
	if err != nil {
		log.Errorf("scheduler: Error running batch expiry scan, err: %v", err)
		return
	}
	log.Infof("scheduler: Batch expiry scan done, items: %d, success: %d, failure: %d", res.Items, res.Sent, res.Failed)
}
