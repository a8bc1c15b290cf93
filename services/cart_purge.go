package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type CartPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CartPurgeJob removes cart items nobody has checked out within the
// retention window.
type CartPurgeJob struct {
	carts     CartPurger
	retention time.Duration
	timeout   time.Duration
	now       func() time.Time
}

func NewCartPurgeJob(carts CartPurger, retention time.Duration) *CartPurgeJob {
	return &CartPurgeJob{carts: carts, retention: retention, timeout: time.Minute, now: time.Now}
}

// Run implements cron.Job.
func (j *CartPurgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cutoff := j.now().Add(-j.retention)
	n, err := j.carts.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("[CRON] [ERROR] cart purge failed: %v", err)
		return
	}
	log.Printf("[CRON] purged %d cart items added before %s", n, cutoff.Format(time.RFC3339))
}

// StartScheduler registers job under spec (standard five-field cron syntax)
// and starts the scheduler.
func StartScheduler(spec string, job cron.Job) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddJob(spec, job); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
