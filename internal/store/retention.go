package store

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// VisitorRetention is how long visitor records are kept.
const VisitorRetention = 365 * 24 * time.Hour

// StartRetention runs CleanupVisitors on the given cron spec (for example
// "@daily") until ctx is done. It also runs one cleanup immediately.
func (d *DB) StartRetention(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := d.CleanupVisitors(ctx, VisitorRetention); err != nil {
			d.log.Error().Err(err).Msg("Scheduled visitor cleanup failed")
		}
	})
	if err != nil {
		return nil, err
	}

	if _, err := d.CleanupVisitors(ctx, VisitorRetention); err != nil {
		d.log.Error().Err(err).Msg("Initial visitor cleanup failed")
	}

	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}
