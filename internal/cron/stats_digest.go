// Package cron runs the server's periodic jobs.
package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// StatsSource computes the admin dashboard counts.
type StatsSource interface {
	AdminStats(ctx context.Context) (model.AdminStats, error)
}

// StatsDigest logs the admin counts on a schedule so that an operator
// can follow listing review backlog without opening the dashboard.
type StatsDigest struct {
	Source  StatsSource
	Timeout time.Duration
	Logf    func(format string, args ...any)
}

// Start schedules the digest on spec (standard cron syntax or
// descriptors such as "@hourly") and starts the scheduler.  The caller
// stops it with Stop on the returned cron.
func (d *StatsDigest) Start(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, d.Run); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// Run computes and logs one digest.
func (d *StatsDigest) Run() {
	logf := d.Logf
	if logf == nil {
		logf = log.Printf
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	st, err := d.Source.AdminStats(ctx)
	if err != nil {
		logf("stats-digest: compute failed: %v", err)
		return
	}
	logf("stats-digest: users=%d owners=%d properties=%d pending=%d bookings=%d",
		st.TotalUsers, st.TotalOwners, st.TotalProperties, st.PendingProperties, st.TotalBookings)
}
