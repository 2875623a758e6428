package chat

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// DefaultInterval is how often an open chat view refetches messages.
const DefaultInterval = 3 * time.Second

// Poller refetches the viewer's messages on a fixed interval until its
// context ends.  Messages are never pushed; a new one shows up at the
// next tick.
type Poller struct {
	Interval time.Duration
	Fetch    func(ctx context.Context) ([]model.Message, error)
	OnUpdate func([]model.Message)
}

// Run fetches once immediately and then on every tick.  Fetch errors are
// logged and the poller keeps going.  Run returns when ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	msgs, err := p.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("chat: poll failed: %v", err)
		}
		return
	}
	if p.OnUpdate != nil {
		p.OnUpdate(msgs)
	}
}
