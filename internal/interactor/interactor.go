// Package interactor implements the library use cases on top of the
// repositories. Operations report success as a bool and log failures;
// nothing is retried.
package interactor

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/animelib/internal/events"
)

// base carries what every interactor shares.
type base struct {
	bus events.Publisher // nil if not configured
	log *slog.Logger
	now func() time.Time
}

func newBase(bus events.Publisher, log *slog.Logger, component string) base {
	if log == nil {
		log = slog.Default()
	}
	return base{bus: bus, log: log.With("component", component), now: time.Now}
}

func (b base) nowMillis() int64 {
	return b.now().UnixMilli()
}

func (b base) publish(ctx context.Context, e events.Event) {
	if b.bus == nil {
		return
	}
	if err := b.bus.Publish(ctx, e); err != nil {
		b.log.Warn("publish event", "type", e.EventType(), "error", err)
	}
}
