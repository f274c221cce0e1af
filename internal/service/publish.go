package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/bookshop/internal/events"
	"github.com/Skotchmaster/bookshop/internal/logging"
)

// publish sends ev and only logs a failure; the write it reports on has
// already happened.
func publish(ctx context.Context, p events.Publisher, topic string, ev events.Event) {
	if p == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := p.PublishEvent(ctx, topic, strconv.FormatInt(ev.UserID, 10), ev); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", ev.Type, "error", err)
	}
}
