package eventbus

import (
	"context"

	"github.com/Piscatoris/backwater-refresh/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в стандартный лог.
func StartLoggingListener(bus EventBus) Subscription {
	sub := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		logging.Debug("[EventBus] %s %s src=%s", ev.ID, ev.EventType, ev.Source)
	})
	logging.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub
}
