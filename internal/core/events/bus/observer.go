package bus

import "github.com/zeusync/tileworld/internal/core/observability/log"

// LogObserver writes every delivery to a logger at debug level. Registering
// it also turns on Metrics.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	if logger == nil {
		logger = log.Provide()
	}
	return &LogObserver{logger: logger.With(log.String("component", "bus"))}
}

func (o *LogObserver) OnPublish(Event) {}

func (o *LogObserver) OnDelivered(event Event, handlers int, err error) {
	fields := []log.Field{
		log.String("event", event.Type),
		log.String("source", event.Source),
		log.Int("handlers", handlers),
	}
	if err != nil {
		fields = append(fields, log.Error(err))
	}
	o.logger.Debug("Event delivered", fields...)
}

// LogStats writes the counters of b at debug level.
func (o *LogObserver) LogStats(b EventBus) {
	m := b.Metrics()
	o.logger.Debug("Event bus stats",
		log.Uint64("published", m.Published),
		log.Uint64("delivered_handlers", m.DeliveredHandlers),
		log.Uint64("errors", m.Errors),
		log.Uint64("queued", m.Queued),
		log.Uint64("subscribers", m.Subscribers),
	)
}
