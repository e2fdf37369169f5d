package workers

import (
	"chat-widget/contract"
	"chat-widget/domain/event"
	"context"
	"log/slog"
	"time"
)

// EventFanout delivers session events to the presentation sinks.
//
// Sinks are called one after the other, in registration order, for every
// event. Rendering sinks are therefore expected to be registered before the
// chime so that a message is drawn before it is announced. A sink failing or
// exceeding sinkTimeout is logged and skipped, it never stops the fanout.
type EventFanout struct {
	log         *slog.Logger
	events      <-chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events <-chan event.DomainEvent, sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{log: log, events: events, sinks: sinks, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout hands one event to every sink.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		w.consume(ctx, sink, evt)
	}
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	if w.sinkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.sinkTimeout)
		defer cancel()
	}
	if err := sink.Consume(ctx, evt); err != nil {
		w.log.Warn("Sink failed", "event", evt.Name(), "error", err)
	}
}
