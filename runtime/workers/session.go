package workers

import (
	"chat-widget/contract"
	"chat-widget/domain/event"
	"chat-widget/services"
	"context"
	"log/slog"
)

// Command is a gesture applied to the session by the session worker.
type Command func(s *services.Session) []event.DomainEvent

// SessionWorker is the only goroutine touching the session. It applies
// subscription batches and gesture commands one at a time, in arrival
// order, and publishes the resulting events.
type SessionWorker struct {
	log      *slog.Logger
	session  *services.Session
	remote   contract.RemoteLog
	commands <-chan Command
	events   chan<- event.DomainEvent
}

func NewSessionWorker(log *slog.Logger, session *services.Session, remote contract.RemoteLog,
	commands <-chan Command, events chan<- event.DomainEvent) *SessionWorker {
	return &SessionWorker{log: log, session: session, remote: remote, commands: commands, events: events}
}

// Run subscribes once and serves until ctx is done. A failed subscription
// is reported and not retried, gestures keep being served.
func (w *SessionWorker) Run(ctx context.Context) error {
	// Released on return so that a restarted worker never leaves a
	// subscription behind.
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	collection := w.session.Collection()
	batches, err := w.remote.Subscribe(subCtx, collection)
	if err != nil {
		w.publish(ctx, w.session.ApplyBatch(event.Batch{Err: err}))
		batches = nil
	} else {
		w.log.Info("Listening collection", "collection", collection)
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping session worker")
			return nil
		case batch, ok := <-batches:
			if !ok {
				w.log.Info("Subscription ended", "collection", collection)
				batches = nil
				continue
			}
			w.publish(ctx, w.session.ApplyBatch(batch))
		case cmd := <-w.commands:
			w.publish(ctx, cmd(w.session))
		}
	}
}

func (w *SessionWorker) publish(ctx context.Context, events []event.DomainEvent) {
	for _, evt := range events {
		select {
		case w.events <- evt:
		case <-ctx.Done():
			return
		}
	}
}
