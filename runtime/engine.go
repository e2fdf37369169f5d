// Package runtime wires a chat session to its remote log and its
// presentation sinks. It orchestrates without containing domain rules.
package runtime

import (
	"chat-widget/contract"
	"chat-widget/domain/event"
	"chat-widget/errors"
	"chat-widget/infrastructure/storage"
	"chat-widget/projection"
	"chat-widget/runtime/workers"
	"chat-widget/services"
	"context"
	stderrors "errors"
	"log/slog"
	"time"
)

// Engine is the entry point of the presentation layer: gestures go in
// through its methods, rendering instructions come out through the sinks.
type Engine struct {
	log        *slog.Logger
	outbox     *services.Outbox
	supervisor *workers.Supervisor
	commands   chan workers.Command
	events     chan event.DomainEvent
}

type EngineOptions struct {
	BufferSize  int
	SinkTimeout time.Duration
}

func NewEngine(log *slog.Logger, remote contract.RemoteLog, session *services.Session, outbox *services.Outbox,
	supervisor *workers.Supervisor, opts EngineOptions, sinks ...contract.EventSink) *Engine {
	commands := make(chan workers.Command)
	events := make(chan event.DomainEvent, max(opts.BufferSize, 1))

	supervisor.Add(
		workers.NewSessionWorker(log, session, remote, commands, events),
		workers.NewEventFanout(log, events, opts.SinkTimeout, sinks...),
	)
	return &Engine{
		log:        log,
		outbox:     outbox,
		supervisor: supervisor,
		commands:   commands,
		events:     events,
	}
}

// Start blocks until ctx is done or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.supervisor.Run(ctx)
	return nil
}

func (e *Engine) Stop() {
	e.supervisor.Stop()
}

// outcome carries a session result back to the calling goroutine.
type outcome struct {
	doc services.Document
	err error
}

// dispatch hands cmd to the session worker.
func (e *Engine) dispatch(ctx context.Context, cmd workers.Command) error {
	select {
	case e.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// query runs fn on the session worker and waits for its result.
func query[T any](ctx context.Context, e *Engine, fn func(s *services.Session) (T, []event.DomainEvent)) (T, error) {
	reply := make(chan T, 1)
	err := e.dispatch(ctx, func(s *services.Session) []event.DomainEvent {
		result, events := fn(s)
		reply <- result
		return events
	})
	if err != nil {
		var zero T
		return zero, err
	}
	select {
	case result := <-reply:
		return result, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (e *Engine) ToggleStar(ctx context.Context, id string) error {
	failure, err := query(ctx, e, func(s *services.Session) (outcome, []event.DomainEvent) {
		events, err := s.ToggleStar(id)
		return outcome{err: err}, events
	})
	if err != nil {
		return err
	}
	return failure.err
}

func (e *Engine) MarkAllRead(ctx context.Context) error {
	return e.dispatch(ctx, func(s *services.Session) []event.DomainEvent {
		return s.MarkAllRead()
	})
}

func (e *Engine) SetMuted(ctx context.Context, muted bool) error {
	return e.dispatch(ctx, func(s *services.Session) []event.DomainEvent {
		s.SetMuted(muted)
		return nil
	})
}

func (e *Engine) SetLocalUser(ctx context.Context, user string) error {
	return e.dispatch(ctx, func(s *services.Session) []event.DomainEvent {
		s.SetLocalUser(user)
		return nil
	})
}

func (e *Engine) View(ctx context.Context) (projection.ViewModel, error) {
	return query(ctx, e, func(s *services.Session) (projection.ViewModel, []event.DomainEvent) {
		return s.View(), nil
	})
}

func (e *Engine) Muted(ctx context.Context) (bool, error) {
	return query(ctx, e, func(s *services.Session) (bool, []event.DomainEvent) {
		return s.Muted(), nil
	})
}

func (e *Engine) Export(ctx context.Context) (services.Document, error) {
	r, err := query(ctx, e, func(s *services.Session) (outcome, []event.DomainEvent) {
		doc, err := s.Export()
		return outcome{doc: doc, err: err}, nil
	})
	if err != nil {
		return services.Document{}, err
	}
	return r.doc, r.err
}

// Download writes the export document into dir and returns its path.
func (e *Engine) Download(ctx context.Context, dir string) (string, error) {
	doc, err := e.Export(ctx)
	if err != nil {
		return "", err
	}
	path, err := storage.WriteDocument(dir, doc.Name, doc.Content)
	if err != nil {
		return "", err
	}
	e.emit(ctx, event.Exported{Path: path, Lines: doc.Lines()})
	return path, nil
}

// Send appends body on behalf of the local user as known right now.
// The outcome is also published, so that the presentation can clear the
// draft on success or show the prompt and keep it on failure.
func (e *Engine) Send(ctx context.Context, recipient, body string) (string, error) {
	sender, err := e.localUser(ctx)
	if err != nil {
		return "", err
	}
	return e.report(ctx, func() (string, error) {
		return e.outbox.Send(ctx, sender, recipient, body)
	})
}

func (e *Engine) RaiseHand(ctx context.Context, recipient string) (string, error) {
	sender, err := e.localUser(ctx)
	if err != nil {
		return "", err
	}
	return e.report(ctx, func() (string, error) {
		return e.outbox.RaiseHand(ctx, sender, recipient)
	})
}

func (e *Engine) localUser(ctx context.Context) (string, error) {
	return query(ctx, e, func(s *services.Session) (string, []event.DomainEvent) {
		return s.LocalUser(), nil
	})
}

func (e *Engine) report(ctx context.Context, send func() (string, error)) (string, error) {
	id, err := send()
	switch {
	case err != nil:
		var validation errors.ValidationError
		prompt := err.Error()
		if stderrors.As(err, &validation) {
			prompt = validation.Prompt
		}
		e.emit(ctx, event.SendFailed{Err: err, Prompt: prompt})
	case id != "":
		e.emit(ctx, event.MessageSent{ID: id})
	}
	return id, err
}

func (e *Engine) emit(ctx context.Context, evt event.DomainEvent) {
	select {
	case e.events <- evt:
	case <-ctx.Done():
	}
}
