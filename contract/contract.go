//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-widget/domain/chat"
	"chat-widget/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// RemoteLog is the ordered, append-only collection the widget renders.
// The log assigns ids and server timestamps.
type RemoteLog interface {
	// Subscribe delivers the existing records as a first batch, then one
	// batch per remote mutation, in commit order. The channel is closed when
	// ctx is done or after a batch carrying an error.
	Subscribe(ctx context.Context, collection string) (<-chan event.Batch, error)
	// Append stores a record and returns its id.
	Append(ctx context.Context, collection string, record chat.Record) (string, error)
}

// EventSink is the presentation side of a session.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}
