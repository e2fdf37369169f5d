package storage

import (
	"chat-widget/domain/chat"
	"chat-widget/domain/event"
	"chat-widget/errors"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type subscriber struct {
	ctx     context.Context
	batches chan event.Batch
}

// BadgerLog is an in-process remote log backed by a MessageRepository.
// It assigns ids and server timestamps and pushes changes to live
// subscribers in commit order.
//
// An append is reported twice, as a real backend does for a local write:
// first as an "added" change without timestamp, then as a "modified"
// change once the timestamp is committed.
type BadgerLog struct {
	mu          sync.Mutex
	log         *slog.Logger
	repository  IMessageRepository
	now         func() time.Time
	bufferSize  int
	closed      bool
	subscribers map[string]map[*subscriber]struct{} // collection -> live subscriptions
}

func NewBadgerLog(log *slog.Logger, repository IMessageRepository, bufferSize int) *BadgerLog {
	return &BadgerLog{
		log:         log,
		repository:  repository,
		now:         time.Now,
		bufferSize:  max(bufferSize, 1),
		subscribers: make(map[string]map[*subscriber]struct{}),
	}
}

// WithClock replaces the server clock, used by tests.
func (b *BadgerLog) WithClock(now func() time.Time) *BadgerLog {
	b.now = now
	return b
}

// Subscribe registers a live subscription. The first batch holds every
// stored message of the collection, oldest first.
func (b *BadgerLog) Subscribe(ctx context.Context, collection string) (<-chan event.Batch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errors.ErrLogClosed
	}

	sub := &subscriber{ctx: ctx, batches: make(chan event.Batch, b.bufferSize)}
	stored, err := b.repository.GetMessages(collection)
	if err != nil {
		b.log.Error("Initial read failed", "collection", collection, "error", err)
		sub.batches <- event.Batch{Err: err}
		close(sub.batches)
		return sub.batches, nil
	}
	sub.batches <- event.Batch{Changes: lo.Map(stored, func(m DiskMessage, _ int) event.Change {
		return event.Change{Kind: event.Added, ID: m.ID, Data: toMessage(m)}
	})}

	if _, ok := b.subscribers[collection]; !ok {
		b.subscribers[collection] = make(map[*subscriber]struct{})
	}
	b.subscribers[collection][sub] = struct{}{}
	b.log.Debug("Subscriber registered", "collection", collection, "stored", len(stored))

	go func() {
		<-ctx.Done()
		b.unsubscribe(collection, sub)
	}()
	return sub.batches, nil
}

// Append stores record with a fresh id and the server timestamp.
func (b *BadgerLog) Append(ctx context.Context, collection string, record chat.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return "", errors.ErrLogClosed
	}

	id := uuid.NewString()
	pending := chat.Message{ID: id, Sender: record.Sender, Recipient: record.Recipient, Body: record.Body}
	b.publish(collection, event.Change{Kind: event.Added, ID: id, Data: pending})

	disk := DiskMessage{
		ID:        id,
		Sender:    record.Sender,
		Recipient: record.Recipient,
		Body:      record.Body,
		At:        b.now().UTC(),
	}
	if err := b.repository.StoreMessage(collection, disk); err != nil {
		return "", err
	}
	b.publish(collection, event.Change{Kind: event.Modified, ID: id, Data: toMessage(disk)})
	return id, nil
}

// Close ends every live subscription. Later calls fail with ErrLogClosed.
func (b *BadgerLog) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for collection, subs := range b.subscribers {
		for sub := range subs {
			close(sub.batches)
		}
		delete(b.subscribers, collection)
	}
}

// publish must be called with mu held, so that every subscriber sees
// changes in commit order. A subscriber that stops reading only blocks
// until its own context is done.
func (b *BadgerLog) publish(collection string, change event.Change) {
	for sub := range b.subscribers[collection] {
		select {
		case sub.batches <- event.Batch{Changes: []event.Change{change}}:
		case <-sub.ctx.Done():
		}
	}
}

func (b *BadgerLog) unsubscribe(collection string, sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[collection]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.batches)
	// If no one is left on the collection, remove the entry entirely
	if len(subs) == 0 {
		delete(b.subscribers, collection)
	}
}

func toMessage(m DiskMessage) chat.Message {
	at := m.At
	return chat.Message{
		ID:        m.ID,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Body:      m.Body,
		CreatedAt: &at,
	}
}
