//go:generate go run go.uber.org/mock/mockgen -source=message_repository.go -destination=../../mocks/mock_message_repository.go -package=mocks
package storage

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type IMessageRepository interface {
	StoreMessage(collection string, message DiskMessage) error
	GetMessages(collection string) ([]DiskMessage, error)
	Collections() ([]string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type DiskMessage struct {
	ID        string
	Sender    string
	Recipient string
	Body      string
	At        time.Time
}

const keyPrefix = "log:"

func collectionPrefix(collection string) string {
	return fmt.Sprintf("%s%s:", keyPrefix, collection)
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "log:{collection}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the id as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(collection string, message DiskMessage) error {
	key := fmt.Sprintf("%s%019d:%s",
		collectionPrefix(collection),
		message.At.UnixNano(),
		message.ID,
	)
	bytes, err := encodeMessage(message)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages returns the messages of a collection, oldest first.
// When limitMessages is set, only the most recent ones are kept.
func (m MessageRepository) GetMessages(collection string) ([]DiskMessage, error) {
	var messages []DiskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(collectionPrefix(collection))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Start past the newest possible key and walk back in time
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			// "log:a:" is also a prefix of every key of collection "a:0"
			if owner, ok := collectionFromKey(string(it.Item().Key())); !ok || owner != collection {
				continue
			}
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				message, err := decodeMessage(value)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Collected newest first, callers want commit order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Collections lists every collection holding at least one message.
func (m MessageRepository) Collections() ([]string, error) {
	seen := make(map[string]struct{})
	var collections []string
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			collection, ok := collectionFromKey(string(it.Item().Key()))
			if !ok {
				continue
			}
			if _, known := seen[collection]; !known {
				seen[collection] = struct{}{}
				collections = append(collections, collection)
			}
		}
		return nil
	})
	return collections, err
}

// collectionFromKey strips "log:" and the trailing ":{timestamp}:{id}".
func collectionFromKey(key string) (string, bool) {
	rest := key[len(keyPrefix):]
	idSep := strings.LastIndexByte(rest, ':')
	if idSep < 0 {
		return "", false
	}
	tsSep := strings.LastIndexByte(rest[:idSep], ':')
	if tsSep < 0 {
		return "", false
	}
	return rest[:tsSep], true
}

func encodeMessage(message DiskMessage) ([]byte, error) {
	record, err := structpb.NewStruct(map[string]any{
		"id":        message.ID,
		"sender":    message.Sender,
		"recipient": message.Recipient,
		"body":      message.Body,
		"seconds":   float64(message.At.Unix()),
		"nanos":     float64(message.At.Nanosecond()),
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(record)
}

func decodeMessage(value []byte) (DiskMessage, error) {
	var record structpb.Struct
	if err := proto.Unmarshal(value, &record); err != nil {
		return DiskMessage{}, err
	}
	fields := record.GetFields()
	return DiskMessage{
		ID:        fields["id"].GetStringValue(),
		Sender:    fields["sender"].GetStringValue(),
		Recipient: fields["recipient"].GetStringValue(),
		Body:      fields["body"].GetStringValue(),
		At: time.Unix(
			int64(fields["seconds"].GetNumberValue()),
			int64(fields["nanos"].GetNumberValue()),
		).UTC(),
	}, nil
}
