package main

import (
	"chat-widget/domain/chat"
	"chat-widget/infrastructure/storage"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

// A short classroom exchange, enough to exercise recipients, links and raised hands.
var conversation = []chat.Record{
	{Sender: "sensei", Body: "おはようございます。今日の資料です https://example.com/slides"},
	{Sender: "hanako", Body: "おはようございます！"},
	{Sender: "taro", Recipient: "sensei", Body: "taroさんが手を挙げました。"},
	{Sender: "sensei", Recipient: "taro", Body: "どうぞ"},
	{Body: "質問があります"},
}

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	collection := flag.String("collection", chat.DefaultCollection, "Collection to fill")
	flag.Parse()

	if err := seed(*dbPath, *collection); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d messages written to %s in %s\n", len(conversation), *collection, *dbPath)
}

func seed(path, collection string) error {
	db, err := badger.Open(badger.DefaultOptions(path).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer db.Close()

	log := logs.GetLoggerFromString("WARN")
	remote := storage.NewBadgerLog(log, storage.NewMessageRepository(db, log, nil), 1)
	defer remote.Close()

	ctx := context.Background()
	for _, record := range conversation {
		if _, err := remote.Append(ctx, collection, record); err != nil {
			return err
		}
	}
	return nil
}
