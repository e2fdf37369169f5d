package main

import (
	"chat-widget/infrastructure/storage"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	// Empty means every collection found under the log: prefix
	collection := flag.String("collection", "", "Collection to list")
	limit := flag.Int("limit", 0, "Keep only the last N messages per collection (0 = all)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	var limitMessages *int
	if *limit > 0 {
		limitMessages = limit
	}
	repository := storage.NewMessageRepository(db, logs.GetLoggerFromString("WARN"), limitMessages)

	collections := []string{*collection}
	if *collection == "" {
		if collections, err = repository.Collections(); err != nil {
			log.Fatal(err)
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Collection", "Timestamp", "ID", "From", "To", "Body"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, name := range collections {
		messages, err := repository.GetMessages(name)
		if err != nil {
			fmt.Printf("Error reading collection %s: %v\n", name, err)
			continue
		}
		for _, m := range messages {
			displayID := m.ID
			if len(displayID) > 8 {
				displayID = displayID[:8]
			}
			table.Append([]string{
				name,
				m.At.Format("2006-01-02 15:04:05"),
				displayID,
				m.Sender,
				m.Recipient,
				m.Body,
			})
		}
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// A dirty shutdown leaves a log to truncate, which needs a writable open
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
