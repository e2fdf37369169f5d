package sink

import (
	"chat-widget/domain/chat"
	"chat-widget/projection"
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTable prints a view model as a borderless table, newest first.
func RenderTable(out io.Writer, items []projection.Item, format func(chat.Message) string) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"", "", "ID", "Time", "From", "Message"})
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

	for _, item := range items {
		unread, star := "", "☆"
		if item.Unread {
			unread = "●"
		}
		if item.Starred {
			star = "★"
		}
		table.Append([]string{
			unread,
			star,
			ShortID(item.Message.ID),
			format(item.Message),
			item.Message.SenderLabel(),
			item.Message.Body,
		})
	}
	table.Render()
}
