package chat

import "strings"

type CommandKind string

const (
	SendCommand      CommandKind = "send"
	TargetCommand    CommandKind = "to"
	RenameCommand    CommandKind = "name"
	StarCommand      CommandKind = "star"
	ReadCommand      CommandKind = "read"
	RaiseHandCommand CommandKind = "hand"
	ListCommand      CommandKind = "list"
	StarredCommand   CommandKind = "starred"
	WhoCommand       CommandKind = "who"
	MuteCommand      CommandKind = "mute"
	ExportCommand    CommandKind = "export"
	QuitCommand      CommandKind = "quit"
	HelpCommand      CommandKind = "help"
)

var commandKinds = map[string]CommandKind{
	"to":      TargetCommand,
	"name":    RenameCommand,
	"star":    StarCommand,
	"read":    ReadCommand,
	"hand":    RaiseHandCommand,
	"list":    ListCommand,
	"starred": StarredCommand,
	"who":     WhoCommand,
	"mute":    MuteCommand,
	"export":  ExportCommand,
	"quit":    QuitCommand,
}

// Command is one line typed at the prompt.
type Command struct {
	Kind CommandKind
	Arg  string
}

// ParseCommand reads a prompt line. Lines not starting with a slash are sent as is,
// unknown slash commands ask for help.
func ParseCommand(line string) Command {
	if !strings.HasPrefix(line, "/") {
		return Command{Kind: SendCommand, Arg: line}
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	kind, ok := commandKinds[name]
	if !ok {
		return Command{Kind: HelpCommand, Arg: name}
	}
	return Command{Kind: kind, Arg: strings.TrimSpace(arg)}
}
