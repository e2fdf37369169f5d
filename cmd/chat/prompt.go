package main

import (
	"bufio"
	"chat-widget/domain/chat"
	"chat-widget/errors"
	"chat-widget/projection"
	"chat-widget/sink"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// gestures is what the prompt needs from the engine.
type gestures interface {
	Send(ctx context.Context, recipient, body string) (string, error)
	RaiseHand(ctx context.Context, recipient string) (string, error)
	ToggleStar(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	SetMuted(ctx context.Context, muted bool) error
	Muted(ctx context.Context) (bool, error)
	SetLocalUser(ctx context.Context, user string) error
	View(ctx context.Context) (projection.ViewModel, error)
	Download(ctx context.Context, dir string) (string, error)
}

const help = `commands:
  <text>          send a message to the current recipient
  /to [name]      target a recipient, no name for everyone
  /name <name>    change your name
  /star <id>      star or unstar a message (id prefix)
  /read           mark every message as read
  /hand           raise your hand
  /list           list messages
  /starred        list starred messages
  /who            list known recipients
  /mute           toggle the chime
  /export         download the conversation
  /quit           leave`

type prompt struct {
	log       *slog.Logger
	engine    gestures
	exportDir string
	in        io.Reader
	out       io.Writer
	recipient string
}

func newPrompt(log *slog.Logger, engine gestures, exportDir string, in io.Reader, out io.Writer) *prompt {
	return &prompt{log: log, engine: engine, exportDir: exportDir, in: in, out: out}
}

// Run reads one gesture per line until EOF or /quit.
func (p *prompt) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		quit, err := p.handle(ctx, scanner.Text())
		if err != nil {
			p.report(err)
		}
		if quit || ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}

func (p *prompt) handle(ctx context.Context, line string) (bool, error) {
	cmd := chat.ParseCommand(line)
	switch cmd.Kind {
	case chat.SendCommand:
		_, err := p.engine.Send(ctx, p.recipient, cmd.Arg)
		return false, err
	case chat.TargetCommand:
		p.recipient = cmd.Arg
		return false, nil
	case chat.RenameCommand:
		return false, p.engine.SetLocalUser(ctx, cmd.Arg)
	case chat.StarCommand:
		id, err := p.resolve(ctx, cmd.Arg)
		if err != nil {
			return false, err
		}
		return false, p.engine.ToggleStar(ctx, id)
	case chat.ReadCommand:
		return false, p.engine.MarkAllRead(ctx)
	case chat.RaiseHandCommand:
		_, err := p.engine.RaiseHand(ctx, p.recipient)
		return false, err
	case chat.ListCommand, chat.StarredCommand:
		view, err := p.engine.View(ctx)
		if err != nil {
			return false, err
		}
		items := view.Messages
		if cmd.Kind == chat.StarredCommand {
			items = view.Starred
		}
		sink.RenderTable(p.out, items, func(m chat.Message) string {
			if m.CreatedAt == nil {
				return ""
			}
			return chat.FormatTime(m.CreatedAt.In(time.Local))
		})
		return false, nil
	case chat.WhoCommand:
		view, err := p.engine.View(ctx)
		if err != nil {
			return false, err
		}
		_, err = fmt.Fprintln(p.out, strings.Join(view.Recipients, "\n"))
		return false, err
	case chat.MuteCommand:
		muted, err := p.engine.Muted(ctx)
		if err != nil {
			return false, err
		}
		return false, p.engine.SetMuted(ctx, !muted)
	case chat.ExportCommand:
		_, err := p.engine.Download(ctx, p.exportDir)
		return false, err
	case chat.QuitCommand:
		return true, nil
	default:
		_, err := fmt.Fprintln(p.out, help)
		return false, err
	}
}

// resolve turns an id prefix, as displayed, into a full message id.
func (p *prompt) resolve(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", errors.ErrUnknownMessage
	}
	view, err := p.engine.View(ctx)
	if err != nil {
		return "", err
	}
	for _, item := range view.Messages {
		if strings.HasPrefix(item.Message.ID, prefix) {
			return item.Message.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errors.ErrUnknownMessage, prefix)
}

// report prints errors the sinks have not already shown.
func (p *prompt) report(err error) {
	var appendErr errors.AppendError
	if errors.IsValidation(err) || stderrors.As(err, &appendErr) {
		p.log.Debug("Send failed", "error", err)
		return
	}
	_, _ = fmt.Fprintln(p.out, err.Error())
}
