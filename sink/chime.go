package sink

import (
	"chat-widget/domain/event"
	"context"
	"io"
)

// ChimeSink rings the terminal bell for every message flagged with a chime.
// Register it after the rendering sinks.
type ChimeSink struct {
	out io.Writer
}

func NewChimeSink(out io.Writer) ChimeSink {
	return ChimeSink{out: out}
}

func (c ChimeSink) Consume(_ context.Context, e event.DomainEvent) error {
	if rendered, ok := e.(event.MessageRendered); ok && rendered.Chime {
		_, err := io.WriteString(c.out, "\a")
		return err
	}
	return nil
}
