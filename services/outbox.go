package services

import (
	"chat-widget/contract"
	"chat-widget/domain/chat"
	"chat-widget/errors"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

// EmptyBodyPolicy decides what happens when an empty message is submitted.
// Widget variants historically disagree, so it is a configuration choice.
type EmptyBodyPolicy string

const (
	// IgnoreEmptyBody drops the submission silently.
	IgnoreEmptyBody EmptyBodyPolicy = "ignore"
	// RejectEmptyBody fails with a ValidationError and a prompt.
	RejectEmptyBody EmptyBodyPolicy = "reject"
)

func ParseEmptyBodyPolicy(s string) (EmptyBodyPolicy, error) {
	switch p := EmptyBodyPolicy(s); p {
	case IgnoreEmptyBody, RejectEmptyBody:
		return p, nil
	case "":
		return IgnoreEmptyBody, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidBodyPolicy, s)
	}
}

type OutboxOptions struct {
	Collection    string
	RequireSender bool
	EmptyBody     EmptyBodyPolicy
	RaiseHand     bool
}

type draft struct {
	Sender    string `validate:"required"`
	Recipient string
	Body      string `validate:"required"`
}

// Outbox validates and appends outgoing messages. Sends are not serialized:
// a second send may start before the first one returns.
type Outbox struct {
	log       *slog.Logger
	remote    contract.RemoteLog
	opts      OutboxOptions
	validator *validator.Validate
}

func NewOutbox(log *slog.Logger, remote contract.RemoteLog, opts OutboxOptions) *Outbox {
	if opts.EmptyBody == "" {
		opts.EmptyBody = IgnoreEmptyBody
	}
	return &Outbox{log: log, remote: remote, opts: opts, validator: validator.New()}
}

// Send appends a message to the log and returns the id the log assigned.
// An empty id with a nil error means the submission was ignored.
// Nothing is inserted locally: the message shows up once the subscription
// delivers it.
func (o *Outbox) Send(ctx context.Context, sender, recipient, body string) (string, error) {
	d := draft{Sender: sender, Recipient: recipient, Body: body}
	if err := o.validate(d); err != nil {
		if stderrors.Is(err, errors.ErrEmptyBody) && o.opts.EmptyBody == IgnoreEmptyBody {
			o.log.Debug("Empty message ignored")
			return "", nil
		}
		return "", err
	}

	id, err := o.remote.Append(ctx, o.opts.Collection, chat.Record{
		Sender:    d.Sender,
		Recipient: d.Recipient,
		Body:      d.Body,
	})
	if err != nil {
		o.log.Warn("Append failed", "collection", o.opts.Collection, "error", err)
		return "", errors.AppendError{Collection: o.opts.Collection, Err: err}
	}
	o.log.Debug("Message appended", "id", id, "collection", o.opts.Collection)
	return id, nil
}

// RaiseHand sends the fixed raise-hand notification on behalf of sender.
func (o *Outbox) RaiseHand(ctx context.Context, sender, recipient string) (string, error) {
	if !o.opts.RaiseHand {
		return "", errors.ErrFeatureDisabled
	}
	return o.Send(ctx, sender, recipient, chat.RaiseHandBody(sender))
}

// validate checks the sender first, then the body, and maps validator
// failures onto ValidationError.
func (o *Outbox) validate(d draft) error {
	var err error
	if o.opts.RequireSender {
		err = o.validator.Struct(d)
	} else {
		err = o.validator.StructExcept(d, "Sender")
	}
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}
	switch fieldErrors[0].Field() {
	case "Sender":
		return errors.ValidationError{Err: errors.ErrEmptySender, Prompt: chat.EmptySenderPrompt}
	case "Body":
		return errors.ValidationError{Err: errors.ErrEmptyBody, Prompt: chat.EmptyBodyPrompt}
	default:
		return err
	}
}
