package services

import (
	"chat-widget/domain/chat"
	"chat-widget/errors"
	"chat-widget/mocks"
	"context"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOutbox_Send_Validation(t *testing.T) {
	tests := []struct {
		description string
		opts        OutboxOptions
		sender      string
		body        string
		wantErr     error
	}{
		{"Should reject an empty sender", OutboxOptions{RequireSender: true}, "", "hello", errors.ErrEmptySender},
		{"Should check the sender before the body", OutboxOptions{RequireSender: true, EmptyBody: RejectEmptyBody}, "", "", errors.ErrEmptySender},
		{"Should reject an empty body", OutboxOptions{RequireSender: true, EmptyBody: RejectEmptyBody}, "alice", "", errors.ErrEmptyBody},
		{"Should ignore an empty body", OutboxOptions{RequireSender: true, EmptyBody: IgnoreEmptyBody}, "alice", "", nil},
		{"Should ignore an empty body by default", OutboxOptions{}, "", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			remote := mocks.NewMockRemoteLog(ctrl)
			// Given no append must ever reach the log
			remote.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			outbox := NewOutbox(logs.GetLoggerFromLevel(slog.LevelDebug), remote, tt.opts)

			id, err := outbox.Send(context.Background(), tt.sender, "", tt.body)

			req.Empty(id)
			if tt.wantErr == nil {
				req.NoError(err)
				return
			}
			req.ErrorIs(err, tt.wantErr)
			req.True(errors.IsValidation(err))
		})
	}
}

func TestOutbox_Send_AnonymousWhenNameIsOptional(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteLog(ctrl)
	outbox := NewOutbox(logs.GetLoggerFromLevel(slog.LevelDebug), remote, OutboxOptions{Collection: "room"})

	// Given a variant that lets users post without a name
	remote.EXPECT().
		Append(gomock.Any(), "room", chat.Record{Body: "hello"}).
		Return("anon-1", nil).
		Times(1)

	// When sending without a sender
	id, err := outbox.Send(context.Background(), "", "", "hello")

	// Then the message is appended anonymously
	req.NoError(err)
	req.Equal("anon-1", id)
}

func TestOutbox_Send_Appends(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteLog(ctrl)
	outbox := NewOutbox(logs.GetLoggerFromLevel(slog.LevelDebug), remote, OutboxOptions{Collection: "room", RequireSender: true})

	remote.EXPECT().
		Append(gomock.Any(), "room", chat.Record{Sender: "alice", Recipient: "bob", Body: "hello"}).
		Return("id-1", nil).
		Times(1)

	id, err := outbox.Send(context.Background(), "alice", "bob", "hello")

	req.NoError(err)
	req.Equal("id-1", id)
}

func TestOutbox_Send_AppendFailure(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteLog(ctrl)
	outbox := NewOutbox(logs.GetLoggerFromLevel(slog.LevelDebug), remote, OutboxOptions{Collection: "room"})
	boom := stderrors.New("unavailable")

	remote.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)

	_, err := outbox.Send(context.Background(), "alice", "", "hello")

	var appendErr errors.AppendError
	req.True(stderrors.As(err, &appendErr))
	req.ErrorIs(err, boom)
	req.False(errors.IsValidation(err))
}

func TestOutbox_RaiseHand(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteLog(ctrl)
	outbox := NewOutbox(logs.GetLoggerFromLevel(slog.LevelDebug), remote,
		OutboxOptions{Collection: "room", RequireSender: true, RaiseHand: true})

	remote.EXPECT().
		Append(gomock.Any(), "room", chat.Record{Sender: "alice", Body: "aliceさんが手を挙げました。"}).
		Return("id-2", nil)

	id, err := outbox.RaiseHand(context.Background(), "alice", "")
	req.NoError(err)
	req.Equal("id-2", id)

	// An empty sender fails like Send does
	_, err = outbox.RaiseHand(context.Background(), "", "")
	req.ErrorIs(err, errors.ErrEmptySender)

	disabled := NewOutbox(logs.GetLoggerFromLevel(slog.LevelDebug), remote, OutboxOptions{})
	_, err = disabled.RaiseHand(context.Background(), "alice", "")
	req.ErrorIs(err, errors.ErrFeatureDisabled)
}

func TestParseEmptyBodyPolicy(t *testing.T) {
	req := require.New(t)

	p, err := ParseEmptyBodyPolicy("")
	req.NoError(err)
	req.Equal(IgnoreEmptyBody, p)

	p, err = ParseEmptyBodyPolicy("reject")
	req.NoError(err)
	req.Equal(RejectEmptyBody, p)

	_, err = ParseEmptyBodyPolicy("shout")
	req.ErrorIs(err, errors.ErrInvalidBodyPolicy)
}
