package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

type wordFilter struct{}

func (wordFilter) Mask(text string) (string, int) {
	if strings.Contains(text, "darn") {
		return strings.ReplaceAll(text, "darn", "****"), 1
	}
	return text, 0
}

func TestLedger_AppendPrivateMessage_Chronological(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	chat, _, err := f.directory.GetOrCreatePrivateChat("a@mail.com", "b@mail.com")
	req.NoError(err)

	sent := make([]domain.Message, 0, 3)
	for _, text := range []string{"first", "second", "third"} {
		message, counterpart, err := f.ledger.AppendPrivateMessage(Draft{ChatID: chat.ID, SenderEmail: "a@mail.com", MessageText: text})
		req.NoError(err)
		req.Equal("b@mail.com", counterpart)
		req.Equal(domain.StatusSent, message.Status)
		req.Equal(domain.TextMessage, message.MessageType)
		sent = append(sent, message)
	}
	req.Less(sent[0].ID, sent[1].ID)
	req.Less(sent[1].ID, sent[2].ID)

	history, err := f.ledger.FetchAndMarkRead(chat.ID, "a@mail.com")
	req.NoError(err)
	req.Len(history, 3)
	for i, message := range history {
		req.Equal(sent[i].ID, message.ID)
	}

	// Appending bumps the chat recency
	stored, err := f.chats.GetPrivateChat(chat.ID)
	req.NoError(err)
	req.Equal(sent[2].CreatedAt.UnixNano(), stored.UpdatedAt.UnixNano())
}

func TestLedger_AppendPrivateMessage_Rejects(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	chat, _, err := f.directory.GetOrCreatePrivateChat("a@mail.com", "b@mail.com")
	req.NoError(err)

	tests := []struct {
		name     string
		draft    Draft
		expected error
	}{
		{"Empty text", Draft{ChatID: chat.ID, SenderEmail: "a@mail.com"}, errors.ErrValidation},
		{"Unknown type", Draft{ChatID: chat.ID, SenderEmail: "a@mail.com", MessageText: "x", MessageType: "gif"}, errors.ErrValidation},
		{"Media without url or text", Draft{ChatID: chat.ID, SenderEmail: "a@mail.com", MessageType: domain.ImageMessage}, errors.ErrValidation},
		{"Missing chat id", Draft{SenderEmail: "a@mail.com", MessageText: "x"}, errors.ErrValidation},
		{"Unknown chat", Draft{ChatID: "nope", SenderEmail: "a@mail.com", MessageText: "x"}, errors.ErrNotFound},
		{"Outsider", Draft{ChatID: chat.ID, SenderEmail: "c@mail.com", MessageText: "x"}, errors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.ledger.AppendPrivateMessage(tt.draft)
			require.ErrorIs(t, err, tt.expected)
		})
	}

	// A media message may omit its text
	message, _, err := f.ledger.AppendPrivateMessage(Draft{
		ChatID: chat.ID, SenderEmail: "a@mail.com", MessageType: domain.ImageMessage, MediaURL: "https://cdn/x.png",
	})
	req.NoError(err)
	req.Nil(message.MessageText)
	req.Equal("https://cdn/x.png", *message.MediaURL)
}

func TestLedger_FetchAndMarkRead_Flips_Received_Only(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	chat, _, err := f.directory.GetOrCreatePrivateChat("a@mail.com", "b@mail.com")
	req.NoError(err)

	_, _, err = f.ledger.AppendPrivateMessage(Draft{ChatID: chat.ID, SenderEmail: "a@mail.com", MessageText: "from a"})
	req.NoError(err)
	_, _, err = f.ledger.AppendPrivateMessage(Draft{ChatID: chat.ID, SenderEmail: "b@mail.com", MessageText: "from b"})
	req.NoError(err)

	// The first fetch returns the history as it was
	history, err := f.ledger.FetchAndMarkRead(chat.ID, "b@mail.com")
	req.NoError(err)
	req.Len(history, 2)
	req.Equal(domain.StatusSent, history[0].Status)

	history, err = f.ledger.FetchAndMarkRead(chat.ID, "b@mail.com")
	req.NoError(err)
	req.Equal(domain.StatusRead, history[0].Status)
	// b's own message is untouched
	req.Equal(domain.StatusSent, history[1].Status)

	_, err = f.ledger.FetchAndMarkRead(chat.ID, "c@mail.com")
	req.ErrorIs(err, errors.ErrForbidden)

	empty, _, err := f.directory.GetOrCreatePrivateChat("a@mail.com", "d@mail.com")
	req.NoError(err)
	none, err := f.ledger.FetchAndMarkRead(empty.ID, "a@mail.com")
	req.NoError(err)
	req.NotNil(none)
	req.Empty(none)
}

func TestLedger_Group_Messages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.register(t, "Admin", "admin@mail.com")
	f.register(t, "Member", "m1@mail.com")

	group, _, err := f.directory.CreateGroupChat("admin@mail.com", "Team", []string{"m1@mail.com", "ghost@mail.com"})
	req.NoError(err)

	message, participants, err := f.ledger.AppendGroupMessage(Draft{ChatID: group.ID, SenderEmail: "m1@mail.com", MessageText: "hello team"})
	req.NoError(err)
	req.Equal("Member", message.SenderName)
	req.ElementsMatch([]string{"admin@mail.com", "m1@mail.com", "ghost@mail.com"}, participants)

	// A participant without an account cannot post
	_, _, err = f.ledger.AppendGroupMessage(Draft{ChatID: group.ID, SenderEmail: "ghost@mail.com", MessageText: "boo"})
	req.ErrorIs(err, errors.ErrNotFound)

	_, _, err = f.ledger.AppendGroupMessage(Draft{ChatID: group.ID, SenderEmail: "outsider@mail.com", MessageText: "hi"})
	req.ErrorIs(err, errors.ErrForbidden)

	history, err := f.ledger.FetchGroupMessages(group.ID, "admin@mail.com")
	req.NoError(err)
	req.Len(history, 1)
	req.Equal("Member", history[0].SenderName)

	// Reading a group never changes statuses
	history, err = f.ledger.FetchGroupMessages(group.ID, "admin@mail.com")
	req.NoError(err)
	req.Equal(domain.StatusSent, history[0].Status)

	_, err = f.ledger.FetchGroupMessages(group.ID, "outsider@mail.com")
	req.ErrorIs(err, errors.ErrForbidden)
	_, err = f.ledger.FetchGroupMessages("missing", "admin@mail.com")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestLedger_Options(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, WithTextFilter(wordFilter{}), WithLanguageDetector(func(string) string { return "en" }))
	chat, _, err := f.directory.GetOrCreatePrivateChat("a@mail.com", "b@mail.com")
	req.NoError(err)

	message, _, err := f.ledger.AppendPrivateMessage(Draft{ChatID: chat.ID, SenderEmail: "a@mail.com", MessageText: "oh darn it"})
	req.NoError(err)
	req.Equal("oh **** it", message.Text())
	req.Equal("en", message.Language)
}
