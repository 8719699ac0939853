package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

func newMessage(chatID, sender, text string, at time.Time) domain.Message {
	return domain.Message{
		ChatID:      chatID,
		SenderEmail: sender,
		MessageText: lo.ToPtr(text),
		MessageType: domain.TextMessage,
		Status:      domain.StatusSent,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

func TestMessageRepository_Append_Bumps_Chat_And_Keeps_Order(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	chats := NewChatRepository(db, slog.Default())
	messages, err := NewMessageRepository(db, slog.Default())
	req.NoError(err)
	defer messages.Close()

	now := time.Now().UTC()
	chat, _, err := chats.FindOrCreatePrivateChat(newPrivateChat("alice@mail.com", "bob@mail.com", now))
	req.NoError(err)

	// Given three messages, the last one sharing its timestamp with the second
	contents := []string{"hi", "how are you", "still there?"}
	times := []time.Time{now.Add(time.Second), now.Add(2 * time.Second), now.Add(2 * time.Second)}
	var ids []int64
	for i, content := range contents {
		stored, err := messages.AppendMessage(domain.PrivateKind, newMessage(chat.ID, "alice@mail.com", content, times[i]))
		req.NoError(err)
		ids = append(ids, stored.ID)
	}

	// Then ids are increasing
	req.True(ids[0] < ids[1] && ids[1] < ids[2])

	// And the history is chronological
	history, err := messages.GetMessages(domain.PrivateKind, chat.ID)
	req.NoError(err)
	req.Equal(contents, lo.Map(history, func(m domain.Message, _ int) string { return m.Text() }))

	// And the chat recency is the last message time
	fetched, err := chats.GetPrivateChat(chat.ID)
	req.NoError(err)
	req.True(fetched.UpdatedAt.Equal(times[2]))
}

func TestMessageRepository_Append_Unknown_Chat(t *testing.T) {
	req := require.New(t)
	messages, err := NewMessageRepository(openTestDB(t), slog.Default())
	req.NoError(err)
	defer messages.Close()

	_, err = messages.AppendMessage(domain.GroupKind, newMessage("missing", "alice@mail.com", "hi", time.Now().UTC()))
	req.ErrorIs(err, errors.ErrNotFound)

	history, err := messages.GetMessages(domain.GroupKind, "missing")
	req.NoError(err)
	req.Empty(history)
}

func TestMessageRepository_MarkRead_Only_Other_Sender(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	chats := NewChatRepository(db, slog.Default())
	messages, err := NewMessageRepository(db, slog.Default())
	req.NoError(err)
	defer messages.Close()

	now := time.Now().UTC()
	chat, _, err := chats.FindOrCreatePrivateChat(newPrivateChat("alice@mail.com", "bob@mail.com", now))
	req.NoError(err)
	_, err = messages.AppendMessage(domain.PrivateKind, newMessage(chat.ID, "alice@mail.com", "hi bob", now))
	req.NoError(err)
	_, err = messages.AppendMessage(domain.PrivateKind, newMessage(chat.ID, "alice@mail.com", "are you there", now.Add(time.Second)))
	req.NoError(err)
	_, err = messages.AppendMessage(domain.PrivateKind, newMessage(chat.ID, "bob@mail.com", "yes", now.Add(2*time.Second)))
	req.NoError(err)

	// Given bob has two unread messages and alice one
	counts, err := messages.CountUnread(domain.PrivateKind, []string{chat.ID, "other"}, "bob@mail.com")
	req.NoError(err)
	req.Equal(map[string]int{chat.ID: 2, "other": 0}, counts)

	// When bob opens the chat
	history, flipped, err := messages.GetMessagesAndMarkRead(chat.ID, "bob@mail.com", now.Add(time.Minute))
	req.NoError(err)

	// Then bob sees the snapshot taken before the transition
	req.Len(history, 3)
	req.Equal(2, flipped)
	req.Equal(domain.StatusSent, history[0].Status)

	// And alice messages are now read, bob own message is untouched
	after, err := messages.GetMessages(domain.PrivateKind, chat.ID)
	req.NoError(err)
	req.Equal(domain.StatusRead, after[0].Status)
	req.Equal(domain.StatusRead, after[1].Status)
	req.Equal(domain.StatusSent, after[2].Status)

	counts, err = messages.CountUnread(domain.PrivateKind, []string{chat.ID}, "bob@mail.com")
	req.NoError(err)
	req.Equal(0, counts[chat.ID])

	counts, err = messages.CountUnread(domain.PrivateKind, []string{chat.ID}, "alice@mail.com")
	req.NoError(err)
	req.Equal(1, counts[chat.ID])
}

func TestMessageRepository_Ids_Survive_Reopen(t *testing.T) {
	req := require.New(t)
	db, err := openOnDisk(t.TempDir())
	req.NoError(err)

	now := time.Now().UTC()
	chats := NewChatRepository(db, slog.Default())
	chat, _, err := chats.FindOrCreatePrivateChat(newPrivateChat("alice@mail.com", "bob@mail.com", now))
	req.NoError(err)

	messages, err := NewMessageRepository(db, slog.Default())
	req.NoError(err)
	first, err := messages.AppendMessage(domain.PrivateKind, newMessage(chat.ID, "alice@mail.com", "one", now))
	req.NoError(err)
	req.NoError(messages.Close())
	dir := db.Opts().Dir
	req.NoError(db.Close())

	// When the store is reopened
	db, err = openOnDisk(dir)
	req.NoError(err)
	defer db.Close()
	messages, err = NewMessageRepository(db, slog.Default())
	req.NoError(err)
	defer messages.Close()

	// Then new ids keep increasing
	second, err := messages.AppendMessage(domain.PrivateKind, newMessage(chat.ID, "alice@mail.com", "two", now.Add(time.Second)))
	req.NoError(err)
	req.Greater(second.ID, first.ID)
}
