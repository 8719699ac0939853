package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newPrivateChat(sender, receiver string, at time.Time) domain.PrivateChat {
	return domain.PrivateChat{
		ID:            uuid.NewString(),
		SenderEmail:   sender,
		ReceiverEmail: receiver,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func TestChatRepository_FindOrCreatePrivateChat_Both_Orders(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())
	now := time.Now().UTC()

	// Given alice opens a chat with bob
	first, created, err := repository.FindOrCreatePrivateChat(newPrivateChat("alice@mail.com", "bob@mail.com", now))
	req.NoError(err)
	req.True(created)

	// When bob opens a chat with alice
	second, created, err := repository.FindOrCreatePrivateChat(newPrivateChat("bob@mail.com", "alice@mail.com", now))
	req.NoError(err)

	// Then the first chat is returned and nothing new is stored
	req.False(created)
	req.Equal(first.ID, second.ID)
	req.Equal("alice@mail.com", second.SenderEmail)

	chats, err := repository.ListPrivateChats("bob@mail.com")
	req.NoError(err)
	req.Len(chats, 1)
}

func TestChatRepository_ListPrivateChats_Most_Recent_First(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())
	now := time.Now().UTC()

	old, _, err := repository.FindOrCreatePrivateChat(newPrivateChat("alice@mail.com", "bob@mail.com", now))
	req.NoError(err)
	recent, _, err := repository.FindOrCreatePrivateChat(newPrivateChat("clara@mail.com", "alice@mail.com", now.Add(time.Minute)))
	req.NoError(err)

	chats, err := repository.ListPrivateChats("alice@mail.com")
	req.NoError(err)
	req.Len(chats, 2)
	req.Equal(recent.ID, chats[0].ID)
	req.Equal(old.ID, chats[1].ID)

	// Unrelated users see nothing
	none, err := repository.ListPrivateChats("dan@mail.com")
	req.NoError(err)
	req.Empty(none)
}

func TestChatRepository_Separator_In_Email_Stays_Isolated(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())
	now := time.Now().UTC()

	// Given identities that only differ by a ':' suffix
	chat, _, err := repository.FindOrCreatePrivateChat(newPrivateChat("alice@mail.com:x", "bob@mail.com", now))
	req.NoError(err)
	req.NoError(repository.CreateGroupChat(domain.GroupChat{ID: "g-1", GroupName: "G", AdminEmail: "alice@mail.com:x", CreatedAt: now, UpdatedAt: now},
		[]domain.GroupParticipant{{ChatID: "g-1", UserEmail: "alice@mail.com:x", Role: domain.RoleAdmin, CreatedAt: now}}))

	// Then the shorter identity sees none of their chats
	private, err := repository.ListPrivateChats("alice@mail.com")
	req.NoError(err)
	req.Empty(private)
	groups, err := repository.ListGroupChats("alice@mail.com")
	req.NoError(err)
	req.Empty(groups)

	// And a pair split at a different ':' is a different pair
	other, created, err := repository.FindOrCreatePrivateChat(newPrivateChat("alice@mail.com", "x:bob@mail.com", now))
	req.NoError(err)
	req.True(created)
	req.NotEqual(chat.ID, other.ID)

	mine, err := repository.ListPrivateChats("alice@mail.com:x")
	req.NoError(err)
	req.Len(mine, 1)
	req.Equal(chat.ID, mine[0].ID)
}

func TestChatRepository_GetPrivateChat_Unknown(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())

	_, err := repository.GetPrivateChat("missing")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestChatRepository_CreateGroupChat(t *testing.T) {
	req := require.New(t)
	repository := NewChatRepository(openTestDB(t), slog.Default())
	now := time.Now().UTC()
	chat := domain.GroupChat{ID: uuid.NewString(), GroupName: "team", AdminEmail: "alice@mail.com", CreatedAt: now, UpdatedAt: now}
	participants := []domain.GroupParticipant{
		{ChatID: chat.ID, UserEmail: "bob@mail.com", Role: domain.RoleMember, CreatedAt: now},
		{ChatID: chat.ID, UserEmail: "clara@mail.com", Role: domain.RoleMember, CreatedAt: now},
		{ChatID: chat.ID, UserEmail: "alice@mail.com", Role: domain.RoleAdmin, CreatedAt: now},
	}

	// When the group is created
	req.NoError(repository.CreateGroupChat(chat, participants))

	// Then every participant row is readable
	stored, err := repository.ListGroupParticipants(chat.ID)
	req.NoError(err)
	req.Len(stored, 3)

	fetched, err := repository.GetGroupChat(chat.ID)
	req.NoError(err)
	req.Equal("team", fetched.GroupName)

	// And the group appears in each member listing
	for _, email := range []string{"alice@mail.com", "bob@mail.com", "clara@mail.com"} {
		groups, err := repository.ListGroupChats(email)
		req.NoError(err)
		req.Len(groups, 1)
		req.Equal(chat.ID, groups[0].ID)
	}

	// And creating it twice is a conflict
	req.ErrorIs(repository.CreateGroupChat(chat, participants), errors.ErrConflict)

	_, err = repository.GetGroupChat("missing")
	req.ErrorIs(err, errors.ErrNotFound)
}
