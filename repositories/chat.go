//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

type IChatRepository interface {
	FindOrCreatePrivateChat(candidate domain.PrivateChat) (domain.PrivateChat, bool, error)
	GetPrivateChat(chatID string) (domain.PrivateChat, error)
	ListPrivateChats(email string) ([]domain.PrivateChat, error)
	CreateGroupChat(chat domain.GroupChat, participants []domain.GroupParticipant) error
	GetGroupChat(chatID string) (domain.GroupChat, error)
	ListGroupParticipants(chatID string) ([]domain.GroupParticipant, error)
	ListGroupChats(email string) ([]domain.GroupChat, error)
}

type ChatRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewChatRepository(db *badger.DB, log *slog.Logger) IChatRepository {
	return &ChatRepository{db: db, log: log}
}

// FindOrCreatePrivateChat returns the chat linking the two emails of candidate,
// whatever direction it was created in. Lookup and creation share one
// transaction so the pair index can never point to two chats.
// The boolean reports whether candidate has been stored.
func (c ChatRepository) FindOrCreatePrivateChat(candidate domain.PrivateChat) (domain.PrivateChat, bool, error) {
	var chat domain.PrivateChat
	created := false
	err := c.db.Update(func(txn *badger.Txn) error {
		pairKey := privatePairKey(candidate.SenderEmail, candidate.ReceiverEmail)
		item, err := txn.Get(pairKey)
		switch {
		case err == nil:
			var chatID []byte
			if chatID, err = item.ValueCopy(nil); err != nil {
				return err
			}
			return getJSON(txn, privateKey(string(chatID)), &chat)
		case !goerrors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		if err = setJSON(txn, privateKey(candidate.ID), candidate); err != nil {
			return err
		}
		if err = txn.Set(pairKey, []byte(candidate.ID)); err != nil {
			return err
		}
		if err = txn.Set(userPrivateKey(candidate.SenderEmail, candidate.ID), nil); err != nil {
			return err
		}
		if err = txn.Set(userPrivateKey(candidate.ReceiverEmail, candidate.ID), nil); err != nil {
			return err
		}
		chat = candidate
		created = true
		return nil
	})
	if err != nil {
		return domain.PrivateChat{}, false, err
	}
	if created {
		c.log.Debug("Private chat created", "chat_id", chat.ID)
	}
	return chat, created, nil
}

func (c ChatRepository) GetPrivateChat(chatID string) (domain.PrivateChat, error) {
	var chat domain.PrivateChat
	err := c.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, privateKey(chatID), &chat)
	})
	if goerrors.Is(err, errors.ErrNotFound) {
		return domain.PrivateChat{}, fmt.Errorf("%w: private chat %s", errors.ErrNotFound, chatID)
	}
	return chat, err
}

// ListPrivateChats returns the chats of email, most recent activity first.
func (c ChatRepository) ListPrivateChats(email string) ([]domain.PrivateChat, error) {
	var chats []domain.PrivateChat
	err := c.db.View(func(txn *badger.Txn) error {
		for _, chatID := range suffixes(txn, userPrivateScan(email)) {
			var chat domain.PrivateChat
			if err := getJSON(txn, privateKey(chatID), &chat); err != nil {
				return fmt.Errorf("private chat %s: %w", chatID, err)
			}
			chats = append(chats, chat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})
	return chats, nil
}

// CreateGroupChat stores the group and all its participant rows atomically.
func (c ChatRepository) CreateGroupChat(chat domain.GroupChat, participants []domain.GroupParticipant) error {
	return c.db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, groupKey(chat.ID))
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: group chat %s", errors.ErrConflict, chat.ID)
		}
		if err = setJSON(txn, groupKey(chat.ID), chat); err != nil {
			return err
		}
		for _, p := range participants {
			if err = setJSON(txn, groupMemberKey(chat.ID, p.UserEmail), p); err != nil {
				return err
			}
			if err = txn.Set(userGroupKey(p.UserEmail, chat.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c ChatRepository) GetGroupChat(chatID string) (domain.GroupChat, error) {
	var chat domain.GroupChat
	err := c.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, groupKey(chatID), &chat)
	})
	if goerrors.Is(err, errors.ErrNotFound) {
		return domain.GroupChat{}, fmt.Errorf("%w: group chat %s", errors.ErrNotFound, chatID)
	}
	return chat, err
}

func (c ChatRepository) ListGroupParticipants(chatID string) ([]domain.GroupParticipant, error) {
	var participants []domain.GroupParticipant
	err := c.db.View(func(txn *badger.Txn) error {
		prefix := groupMemberScan(chatID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var p domain.GroupParticipant
			if err := decodeItem(it.Item(), &p); err != nil {
				return err
			}
			participants = append(participants, p)
		}
		return nil
	})
	return participants, err
}

// ListGroupChats returns the groups email belongs to, most recent activity first.
func (c ChatRepository) ListGroupChats(email string) ([]domain.GroupChat, error) {
	var chats []domain.GroupChat
	err := c.db.View(func(txn *badger.Txn) error {
		for _, chatID := range suffixes(txn, userGroupScan(email)) {
			var chat domain.GroupChat
			if err := getJSON(txn, groupKey(chatID), &chat); err != nil {
				return fmt.Errorf("group chat %s: %w", chatID, err)
			}
			chats = append(chats, chat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})
	return chats, nil
}
