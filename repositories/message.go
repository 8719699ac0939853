//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	goerrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

// sequenceBandwidth is the number of ids leased from badger at once.
const sequenceBandwidth = 100

type IMessageRepository interface {
	AppendMessage(kind domain.ChatKind, message domain.Message) (domain.Message, error)
	GetMessages(kind domain.ChatKind, chatID string) ([]domain.Message, error)
	GetMessagesAndMarkRead(chatID, viewer string, at time.Time) ([]domain.Message, int, error)
	CountUnread(kind domain.ChatKind, chatIDs []string, viewer string) (map[string]int, error)
	Close() error
}

type MessageRepository struct {
	db       *badger.DB
	log      *slog.Logger
	sequence *badger.Sequence
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte(messageSequence), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("message sequence: %w", err)
	}
	return &MessageRepository{db: db, log: log, sequence: seq}, nil
}

// AppendMessage assigns the next id to message and stores it.
// In the same transaction the parent chat updatedAt is set to the message
// creation time, an unknown chat yields errors.ErrNotFound.
func (m *MessageRepository) AppendMessage(kind domain.ChatKind, message domain.Message) (domain.Message, error) {
	next, err := m.sequence.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("next message id: %w", err)
	}
	// badger sequences start at zero
	message.ID = int64(next) + 1

	err = m.db.Update(func(txn *badger.Txn) error {
		if err := touchChat(txn, kind, message.ChatID, message.CreatedAt); err != nil {
			return err
		}
		return setJSON(txn, messageKey(kind, message), message)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

func touchChat(txn *badger.Txn, kind domain.ChatKind, chatID string, at time.Time) error {
	key := chatKey(kind, chatID)
	notFound := fmt.Errorf("%w: %s chat %s", errors.ErrNotFound, kind, chatID)
	switch kind {
	case domain.GroupKind:
		var chat domain.GroupChat
		if err := getJSON(txn, key, &chat); err != nil {
			if goerrors.Is(err, errors.ErrNotFound) {
				return notFound
			}
			return err
		}
		chat.UpdatedAt = at
		return setJSON(txn, key, chat)
	default:
		var chat domain.PrivateChat
		if err := getJSON(txn, key, &chat); err != nil {
			if goerrors.Is(err, errors.ErrNotFound) {
				return notFound
			}
			return err
		}
		chat.UpdatedAt = at
		return setJSON(txn, key, chat)
	}
}

// GetMessages returns the whole history of a chat in chronological order.
func (m *MessageRepository) GetMessages(kind domain.ChatKind, chatID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		messages, err = scanMessages(txn, kind, chatID)
		return err
	})
	return messages, err
}

// GetMessagesAndMarkRead reads a private chat history then flips every sent
// message not authored by viewer to read. Both steps run in one transaction,
// no message appended concurrently can be marked without being returned.
// The returned history is the state before the flip, along with the number of
// messages that changed.
func (m *MessageRepository) GetMessagesAndMarkRead(chatID, viewer string, at time.Time) ([]domain.Message, int, error) {
	var messages []domain.Message
	flipped := 0
	err := m.db.Update(func(txn *badger.Txn) error {
		var err error
		if messages, err = scanMessages(txn, domain.PrivateKind, chatID); err != nil {
			return err
		}
		for _, message := range messages {
			if !message.IsUnreadFor(viewer) {
				continue
			}
			message.Status = domain.StatusRead
			message.UpdatedAt = at
			if err = setJSON(txn, messageKey(domain.PrivateKind, message), message); err != nil {
				return err
			}
			flipped++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if flipped > 0 {
		m.log.Debug("Messages marked as read", "chat_id", chatID, "viewer", viewer, "count", flipped)
	}
	return messages, flipped, nil
}

// CountUnread counts, per chat, the sent messages whose sender is not viewer.
// Every requested chat is present in the result, zero included.
func (m *MessageRepository) CountUnread(kind domain.ChatKind, chatIDs []string, viewer string) (map[string]int, error) {
	counts := lo.SliceToMap(chatIDs, func(id string) (string, int) { return id, 0 })
	err := m.db.View(func(txn *badger.Txn) error {
		for _, chatID := range chatIDs {
			messages, err := scanMessages(txn, kind, chatID)
			if err != nil {
				return err
			}
			counts[chatID] = lo.CountBy(messages, func(message domain.Message) bool {
				return message.IsUnreadFor(viewer)
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// Close releases the leased ids back to badger.
func (m *MessageRepository) Close() error {
	return m.sequence.Release()
}

func scanMessages(txn *badger.Txn, kind domain.ChatKind, chatID string) ([]domain.Message, error) {
	prefix := messageChatPrefix(kind, chatID)
	options := badger.DefaultIteratorOptions
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	var messages []domain.Message
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var message domain.Message
		if err := decodeItem(it.Item(), &message); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		messages = append(messages, message)
	}
	return messages, nil
}
