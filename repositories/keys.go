package repositories

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

// Key layout. Every record is a JSON value under one of these prefixes.
// Emails inside composite keys go through keyPart so a ':' in one identity
// cannot widen the prefix scan of another.
//
//	user:{email}                                    -> domain.User
//	private:{chatID}                                -> domain.PrivateChat
//	private_pair:{lowEmail}:{highEmail}             -> chatID
//	user_private:{email}:{chatID}                   -> empty
//	group:{chatID}                                  -> domain.GroupChat
//	group_member:{chatID}:{email}                   -> domain.GroupParticipant
//	user_group:{email}:{chatID}                     -> empty
//	msg:{kind}:{chatID}:{createdAt 19d}:{id 19d}    -> domain.Message
const (
	userPrefix        = "user:"
	privatePrefix     = "private:"
	privatePairPrefix = "private_pair:"
	userPrivatePrefix = "user_private:"
	groupPrefix       = "group:"
	groupMemberPrefix = "group_member:"
	userGroupPrefix   = "user_group:"
	messagePrefix     = "msg:"
	messageSequence   = "seq:message"
)

var keyPartEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// keyPart escapes the separator and the escape character itself.
func keyPart(s string) string { return keyPartEscaper.Replace(s) }

func userKey(email string) []byte { return []byte(userPrefix + email) }

func privateKey(chatID string) []byte { return []byte(privatePrefix + chatID) }

// privatePairKey orders the two emails so both directions resolve to one key.
func privatePairKey(a, b string) []byte {
	if b < a {
		a, b = b, a
	}
	return []byte(privatePairPrefix + keyPart(a) + ":" + keyPart(b))
}

func userPrivateKey(email, chatID string) []byte {
	return append(userPrivateScan(email), chatID...)
}

func userPrivateScan(email string) []byte {
	return []byte(userPrivatePrefix + keyPart(email) + ":")
}

func groupKey(chatID string) []byte { return []byte(groupPrefix + chatID) }

func groupMemberKey(chatID, email string) []byte {
	return append(groupMemberScan(chatID), keyPart(email)...)
}

func groupMemberScan(chatID string) []byte {
	return []byte(groupMemberPrefix + keyPart(chatID) + ":")
}

func userGroupKey(email, chatID string) []byte {
	return append(userGroupScan(email), chatID...)
}

func userGroupScan(email string) []byte {
	return []byte(userGroupPrefix + keyPart(email) + ":")
}

// chatKey is the record whose updatedAt tracks the chat recency.
func chatKey(kind domain.ChatKind, chatID string) []byte {
	if kind == domain.GroupKind {
		return groupKey(chatID)
	}
	return privateKey(chatID)
}

func messageChatPrefix(kind domain.ChatKind, chatID string) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:", messagePrefix, kind, chatID))
}

// messageKey sorts chronologically thanks to the 19-digit zero padding,
// the sequence id breaks ties between messages sharing a nanosecond.
func messageKey(kind domain.ChatKind, m domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%s:%s:%019d:%019d",
		messagePrefix, kind, m.ChatID, m.CreatedAt.UnixNano(), m.ID))
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	return txn.Set(key, bytes)
}

// getJSON decodes the value stored at key.
// A missing key is reported as errors.ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrNotFound
	}
	if err != nil {
		return err
	}
	return decodeItem(item, v)
}

func decodeItem(item *badger.Item, v any) error {
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case goerrors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// suffixes returns the part of every key after prefix, keys only.
func suffixes(txn *badger.Txn, prefix []byte) []string {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	options.Prefix = prefix
	it := txn.NewIterator(options)
	defer it.Close()

	var res []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		res = append(res, string(it.Item().Key()[len(prefix):]))
	}
	return res
}
