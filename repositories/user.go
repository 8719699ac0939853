//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	goerrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

type IUserRepository interface {
	CreateUser(user domain.User) error
	GetUser(email string) (domain.User, error)
	UpdateUser(currentEmail string, user domain.User) error
	SetPresence(email string, online bool, at time.Time) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// CreateUser persists a new account keyed by email.
// It fails with errors.ErrConflict when the email is already registered.
func (u UserRepository) CreateUser(user domain.User) error {
	return u.db.Update(func(txn *badger.Txn) error {
		key := userKey(user.Email)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: user %s", errors.ErrConflict, user.Email)
		}
		return setJSON(txn, key, user)
	})
}

func (u UserRepository) GetUser(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userKey(email), &user)
	})
	if goerrors.Is(err, errors.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: user %s", errors.ErrNotFound, email)
	}
	return user, err
}

// UpdateUser rewrites the account stored under currentEmail.
// When the email changes the record moves to the new key in the same
// transaction, colliding with an existing account is a conflict.
func (u UserRepository) UpdateUser(currentEmail string, user domain.User) error {
	return u.db.Update(func(txn *badger.Txn) error {
		var stored domain.User
		if err := getJSON(txn, userKey(currentEmail), &stored); err != nil {
			if goerrors.Is(err, errors.ErrNotFound) {
				return fmt.Errorf("%w: user %s", errors.ErrNotFound, currentEmail)
			}
			return err
		}
		if user.Email != currentEmail {
			found, err := exists(txn, userKey(user.Email))
			if err != nil {
				return err
			}
			if found {
				return fmt.Errorf("%w: user %s", errors.ErrConflict, user.Email)
			}
			if err = txn.Delete(userKey(currentEmail)); err != nil {
				return err
			}
		}
		return setJSON(txn, userKey(user.Email), user)
	})
}

// SetPresence mirrors the registry state on the durable record.
func (u UserRepository) SetPresence(email string, online bool, at time.Time) error {
	return u.db.Update(func(txn *badger.Txn) error {
		var user domain.User
		if err := getJSON(txn, userKey(email), &user); err != nil {
			if goerrors.Is(err, errors.ErrNotFound) {
				return fmt.Errorf("%w: user %s", errors.ErrNotFound, email)
			}
			return err
		}
		user.IsOnline = online
		user.LastSeen = &at
		return setJSON(txn, userKey(email), user)
	})
}
