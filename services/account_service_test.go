package services_test

import (
	goerrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sureshpilli97/ChatCresr-Server/auth"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"github.com/sureshpilli97/ChatCresr-Server/mocks"
	"github.com/sureshpilli97/ChatCresr-Server/services"
	"go.uber.org/mock/gomock"
)

const testSecret = "test-secret"

func newAccountService(t *testing.T) (services.IAccountService, *mocks.MockIUserRepository, *mocks.MockMailer, *auth.TokenManager) {
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockIUserRepository(ctrl)
	mockMailer := mocks.NewMockMailer(ctrl)
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	svc := services.NewAccountService(slog.Default(), mockRepo, auth.NewOTPStore(time.Minute), mockMailer, tokens)
	return svc, mockRepo, mockMailer, tokens
}

func TestAccountService_Register(t *testing.T) {
	t.Run("should register with the mailed code", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, mockMailer, _ := newAccountService(t)

		var code string
		mockMailer.EXPECT().
			SendOTP("ada@example.com", "ada", gomock.Any()).
			DoAndReturn(func(_, _, c string) error {
				code = c
				return nil
			}).
			Times(1)
		req.NoError(svc.SendOTP(auth.SendOTPRequest{Email: "ada@example.com", Username: "ada"}))
		req.Len(code, 4)

		mockRepo.EXPECT().
			CreateUser(gomock.Any()).
			DoAndReturn(func(user domain.User) error {
				req.Equal("ada@example.com", user.Email)
				req.Equal(domain.DefaultLanguage, user.PreferredLanguage)
				return nil
			}).
			Times(1)

		user, err := svc.Register(auth.RegisterRequest{ID: "u-1", Username: " ada ", Email: "ada@example.com", OTP: code})
		req.NoError(err)
		req.Equal("ada", user.Username)
		req.False(user.CreatedAt.IsZero())
	})

	t.Run("should reject a wrong code without touching storage", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, mockMailer, _ := newAccountService(t)

		mockMailer.EXPECT().SendOTP(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		req.NoError(svc.SendOTP(auth.SendOTPRequest{Email: "ada@example.com", Username: "ada"}))

		mockRepo.EXPECT().CreateUser(gomock.Any()).Times(0)

		_, err := svc.Register(auth.RegisterRequest{ID: "u-1", Username: "ada", Email: "ada@example.com", OTP: "0000"})
		req.ErrorIs(err, errors.ErrInvalidOTP)
	})

	t.Run("should propagate a conflict on a taken email", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, mockMailer, _ := newAccountService(t)

		var code string
		mockMailer.EXPECT().SendOTP(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_, _, c string) error { code = c; return nil })
		req.NoError(svc.SendOTP(auth.SendOTPRequest{Email: "ada@example.com", Username: "ada"}))

		mockRepo.EXPECT().CreateUser(gomock.Any()).Return(errors.ErrConflict)

		_, err := svc.Register(auth.RegisterRequest{ID: "u-1", Username: "ada", Email: "ada@example.com", OTP: code})
		req.ErrorIs(err, errors.ErrConflict)
	})

	t.Run("should fail validation before the code is checked", func(t *testing.T) {
		req := require.New(t)
		svc, mockRepo, _, _ := newAccountService(t)
		mockRepo.EXPECT().CreateUser(gomock.Any()).Times(0)

		_, err := svc.Register(auth.RegisterRequest{Username: "ada", Email: "not-an-email", OTP: "1234"})
		req.ErrorIs(err, errors.ErrValidation)
	})
}

func TestAccountService_SendOTP_Mail_Failure(t *testing.T) {
	req := require.New(t)
	svc, _, mockMailer, _ := newAccountService(t)
	mockMailer.EXPECT().SendOTP(gomock.Any(), gomock.Any(), gomock.Any()).Return(goerrors.New("smtp down"))

	err := svc.SendOTP(auth.SendOTPRequest{Email: "ada@example.com", Username: "ada"})
	req.Error(err)
	req.Contains(err.Error(), "smtp down")
}

func TestAccountService_Login(t *testing.T) {
	req := require.New(t)
	svc, mockRepo, _, tokens := newAccountService(t)

	mockRepo.EXPECT().GetUser("ada@example.com").
		Return(domain.User{ID: "u-1", Username: "ada", Email: "ada@example.com"}, nil)
	mockRepo.EXPECT().GetUser("ghost@example.com").Return(domain.User{}, errors.ErrNotFound)

	session, err := svc.Login(auth.LoginRequest{Email: "ada@example.com"})
	req.NoError(err)
	identity, err := tokens.ValidateToken(session.Token)
	req.NoError(err)
	req.Equal(auth.Identity{ID: "u-1", Email: "ada@example.com", Username: "ada"}, identity)

	_, err = svc.Login(auth.LoginRequest{Email: "ghost@example.com"})
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestAccountService_UpdateUser(t *testing.T) {
	req := require.New(t)
	svc, mockRepo, _, tokens := newAccountService(t)

	mockRepo.EXPECT().GetUser("ada@example.com").
		Return(domain.User{ID: "u-1", Username: "ada", Email: "ada@example.com", PreferredLanguage: "en"}, nil)
	mockRepo.EXPECT().UpdateUser("ada@example.com", gomock.Any()).
		DoAndReturn(func(_ string, user domain.User) error {
			req.Equal("lovelace@example.com", user.Email)
			req.Equal("ada", user.Username)
			req.Equal("fr", user.PreferredLanguage)
			return nil
		})

	session, err := svc.UpdateUser("ada@example.com", auth.UpdateRequest{Email: "lovelace@example.com", PreferredLanguage: "fr"})
	req.NoError(err)

	identity, err := tokens.ValidateToken(session.Token)
	req.NoError(err)
	req.Equal("lovelace@example.com", identity.Email)
}

func TestAccountService_GetUser_Requires_Email(t *testing.T) {
	svc, _, _, _ := newAccountService(t)
	_, err := svc.GetUser("")
	require.ErrorIs(t, err, errors.ErrValidation)
}
