//go:generate go run go.uber.org/mock/mockgen -source=account_service.go -destination=../mocks/mock_account_service.go -package=mocks

package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sureshpilli97/ChatCresr-Server/auth"
	"github.com/sureshpilli97/ChatCresr-Server/domain"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"github.com/sureshpilli97/ChatCresr-Server/repositories"
)

type IAccountService interface {
	SendOTP(req auth.SendOTPRequest) error
	Register(req auth.RegisterRequest) (domain.User, error)
	Login(req auth.LoginRequest) (Session, error)
	GetUser(email string) (domain.User, error)
	UpdateUser(email string, req auth.UpdateRequest) (Session, error)
}

// Session is a user with a freshly signed token.
type Session struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type AccountService struct {
	log            *slog.Logger
	userRepository repositories.IUserRepository
	otp            *auth.OTPStore
	mailer         auth.Mailer
	tokens         *auth.TokenManager
	now            func() time.Time
}

func NewAccountService(log *slog.Logger, repo repositories.IUserRepository, otp *auth.OTPStore,
	mailer auth.Mailer, tokens *auth.TokenManager) IAccountService {
	return &AccountService{log: log, userRepository: repo, otp: otp, mailer: mailer, tokens: tokens, now: utcNow}
}

// SendOTP issues a registration code and mails it.
// A mail failure is reported, the code stays valid for a retry of the mail only.
func (s *AccountService) SendOTP(req auth.SendOTPRequest) error {
	if err := auth.Validate(req); err != nil {
		return err
	}
	code, err := s.otp.Issue(req.Email)
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}
	if err = s.mailer.SendOTP(req.Email, req.Username, code); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	s.log.Debug("OTP sent", "email", req.Email)
	return nil
}

func (s *AccountService) Register(req auth.RegisterRequest) (domain.User, error) {
	// 1. Validate the payload before consuming the code
	if err := auth.Validate(req); err != nil {
		return domain.User{}, err
	}

	// 2. The code is single use
	if err := s.otp.Verify(req.Email, req.OTP); err != nil {
		return domain.User{}, err
	}

	// 3. Persist, ErrConflict propagates when the email is taken
	now := s.now()
	language := req.PreferredLanguage
	if language == "" {
		language = domain.DefaultLanguage
	}
	user := domain.User{
		ID:                req.ID,
		Username:          strings.TrimSpace(req.Username),
		Email:             req.Email,
		PreferredLanguage: language,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.userRepository.CreateUser(user); err != nil {
		return domain.User{}, err
	}
	s.log.Info("User registered", "email", user.Email)
	return user, nil
}

func (s *AccountService) Login(req auth.LoginRequest) (Session, error) {
	if err := auth.Validate(req); err != nil {
		return Session{}, err
	}
	user, err := s.userRepository.GetUser(req.Email)
	if err != nil {
		return Session{}, err
	}
	return s.session(user)
}

func (s *AccountService) GetUser(email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, fmt.Errorf("%w: email is required", errors.ErrValidation)
	}
	return s.userRepository.GetUser(email)
}

// UpdateUser applies the non empty fields of req to the account of email.
// The returned session carries a token matching the new profile.
func (s *AccountService) UpdateUser(email string, req auth.UpdateRequest) (Session, error) {
	if err := auth.Validate(req); err != nil {
		return Session{}, err
	}
	user, err := s.userRepository.GetUser(email)
	if err != nil {
		return Session{}, err
	}
	if req.Username != "" {
		user.Username = strings.TrimSpace(req.Username)
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.PreferredLanguage != "" {
		user.PreferredLanguage = req.PreferredLanguage
	}
	user.UpdatedAt = s.now()

	if err = s.userRepository.UpdateUser(email, user); err != nil {
		return Session{}, err
	}
	return s.session(user)
}

func (s *AccountService) session(user domain.User) (Session, error) {
	token, err := s.tokens.GenerateToken(auth.Identity{ID: user.ID, Email: user.Email, Username: user.Username})
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token}, nil
}
