package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	goerrors "errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/sureshpilli97/ChatCresr-Server/errors"
	"golang.org/x/crypto/argon2"
)

// Argon2 parameters for short lived codes.
const (
	Memory      = 19 * 1024
	Iterations  = 2
	Parallelism = 1
	SaltLength  = 16
	KeyLength   = 32
)

const (
	otpMin         = 1000
	otpMax         = 9999
	maxOTPAttempts = 5
)

// HashCode generates an Argon2id hash of a one-time code.
func HashCode(code string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(code), salt, Iterations, Memory, Parallelism, KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s", argon2.Version, Memory, Iterations, Parallelism, b64Salt, b64Hash), nil
}

// CompareCode checks a plain code against an encoded hash in constant time.
func CompareCode(code, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, goerrors.New("invalid hash format")
	}

	var version, memory, iterations, parallelism int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, err
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, err
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, err
	}

	comparisonHash := argon2.IDKey([]byte(code), salt, uint32(iterations), uint32(memory), uint8(parallelism), uint32(len(decodedHash)))
	return subtle.ConstantTimeCompare(decodedHash, comparisonHash) == 1, nil
}

type pendingCode struct {
	hash      string
	expiresAt time.Time
	attempts  int
}

// OTPStore keeps one pending registration code per email, in memory only.
type OTPStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]pendingCode
}

func NewOTPStore(ttl time.Duration) *OTPStore {
	return &OTPStore{ttl: ttl, now: time.Now, pending: make(map[string]pendingCode)}
}

// Issue draws a new 4-digit code for email, replacing any previous one.
func (s *OTPStore) Issue(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%d", n.Int64()+otpMin)
	hash, err := HashCode(code)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[email] = pendingCode{hash: hash, expiresAt: s.now().Add(s.ttl)}
	return code, nil
}

// Verify consumes the code of email when it matches.
// Expired, unknown or exhausted codes fail with errors.ErrInvalidOTP.
func (s *OTPStore) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.pending[email]
	if !ok {
		return errors.ErrInvalidOTP
	}
	if pending.expiresAt.Before(s.now()) {
		delete(s.pending, email)
		return errors.ErrInvalidOTP
	}

	match, err := CompareCode(strings.TrimSpace(code), pending.hash)
	if err != nil {
		return err
	}
	if !match {
		pending.attempts++
		if pending.attempts >= maxOTPAttempts {
			delete(s.pending, email)
		} else {
			s.pending[email] = pending
		}
		return fmt.Errorf("%w: incorrect code", errors.ErrInvalidOTP)
	}

	delete(s.pending, email)
	return nil
}
