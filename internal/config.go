package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	Host     string `env:"HOST,default=0.0.0.0"`
	Port     int    `env:"PORT,default=5000"`
	GrpcPort int    `env:"GRPC_PORT,default=5001"`
	// DebugPort serves the badger inspector when LOG_LEVEL is DEBUG.
	DebugPort int `env:"DEBUG_PORT,default=8081"`

	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BufferSize           int           `env:"BUFFER_SIZE,default=1024"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	MaxMessageSize       int           `env:"MAX_MESSAGE_SIZE,default=65536"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=2s"`
	SubmitTimeout        time.Duration `env:"SUBMIT_TIMEOUT,default=5s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	GCInterval           time.Duration `env:"GC_INTERVAL,default=10m"`
	HeartbeatInterval    time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`

	JwtSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	OtpTTL            time.Duration `env:"OTP_TTL,default=10m"`
	AllowedOrigins    string        `env:"ALLOWED_ORIGINS"`

	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT,default=587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	EmailFrom string `env:"EMAIL_FROM"`

	CensoredWordsFile string `env:"CENSORED_WORDS_FILE"`
	CharReplacement   string `env:"CHARACTER_REPLACEMENT,default=*"`
}

// Origins splits ALLOWED_ORIGINS on commas. Empty means any origin.
func (c Config) Origins() []string {
	origins := lo.Map(strings.Split(c.AllowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	})
	return lo.Compact(origins)
}

// MailEnabled reports whether an SMTP relay is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
