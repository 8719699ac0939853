package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_URL is the REST and websocket base, the suite is skipped when empty
	ServerURL string `envconfig:"E2E_SERVER_URL"`
	GrpcAddr  string `envconfig:"E2E_GRPC_ADDR" default:"localhost:5001"`
	// Both accounts must already be registered on the target server
	AliceEmail string `envconfig:"E2E_ALICE_EMAIL" default:"alice@e2e.local"`
	BobEmail   string `envconfig:"E2E_BOB_EMAIL" default:"bob@e2e.local"`
	// E2E_DEBUG_JSON allows dumping full request/response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
