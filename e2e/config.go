package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_API_ADDR points at a running service, e.g. http://localhost:8080.
	// Tests are skipped when it is empty.
	APIAddr string `envconfig:"E2E_API_ADDR"`
	// E2E_DEBUG_JSON allows dumping full HTTP request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_OPERATOR_PASSWORD is the plain password matching the service's
	// OPERATOR_PASSWORD_HASH, used to obtain a bearer token.
	OperatorPassword string `envconfig:"E2E_OPERATOR_PASSWORD"`
	// E2E_INPUT_DIR is a directory visible to the service where test input
	// files are written.
	InputDir string `envconfig:"E2E_INPUT_DIR" default:"/tmp/user-flag-e2e"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
