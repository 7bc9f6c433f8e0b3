package config

import (
	"os"

	"github.com/user/forecastbot/pkg/ports"
)

// EnvCredentials reads credentials from the process environment on every
// lookup, so values loaded from .env after startup are seen.
type EnvCredentials struct{}

// Lookup implements ports.CredentialSource.
func (EnvCredentials) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

var _ ports.CredentialSource = EnvCredentials{}
