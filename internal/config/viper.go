// Package config holds viper helpers shared by the CLI configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/agentstation/playermap/pkg/errors"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// GetDuration reads a duration key, falling back to def when unset. An
// unparseable or negative value is a configuration error.
func GetDuration(key string, def time.Duration) (time.Duration, error) {
	raw := GetString(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.NewConfigError("config", fmt.Sprintf("%s must be a duration such as 30s or 24h", key), err)
	}
	if d < 0 {
		return 0, errors.NewConfigError("config", key+" cannot be negative", nil)
	}
	return d, nil
}

// CrossRefToken returns the cross-reference credential and its scheme.
// CROSSREF_TOKEN takes a bearer token; CROSSREF_AUTH may name another
// scheme such as "header:X-Api-Key" or "query:token".
func CrossRefToken() (scheme, token string) {
	token = GetString("crossref_token")
	if token == "" {
		token = os.Getenv("CROSSREF_TOKEN")
	}
	scheme = GetString("crossref_auth")
	if scheme == "" {
		scheme = os.Getenv("CROSSREF_AUTH")
	}
	if scheme == "" {
		scheme = "bearer"
	}
	return scheme, token
}
