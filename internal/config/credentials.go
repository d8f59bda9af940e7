package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"
)

const (
	// TokenEnv is read from .env and from the process environment.
	TokenEnv = "TODOIST_API_TOKEN"

	keyringUser = "api-token"
)

// DotEnvFile is the developer override read from the working directory.
var DotEnvFile = ".env"

// TokenSource says where a token was found.
type TokenSource string

const (
	SourceNone    TokenSource = ""
	SourceDotEnv  TokenSource = ".env file"
	SourceConfig  TokenSource = "config file"
	SourceEnv     TokenSource = "environment"
	SourceKeyring TokenSource = "system keyring"
)

// ResolveToken returns the API token and where it came from. Sources are
// tried in order: .env in the working directory, the config file, the
// TODOIST_API_TOKEN environment variable, then the system keyring.
// An empty token means the client runs uninitialized.
func (c *Config) ResolveToken() (string, TokenSource) {
	if env, err := godotenv.Read(DotEnvFile); err == nil {
		if token := strings.TrimSpace(env[TokenEnv]); token != "" {
			return token, SourceDotEnv
		}
	}

	if token := strings.TrimSpace(c.APIToken); token != "" {
		return token, SourceConfig
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		return token, SourceEnv
	}

	if token, err := KeyringToken(); err == nil && token != "" {
		return token, SourceKeyring
	}

	return "", SourceNone
}

// KeyringToken reads the token stored in the system keyring.
func KeyringToken() (string, error) {
	token, err := keyring.Get(AppName, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read keyring: %w", err)
	}
	return strings.TrimSpace(token), nil
}

// SaveKeyringToken stores the token in the system keyring.
func SaveKeyringToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if err := keyring.Set(AppName, keyringUser, token); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

// ClearKeyringToken removes the stored token. A missing entry is not an error.
func ClearKeyringToken() error {
	if err := keyring.Delete(AppName, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear keyring: %w", err)
	}
	return nil
}
