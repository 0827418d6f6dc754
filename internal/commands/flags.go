package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/portfolio/backend/internal/client"
)

// ErrNoCredential is returned when neither a token flag nor a saved login exists.
var ErrNoCredential = errors.New("no admin credential: run 'portfolio-admin login' or set PORTFOLIO_ADMIN_TOKEN")

type Flags struct {
	LogLevel      string
	APIURL        string
	Token         string
	FallbackToken string
	TokenFile     string

	// Client is created in the Before hook and available to all commands
	Client *client.Client
}

// Credential returns the explicit token, or the one saved by login.
func (f *Flags) Credential() (string, error) {
	if f.Token != "" {
		return f.Token, nil
	}
	data, err := os.ReadFile(f.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}

// SaveToken writes token to the token file, readable only by the user.
func (f *Flags) SaveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.TokenFile), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	return os.WriteFile(f.TokenFile, []byte(token+"\n"), 0o600)
}

// DefaultTokenPath returns the saved-session path using XDG_CONFIG_HOME.
func DefaultTokenPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "portfolio", "admin-token")
}
