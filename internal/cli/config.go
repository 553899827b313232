package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to the CLI's environment variables, e.g. POKERCTL_SERVER
const EnvPrefix = "POKERCTL"

// Config holds CLI configuration
type Config struct {
	ServerURL string `envconfig:"SERVER" default:"http://localhost:8080"`
	Token     string `envconfig:"TOKEN"`
	TokenFile string `envconfig:"TOKEN_FILE"`
	Output    string `envconfig:"OUTPUT" default:"text"`
	Verbose   bool   `ignored:"true"`
}

// DefaultConfig reads POKERCTL_* variables over the built-in defaults.
// Flags bound to the returned Config override both.
func DefaultConfig() *Config {
	c := &Config{}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		// Only string fields are read, so this is unreachable in practice
		c.ServerURL = "http://localhost:8080"
		c.Output = "text"
	}
	if c.TokenFile == "" {
		c.TokenFile = defaultTokenFile()
	}
	return c
}

// LoadToken reads the saved token unless one was given explicitly
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken stores the token readable by the current user only
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token+"\n"), 0o600)
}

// ClearToken forgets the token and removes the token file
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pokerctl", "token")
	}
	return filepath.Join(home, ".pokerctl", "token")
}
