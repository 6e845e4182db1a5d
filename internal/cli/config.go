package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	ClientID   string
	ClientFile string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("CHIRPY_SERVER", "http://localhost:8080"),
		ClientID:   os.Getenv("CHIRPY_CLIENT_ID"),
		ClientFile: getEnvOrDefault("CHIRPY_CLIENT_FILE", defaultClientFile()),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadClientID loads the client id from file if not already set
func (c *Config) LoadClientID() error {
	if c.ClientID != "" {
		return nil
	}

	data, err := os.ReadFile(c.ClientFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Issued on first use
		}
		return err
	}

	c.ClientID = strings.TrimSpace(string(data))
	return nil
}

// SaveClientID saves the client id to the client file
func (c *Config) SaveClientID(id string) error {
	c.ClientID = id

	dir := filepath.Dir(c.ClientFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.ClientFile, []byte(id), 0600)
}

func defaultClientFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chirpy/client"
	}
	return filepath.Join(home, ".chirpy", "client")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
