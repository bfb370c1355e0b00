package cli

import (
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	UserFile  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("SUITSTREAK_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("SUITSTREAK_TOKEN"),
		TokenFile: getEnvOrDefault("SUITSTREAK_TOKEN_FILE", defaultConfigFile("token")),
		UserFile:  getEnvOrDefault("SUITSTREAK_USER_FILE", defaultConfigFile("user")),
		Output:    "text",
		Verbose:   false,
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = string(data)
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token
	return writeConfigFile(c.TokenFile, token)
}

// LoadUserID reads the persisted user id, if any
func (c *Config) LoadUserID() (string, error) {
	data, err := os.ReadFile(c.UserFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// SaveUserID persists the user id so later sessions can resume it
func (c *Config) SaveUserID(userID string) error {
	return writeConfigFile(c.UserFile, userID)
}

func writeConfigFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}

func defaultConfigFile(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".suitstreak", name)
	}
	return filepath.Join(home, ".suitstreak", name)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
