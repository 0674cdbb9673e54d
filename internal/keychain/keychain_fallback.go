//go:build !darwin && !linux && !windows

package keychain

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

type fallbackStore struct{}

func newPlatformStore() Store {
	return &fallbackStore{}
}

// envName maps a secret name to its environment variable,
// e.g. api-token -> CHRONO_API_TOKEN
func envName(name string) string {
	return "CHRONO_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Get retrieves a secret from the environment
func (s *fallbackStore) Get(name string) (string, error) {
	value := os.Getenv(envName(name))
	if value == "" {
		return "", fmt.Errorf("%s environment variable not set", envName(name))
	}

	return value, nil
}

// Set returns an error suggesting to set the environment variable
func (s *fallbackStore) Set(name, value string) error {
	if value == "" {
		return errors.New("value cannot be empty")
	}

	return fmt.Errorf("keyring not available on this platform: please set the %s environment variable", envName(name))
}

// Delete returns an error suggesting to unset the environment variable
func (s *fallbackStore) Delete(name string) error {
	return fmt.Errorf("keyring not available on this platform: please unset %s manually", envName(name))
}

// IsAvailable checks if the API token environment variable is set
func (s *fallbackStore) IsAvailable() bool {
	return os.Getenv(envName(TokenName)) != ""
}
