//go:build darwin || linux || windows

package keychain

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

type nativeStore struct{}

func newPlatformStore() Store {
	return &nativeStore{}
}

// Get retrieves a secret from the system keyring
func (s *nativeStore) Get(name string) (string, error) {
	value, err := keyring.Get(ServiceName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%s not found in keyring: %w", name, err)
		}
		return "", fmt.Errorf("failed to retrieve %s from keyring: %w", name, err)
	}

	if value == "" {
		return "", fmt.Errorf("stored %s is empty", name)
	}

	return value, nil
}

// Set stores a secret in the system keyring
func (s *nativeStore) Set(name, value string) error {
	if value == "" {
		return errors.New("value cannot be empty")
	}

	if err := keyring.Set(ServiceName, name, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}

	return nil
}

// Delete removes a secret from the system keyring
func (s *nativeStore) Delete(name string) error {
	err := keyring.Delete(ServiceName, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%s not found in keyring: %w", name, err)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", name, err)
	}

	return nil
}

// IsAvailable checks if the system keyring is accessible
func (s *nativeStore) IsAvailable() bool {
	// Test availability with a throwaway key that we immediately delete
	testKey := "__chrono_availability_test__"
	if err := keyring.Set(ServiceName, testKey, "test"); err != nil {
		return false
	}

	_ = keyring.Delete(ServiceName, testKey)
	return true
}
