// Package credentials resolves the gateway API token from the OS keyring
// and environment variables, in that priority order.
package credentials

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringServicePrefix is the prefix for all nexussync keyring entries
	KeyringServicePrefix = "nexussync"

	// keyringUser is the fixed account name tokens are stored under; the
	// gateway name already distinguishes entries.
	keyringUser = "api-token"
)

// getServiceName returns the keyring service name for a gateway
func getServiceName(gatewayName string) string {
	return fmt.Sprintf("%s-%s", KeyringServicePrefix, gatewayName)
}

// Set stores a gateway token in the OS keyring
func Set(gatewayName, token string) error {
	if gatewayName == "" {
		return fmt.Errorf("gateway name cannot be empty")
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := keyring.Set(getServiceName(gatewayName), keyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Get retrieves a gateway token from the OS keyring
func Get(gatewayName string) (string, error) {
	if gatewayName == "" {
		return "", fmt.Errorf("gateway name cannot be empty")
	}

	token, err := keyring.Get(getServiceName(gatewayName), keyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("no token found in keyring for gateway %q", gatewayName)
		}
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

// Delete removes a gateway token from the OS keyring
func Delete(gatewayName string) error {
	if gatewayName == "" {
		return fmt.Errorf("gateway name cannot be empty")
	}

	if err := keyring.Delete(getServiceName(gatewayName), keyringUser); err != nil {
		if err == keyring.ErrNotFound {
			return fmt.Errorf("no token found in keyring for gateway %q", gatewayName)
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks whether an OS keyring backend is usable
func IsAvailable() bool {
	const probe = "nexussync-keyring-probe"
	if err := keyring.Set(probe, keyringUser, "ok"); err != nil {
		return false
	}
	_ = keyring.Delete(probe, keyringUser)
	return true
}
