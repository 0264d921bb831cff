// Package credentials keeps devhost secrets in the OS keyring.
package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "adbridge"

var ErrNotFound = errors.New("credentials: not found")

func StoreAppSecret(key string, value string) error {
	return keyring.Set(serviceName, "app:"+key, value)
}

func LoadAppSecret(key string) (string, error) {
	val, err := keyring.Get(serviceName, "app:"+key)
	if err != nil {
		return "", ErrNotFound
	}
	return val, nil
}

func DeleteAppSecret(key string) {
	_ = keyring.Delete(serviceName, "app:"+key)
}

// LoadOrCreateSecret returns the secret stored under key, generating and
// storing n random bytes (base64) the first time.
func LoadOrCreateSecret(key string, n int) (string, error) {
	if val, err := LoadAppSecret(key); err == nil {
		return val, nil
	}

	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate %s: %w", key, err)
	}
	val := base64.StdEncoding.EncodeToString(raw)
	if err := StoreAppSecret(key, val); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return val, nil
}
