package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "coursedl"
	keyringUser    = "access-token"
)

var ErrNotLoggedIn = errors.New("no stored access token, run `coursedl login` first")

// Store persists the access token in the OS keyring.
func Store(token string) error {
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("error storing access token: %w", err)
	}
	return nil
}

// Load returns an Auth backed by the token stored in the OS keyring.
func Load() (Auth, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return Auth{}, ErrNotLoggedIn
	}
	if err != nil {
		return Auth{}, fmt.Errorf("error reading access token: %w", err)
	}
	return New(token), nil
}

// Resolve returns the Auth for authenticated commands: an explicitly
// provided token wins, otherwise the keyring-stored one is used.
func Resolve(token string) (Auth, error) {
	if token != "" {
		return New(token), nil
	}
	return Load()
}

// Forget removes the stored token. Missing entries are not an error.
func Forget() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("error removing access token: %w", err)
	}
	return nil
}
