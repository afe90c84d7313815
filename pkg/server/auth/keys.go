package auth

import (
	"crypto/sha256"
	"errors"
	"os"
	"sync"

	"mercator-hq/odrlcheck/pkg/config"
)

var (
	// ErrMissingKey is returned when the request carries no key.
	ErrMissingKey = errors.New("missing API key")
	// ErrInvalidKey is returned for unknown keys.
	ErrInvalidKey = errors.New("invalid API key")
	// ErrKeyDisabled is returned for keys that are configured but disabled.
	ErrKeyDisabled = errors.New("API key disabled")
)

// Key is an accepted API key.
type Key struct {
	Name    string
	Secret  string
	Enabled bool
}

// KeySet validates API keys against a configured set.
type KeySet struct {
	mu sync.RWMutex
	// Indexed by SHA-256 of the secret so that secrets are not map keys.
	keys map[[sha256.Size]byte]*Key
}

// NewKeySet creates a key set holding keys.
func NewKeySet(keys []*Key) *KeySet {
	s := &KeySet{keys: make(map[[sha256.Size]byte]*Key, len(keys))}
	for _, k := range keys {
		s.keys[sha256.Sum256([]byte(k.Secret))] = k
	}
	return s
}

// FromConfig builds a key set from server.auth. Keys whose key_env variable
// is unset or empty are skipped.
func FromConfig(cfg *config.AuthConfig) *KeySet {
	keys := make([]*Key, 0, len(cfg.Keys))
	for _, kc := range cfg.Keys {
		secret := kc.Key
		if kc.KeyEnv != "" {
			secret = os.Getenv(kc.KeyEnv)
		}
		if secret == "" {
			continue
		}
		keys = append(keys, &Key{Name: kc.Name, Secret: secret, Enabled: !kc.Disabled})
	}
	return NewKeySet(keys)
}

// Validate returns the key matching secret.
func (s *KeySet) Validate(secret string) (*Key, error) {
	if secret == "" {
		return nil, ErrMissingKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[sha256.Sum256([]byte(secret))]
	if !ok {
		return nil, ErrInvalidKey
	}
	if !key.Enabled {
		return nil, ErrKeyDisabled
	}
	return key, nil
}

// Add adds or replaces a key.
func (s *KeySet) Add(key *Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[sha256.Sum256([]byte(key.Secret))] = key
}

// Remove removes the key with the given secret.
func (s *KeySet) Remove(secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, sha256.Sum256([]byte(secret)))
}

// Len returns the number of keys.
func (s *KeySet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
