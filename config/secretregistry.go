package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// SecretProviderFactory creates a SecretProvider from configuration.
type SecretProviderFactory func(cfg map[string]any) (SecretProvider, error)

// SecretRegistry manages provider factories.
type SecretRegistry struct {
	mu        sync.RWMutex
	providers map[string]SecretProviderFactory
}

// NewSecretRegistry creates a new provider registry.
func NewSecretRegistry() *SecretRegistry {
	return &SecretRegistry{providers: make(map[string]SecretProviderFactory)}
}

// Register adds a provider factory.
func (r *SecretRegistry) Register(name string, factory SecretProviderFactory) error {
	if strings.TrimSpace(name) == "" || factory == nil {
		return errors.New("invalid provider registration")
	}
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("secret provider %q already registered", name)
	}
	r.providers[name] = factory
	return nil
}

// Create instantiates a provider by name.
func (r *SecretRegistry) Create(name string, cfg map[string]any) (SecretProvider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("provider name is required")
	}

	r.mu.RLock()
	factory, ok := r.providers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("secret provider %q is not registered", name)
	}

	return factory(cfg)
}

// List returns registered provider names.
func (r *SecretRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultSecretRegistry is the global registry for secret providers.
var DefaultSecretRegistry = NewSecretRegistry()
