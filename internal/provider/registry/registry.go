// Package registry maps provider names to embedding and answer providers so the
// active ones can be chosen by configuration.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/davidbz/semcache/internal/domain"
)

// Named is implemented by every provider kind.
type Named interface {
	Name() string
}

// Registry holds providers of one kind keyed by name.
type Registry[T Named] struct {
	mu        sync.RWMutex
	providers map[string]T
}

// NewRegistry creates a new provider registry.
func NewRegistry[T Named]() *Registry[T] {
	return &Registry[T]{
		mu:        sync.RWMutex{},
		providers: make(map[string]T),
	}
}

// NewEmbeddingRegistry creates a registry of embedding providers.
func NewEmbeddingRegistry() *Registry[domain.EmbeddingProvider] {
	return NewRegistry[domain.EmbeddingProvider]()
}

// NewAnswerRegistry creates a registry of answer providers.
func NewAnswerRegistry() *Registry[domain.AnswerProvider] {
	return NewRegistry[domain.AnswerProvider]()
}

// Register adds a provider to the registry.
func (r *Registry[T]) Register(_ context.Context, provider T) error {
	if any(provider) == nil {
		return errors.New("provider cannot be nil")
	}

	name := provider.Name()
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = provider
	return nil
}

// Get retrieves a provider by name.
func (r *Registry[T]) Get(_ context.Context, providerName string) (T, error) {
	var zero T
	if providerName == "" {
		return zero, errors.New("provider name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[providerName]
	if !exists {
		return zero, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, providerName)
	}

	return provider, nil
}

// List returns the names of all registered providers in sorted order.
func (r *Registry[T]) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
