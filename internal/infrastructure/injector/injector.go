// Package injector builds executable commands from their type references.
package injector

import (
	"fmt"
	"sync"

	apperrors "github.com/Shadowhackercz/AuthMeReloaded/internal/application/errors"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/application/ports"
	"github.com/Shadowhackercz/AuthMeReloaded/internal/domain/command"
)

// Ensure interface compliance
var _ ports.Injector = (*Injector)(nil)

// Provider creates a fresh command instance.
type Provider func() (any, error)

// Option configures an Injector.
type Option func(*Injector)

// Singleton makes the injector cache the first instance of each type.
func Singleton(enabled bool) Option {
	return func(i *Injector) {
		i.singleton = enabled
	}
}

// Injector is a registry of providers keyed by command type.
// It is safe for concurrent use.
type Injector struct {
	providers map[command.CommandType]Provider
	instances map[command.CommandType]any
	mu        sync.RWMutex
	singleton bool
}

// New creates an empty injector.
func New(opts ...Option) *Injector {
	i := &Injector{
		providers: make(map[command.CommandType]Provider),
		instances: make(map[command.CommandType]any),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Register binds a provider to a command type.
func (i *Injector) Register(t command.CommandType, provider Provider) error {
	if t.IsZero() {
		return apperrors.NewValidationError("command_type", "command type must not be empty")
	}
	if provider == nil {
		return apperrors.NewValidationError("provider", fmt.Sprintf("provider for %s must not be nil", t))
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.providers[t]; exists {
		return apperrors.NewValidationError("command_type", fmt.Sprintf("provider for %s already registered", t))
	}
	i.providers[t] = provider
	return nil
}

// NewInstance creates an instance of t. Unknown types and provider failures
// are reported as invariant errors since they can only come from wiring.
func (i *Injector) NewInstance(t command.CommandType) (any, error) {
	i.mu.RLock()
	provider, ok := i.providers[t]
	cached, hasCached := i.instances[t]
	i.mu.RUnlock()

	if !ok {
		return nil, apperrors.NewInvariantError(t, "no provider registered", nil)
	}
	if hasCached {
		return cached, nil
	}

	instance, err := provider()
	if err != nil {
		return nil, apperrors.NewInvariantError(t, "provider failed", err)
	}
	if instance == nil {
		return nil, apperrors.NewInvariantError(t, "provider returned nil", nil)
	}

	if i.singleton {
		i.mu.Lock()
		defer i.mu.Unlock()
		// Another caller may have won the race; keep the first instance.
		if existing, ok := i.instances[t]; ok {
			return existing, nil
		}
		i.instances[t] = instance
	}
	return instance, nil
}
