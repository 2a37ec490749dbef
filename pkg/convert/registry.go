package convert

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotRegistered reports a converter name the registry does not know.
var ErrNotRegistered = errors.New("convert: converter not registered")

// Registry stores converters by name. The first converter registered serves
// requests that do not name one.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
	order      []string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		converters: make(map[string]Converter),
	}
}

// Register adds a converter by its Name(). Duplicate names return an error.
func (r *Registry) Register(converter Converter) error {
	if converter == nil {
		return fmt.Errorf("convert: converter is required")
	}
	name := converter.Name()
	if name == "" {
		return fmt.Errorf("convert: converter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.converters[name]; exists {
		return fmt.Errorf("convert: converter %q already registered", name)
	}

	r.converters[name] = converter
	r.order = append(r.order, name)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(converter Converter) {
	if err := r.Register(converter); err != nil {
		panic(err)
	}
}

// Get retrieves a converter by name. An empty name selects the first
// registered converter.
func (r *Registry) Get(name string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name == "" {
		if len(r.order) == 0 {
			return nil, fmt.Errorf("%w: registry is empty", ErrNotRegistered)
		}
		name = r.order[0]
	}
	converter, ok := r.converters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	return converter, nil
}

// Names lists converters in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Convert runs the named converter. Lookup failures are reported as a
// ConversionError so callers handle them like any other failed conversion.
func (r *Registry) Convert(ctx context.Context, name, htmlPath, outPath string) error {
	converter, err := r.Get(name)
	if err != nil {
		return &ConversionError{Converter: name, Err: err}
	}
	return converter.Convert(ctx, htmlPath, outPath)
}
