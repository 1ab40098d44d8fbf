// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"sort"
	"sync"

	"github.com/gogpu/gputypes"
)

// AllocateOptions describes the target to allocate.
type AllocateOptions struct {
	// Width is the logical width in points. Required.
	Width int

	// Height is the logical height in points. Required.
	Height int

	// Scale is the number of physical pixels per point.
	// Defaults to 1.
	Scale float64

	// Format is the pixel format. Defaults to RGBA8Unorm.
	Format gputypes.TextureFormat

	// PowerOfTwo pads the physical size up to powers of two.
	// Used on constrained hardware profiles.
	PowerOfTwo bool

	// Label is an optional debug label.
	Label string

	// Device is a backend-specific device handle (e.g. a wgpu HAL device
	// for the "hal" backend). Backends that need one return an error when
	// it is absent, and Allocate falls through to the next backend.
	Device any
}

// applyDefaults fills in zero-valued optional fields.
func (o *AllocateOptions) applyDefaults() {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Format == gputypes.TextureFormatUndefined {
		o.Format = gputypes.TextureFormatRGBA8Unorm
	}
}

// TargetFactory allocates a Target from options.
// Implementations should validate options and return descriptive errors.
type TargetFactory func(opts AllocateOptions) (Target, error)

// RegistryEntry is a registered target allocation backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU backends
	//   - 10: CPU pixmap backend
	Priority int

	// Factory allocates target instances.
	Factory TargetFactory

	// Available reports if the backend can run on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered target allocation backends.
//
// The registry lets GPU backends register themselves via blank import
// without the core depending on them:
//
//	import _ "github.com/gogpu/rtex/backend/hal"
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Allocate.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
//
// If available is nil, the backend is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory TargetFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Allocate creates a target using the best available backend.
// Backends are tried in priority order; the first success wins.
func Allocate(opts AllocateOptions) (Target, error) {
	return globalRegistry.Allocate(opts)
}

// AllocateByName creates a target using a specific named backend.
func AllocateByName(name string, opts AllocateOptions) (Target, error) {
	return globalRegistry.AllocateByName(name, opts)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory TargetFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available backends sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific backend.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification.
	entryCopy := *entry
	return &entryCopy, true
}

// Allocate creates a target using the best available backend.
func (r *Registry) Allocate(opts AllocateOptions) (Target, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range available {
		t, err := r.AllocateByName(name, opts)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBackendAvailable
}

// AllocateByName creates a target using a specific backend.
func (r *Registry) AllocateByName(name string, opts AllocateOptions) (Target, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}

	return entry.Factory(opts)
}

// sortedNames returns backend names sorted by priority (highest first).
// If onlyAvailable is true, filters to available backends only.
// Must be called with the lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoBackendAvailable is returned when no allocation backends are
	// registered or available on the current system.
	ErrNoBackendAvailable = errors.New("render: no backend available")

	// ErrInvalidSize is returned for non-positive target dimensions.
	ErrInvalidSize = errors.New("render: invalid target size")
)

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "render: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "render: backend unavailable: " + e.Name
}

// init registers the built-in CPU pixmap backend.
func init() {
	Register("pixmap", 10, func(opts AllocateOptions) (Target, error) {
		return NewPixmapWithOptions(opts)
	}, nil)
}
