// Copyright 2026 The Carryall Authors
// SPDX-License-Identifier: Apache-2.0

package resolver

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/carryall-dev/carryall/lib/platform"
)

// memoKey identifies one resolution. The platform is part of the key
// so a cache shared across resolvers for different platforms stays
// correct.
type memoKey struct {
	name     string
	platform platform.Key
}

// Memoized caches Resolve results for the life of the process. It is a
// performance option only: bundle contents are static once installed,
// but a cached answer will not notice a bundle repaired while the
// process runs. SearchPath is never cached.
type Memoized struct {
	*Resolver
	cache *lru.Cache[memoKey, Executable]
}

// NewMemoized wraps resolver with an LRU cache holding up to size
// entries.
func NewMemoized(resolver *Resolver, size int) (*Memoized, error) {
	cache, err := lru.New[memoKey, Executable](size)
	if err != nil {
		return nil, fmt.Errorf("creating resolution cache: %w", err)
	}
	return &Memoized{Resolver: resolver, cache: cache}, nil
}

// Resolve returns the cached result for name, resolving on first use.
func (m *Memoized) Resolve(name string) Executable {
	key := memoKey{name: name, platform: m.Resolver.Platform()}
	if executable, ok := m.cache.Get(key); ok {
		return executable
	}
	executable := m.Resolver.Resolve(name)
	m.cache.Add(key, executable)
	return executable
}

// Purge drops every cached result.
func (m *Memoized) Purge() {
	m.cache.Purge()
}
