package storage

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
)

// Prefixed scopes every key of an underlying Storage under a fixed prefix,
// giving each client its own view of a shared backend.
type Prefixed struct {
	inner  Storage
	prefix string
	// keys tracks keys written through this view so Clear stays scoped
	keys map[Lifetime]map[string]struct{}
}

// WithPrefix returns a view of inner where every key is prefixed
func WithPrefix(inner Storage, prefix string) *Prefixed {
	return &Prefixed{
		inner:  inner,
		prefix: strings.TrimSuffix(prefix, ":") + ":",
		keys: map[Lifetime]map[string]struct{}{
			Durable:   {},
			Ephemeral: {},
		},
	}
}

// Ensure Prefixed implements the interface
var _ Storage = (*Prefixed)(nil)

func (p *Prefixed) Get(ctx context.Context, lifetime Lifetime, key string) ([]byte, error) {
	return p.inner.Get(ctx, lifetime, p.prefix+key)
}

func (p *Prefixed) Put(ctx context.Context, lifetime Lifetime, key string, data []byte) error {
	if err := p.inner.Put(ctx, lifetime, p.prefix+key, data); err != nil {
		return err
	}
	if _, ok := p.keys[lifetime]; ok {
		p.keys[lifetime][key] = struct{}{}
	}
	return nil
}

func (p *Prefixed) Delete(ctx context.Context, lifetime Lifetime, key string) error {
	if err := p.inner.Delete(ctx, lifetime, p.prefix+key); err != nil {
		return err
	}
	delete(p.keys[lifetime], key)
	return nil
}

// Clear removes the keys this view has written plus the well-known session
// keys. Other keys written by an earlier view over the same prefix are left
// to the backend's own expiry.
func (p *Prefixed) Clear(ctx context.Context, lifetime Lifetime) error {
	keys := slices.Collect(maps.Keys(p.keys[lifetime]))
	if lifetime == Ephemeral {
		keys = append(keys, KeyUserData, KeyBattleState)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range slices.Compact(keys) {
		if err := p.Delete(ctx, lifetime, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
