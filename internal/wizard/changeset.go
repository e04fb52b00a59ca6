// Package wizard sequences a multi-page draft-registration form: it
// partitions the schema into page managers, tracks per-page and aggregate
// validity, and debounces autosave against the remote draft resource.
package wizard

import (
	"regdraft/internal/registration"
	"regdraft/internal/validators"
)

// Changeset is a scoped staging area for edits to one page's fields.
// Writes stay local until the draft manager's save cycle commits them to
// the shared response map.
type Changeset struct {
	values     map[string]registration.Value
	dirty      map[string]bool
	validators map[string][]validators.Field
}

// NewChangeset seeds a changeset from the shared response map, restricted
// to the given keys. The changeset never writes back to seed.
func NewChangeset(seed registration.ResponseMap, keys []string) *Changeset {
	cs := &Changeset{
		values:     make(map[string]registration.Value, len(keys)),
		dirty:      make(map[string]bool),
		validators: make(map[string][]validators.Field),
	}
	for _, key := range keys {
		cs.values[key] = seed[key]
	}
	return cs
}

// Keys returns the response keys covered by this changeset.
func (c *Changeset) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}

// Get returns the staged value for a key.
func (c *Changeset) Get(key string) registration.Value {
	return c.values[key]
}

// Set stages a new value for a key. Keys outside the changeset's scope are
// ignored; a page never grows response keys after construction.
func (c *Changeset) Set(key string, value registration.Value) {
	if _, ok := c.values[key]; !ok {
		return
	}
	c.values[key] = value
	c.dirty[key] = true
}

// Dirty reports whether any field has been staged since construction.
func (c *Changeset) Dirty() bool {
	return len(c.dirty) > 0
}

// Attach adds a field validator for a key.
func (c *Changeset) Attach(key string, v validators.Field) {
	c.validators[key] = append(c.validators[key], v)
}

// Valid reports whether every attached validator passes against the
// currently staged values.
func (c *Changeset) Valid() bool {
	for key, checks := range c.validators {
		for _, check := range checks {
			if !check(c.values[key]) {
				return false
			}
		}
	}
	return true
}

// Snapshot returns a copy of the staged values, for merging into the
// shared response map.
func (c *Changeset) Snapshot() registration.ResponseMap {
	out := make(registration.ResponseMap, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}
