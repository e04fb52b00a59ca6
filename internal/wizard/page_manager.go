package wizard

import (
	"sync"

	"regdraft/internal/registration"
	"regdraft/internal/schema"
	"regdraft/internal/validators"
)

// PageManager wraps one wizard page: its schema block groups, the staged
// changeset for the page's fields, and the derived page validity.
//
// SetResponse is called from the hosting view's update loop while the
// autosave timer snapshots staged values from its own goroutine, so all
// changeset access goes through the manager's mutex.
type PageManager struct {
	number int // 1-indexed
	page   *schema.Page

	mu        sync.Mutex
	changeset *Changeset
	valid     bool

	// onValidity is invoked on every validity transition so the draft
	// manager keeps aggregate validity current without polling.
	onValidity func(pageNumber int, valid bool)
}

// newPageManager builds a page manager seeded from the shared response map.
// Required inputs get a non-empty validator; select inputs additionally get
// a membership validator over their option values.
func newPageManager(number int, page *schema.Page, seed registration.ResponseMap) *PageManager {
	cs := NewChangeset(seed, page.ResponseKeys())
	for _, group := range page.Groups {
		key := group.ResponseKey()
		if key == "" {
			continue
		}
		if group.Required() {
			cs.Attach(key, validators.NonEmpty)
		}
		if opts := group.OptionValues(); len(opts) > 0 {
			cs.Attach(key, validators.OneOf(opts))
		}
	}

	return &PageManager{
		number:    number,
		page:      page,
		changeset: cs,
		valid:     cs.Valid(),
	}
}

// Number returns the 1-indexed page number.
func (pm *PageManager) Number() int {
	return pm.number
}

// Groups returns the page's schema block groups in display order.
func (pm *PageManager) Groups() []*schema.Group {
	return pm.page.Groups
}

// PageHeadingText returns the page's heading text. Stable for the page's
// lifetime.
func (pm *PageManager) PageHeadingText() string {
	return pm.page.HeadingText()
}

// PageIsValid reports whether every field validator on this page passes
// against the staged values.
func (pm *PageManager) PageIsValid() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.valid
}

// Response returns the staged value for a response key on this page.
func (pm *PageManager) Response(key string) registration.Value {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.changeset.Get(key)
}

// SetResponse stages a value for a response key and recomputes validity
// synchronously. It does not touch the shared response map; commit happens
// in the draft manager's save cycle.
func (pm *PageManager) SetResponse(key string, value registration.Value) {
	pm.mu.Lock()
	pm.changeset.Set(key, value)
	was := pm.valid
	pm.valid = pm.changeset.Valid()
	changed := pm.valid != was
	valid := pm.valid
	notify := pm.onValidity
	pm.mu.Unlock()

	if changed && notify != nil {
		notify(pm.number, valid)
	}
}

// StagedSnapshot returns a copy of the staged values for the save cycle.
func (pm *PageManager) StagedSnapshot() registration.ResponseMap {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.changeset.Snapshot()
}
