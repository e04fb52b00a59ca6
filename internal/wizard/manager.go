package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"regdraft/internal/log"
	"regdraft/internal/pubsub"
	"regdraft/internal/registration"
	"regdraft/internal/schema"
)

// State is the draft manager's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateSaving
	StateSubmitting
	StateSubmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrInitializationFailed wraps any draft/schema/block fetch failure
	// during Init. No partial page-manager state is exposed behind it.
	ErrInitializationFailed = errors.New("draft initialization failed")
	// ErrNotReady is returned when an operation needs a Ready manager.
	ErrNotReady = errors.New("draft manager is not ready")
	// ErrAlreadySubmitted is returned when submitting a submitted draft.
	ErrAlreadySubmitted = errors.New("draft already submitted")
)

// DefaultDebounce is the trailing-edge autosave window.
const DefaultDebounce = 500 * time.Millisecond

// Config wires the manager's external collaborators.
type Config struct {
	Provider registration.DraftProvider
	Blocks   registration.BlockLoader

	// Taxonomy classifies block types for partitioning. Zero value uses
	// the default OSF vocabulary.
	Taxonomy schema.Taxonomy

	// Debounce is the autosave quiet window. Zero uses DefaultDebounce.
	Debounce time.Duration

	// UpdateRoute is invoked once after initial page-manager construction
	// with the first page's heading text. Optional.
	UpdateRoute func(headingText string)

	// PageParam formats the route label for a page. Nil uses the default
	// "<n>-<slug>" format.
	PageParam func(pageNumber int, headingText string) string
}

// Manager orchestrates the draft-registration wizard: initialization, page
// navigation, debounced autosave, and final submission.
type Manager struct {
	cfg    Config
	broker *pubsub.Broker[Event]

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	state        State
	draft        registration.Draft
	responses    registration.ResponseMap
	pageManagers []*PageManager
	pageValid    []bool
	currentPage  int
	lastPage     int

	timer       *time.Timer
	saveGen     int
	scheduled   bool
	saving      bool
	pendingSave bool
	closed      bool
}

// New creates an uninitialized manager. Call Init before anything else.
func New(cfg Config) *Manager {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Taxonomy.Headings == nil {
		cfg.Taxonomy = schema.DefaultTaxonomy()
	}
	if cfg.PageParam == nil {
		cfg.PageParam = DefaultPageParam
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:    cfg,
		broker: pubsub.NewBroker[Event](),
		ctx:    ctx,
		cancel: cancel,
		state:  StateUninitialized,
	}
}

// Broker exposes the manager's event stream for the hosting view.
func (m *Manager) Broker() *pubsub.Broker[Event] {
	return m.broker
}

// Init resolves the draft, loads its schema blocks, partitions them into
// pages, and builds one page manager per page. On success the manager is
// Ready and, if at least one page exists, UpdateRoute has been called with
// the first page's heading text.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return fmt.Errorf("init from state %s: %w", m.state, ErrNotReady)
	}
	m.state = StateInitializing
	m.mu.Unlock()

	draft, err := m.cfg.Provider.ResolveDraft(ctx)
	if err != nil {
		return m.failInit("resolving draft", err)
	}
	sch, err := draft.Schema(ctx)
	if err != nil {
		return m.failInit("resolving schema", err)
	}
	blocks, err := m.cfg.Blocks.SchemaBlocks(ctx, sch)
	if err != nil {
		return m.failInit("loading schema blocks", err)
	}

	pages := schema.Pages(blocks, m.cfg.Taxonomy)

	m.mu.Lock()
	m.draft = draft
	m.responses = draft.RegistrationResponses().Clone()
	m.pageManagers = make([]*PageManager, len(pages))
	m.pageValid = make([]bool, len(pages))
	for i, page := range pages {
		pm := newPageManager(i+1, page, m.responses)
		pm.onValidity = m.pageValidityChanged
		m.pageManagers[i] = pm
		m.pageValid[i] = pm.PageIsValid()
	}
	m.lastPage = len(pages)
	if len(pages) > 0 {
		m.currentPage = 1
	}
	m.state = StateReady
	firstHeading := ""
	if len(pages) > 0 {
		firstHeading = m.pageManagers[0].PageHeadingText()
	}
	m.mu.Unlock()

	log.Info(log.CatWizard, "draft initialized", "draft", draft.ID(), "schema", sch.Name, "pages", len(pages))

	if len(pages) > 0 && m.cfg.UpdateRoute != nil {
		m.cfg.UpdateRoute(firstHeading)
	}
	return nil
}

func (m *Manager) failInit(step string, err error) error {
	m.mu.Lock()
	m.state = StateFailed
	m.mu.Unlock()
	log.ErrorErr(log.CatWizard, "initialization failed", err, "step", step)
	return fmt.Errorf("%s: %w: %w", step, ErrInitializationFailed, err)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// PageManagers returns all page managers in page order.
func (m *Manager) PageManagers() []*PageManager {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageManagers
}

// LastPage returns the 1-indexed number of the final page, 0 when the
// schema produced no pages.
func (m *Manager) LastPage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPage
}

// CurrentPage returns the externally driven 1-indexed current page.
func (m *Manager) CurrentPage() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPage
}

// SetCurrentPage records the routing collaborator's page selection.
// Out-of-range values are stored as-is; CurrentPageManager reports nil for
// them.
func (m *Manager) SetCurrentPage(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentPage = n
}

// CurrentPageManager returns the page manager for the current page, or nil
// when the current page is outside [1, len(pageManagers)].
func (m *Manager) CurrentPageManager() *PageManager {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageManagerAtLocked(m.currentPage)
}

func (m *Manager) pageManagerAtLocked(n int) *PageManager {
	if n < 1 || n > len(m.pageManagers) {
		return nil
	}
	return m.pageManagers[n-1]
}

// NextPageParam returns the route label for the page after the current
// one, or empty when the current page is the last.
func (m *Manager) NextPageParam() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pageParamLocked(m.currentPage + 1)
}

// PrevPageParam returns the route label for the page before the current
// one, or empty when there is no prior page.
func (m *Manager) PrevPageParam() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentPage <= 1 {
		return ""
	}
	return m.pageParamLocked(m.currentPage - 1)
}

func (m *Manager) pageParamLocked(n int) string {
	pm := m.pageManagerAtLocked(n)
	if pm == nil {
		return ""
	}
	return m.cfg.PageParam(n, pm.PageHeadingText())
}

// DefaultPageParam formats a page route label as "<n>-<heading-slug>".
func DefaultPageParam(pageNumber int, headingText string) string {
	slug := strings.ToLower(strings.TrimSpace(headingText))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return fmt.Sprintf("%d", pageNumber)
	}
	return fmt.Sprintf("%d-%s", pageNumber, slug)
}

// IsValid reports aggregate validity: true iff every page manager's page
// is valid, regardless of which page is displayed.
func (m *Manager) IsValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isValidLocked()
}

func (m *Manager) isValidLocked() bool {
	for _, v := range m.pageValid {
		if !v {
			return false
		}
	}
	return true
}

// pageValidityChanged keeps the aggregate current. Wired as every page
// manager's onValidity callback.
func (m *Manager) pageValidityChanged(pageNumber int, valid bool) {
	m.mu.Lock()
	if pageNumber >= 1 && pageNumber <= len(m.pageValid) {
		m.pageValid[pageNumber-1] = valid
	}
	agg := m.isValidLocked()
	m.mu.Unlock()

	m.broker.Publish(EventValidityChange, Event{Page: pageNumber, Valid: agg})
}

// AutoSaving reports whether an autosave is scheduled or in flight.
func (m *Manager) AutoSaving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scheduled || m.saving
}

// OnInput schedules a trailing-edge debounced autosave. A new input before
// the window elapses cancels the previous schedule and re-arms it, so a
// burst of input produces at most one persistence call per quiet period.
// A no-op until the manager is Ready.
func (m *Manager) OnInput() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || (m.state != StateReady && m.state != StateSaving) {
		return
	}

	m.saveGen++
	gen := m.saveGen
	if m.timer != nil {
		m.timer.Stop()
	}
	m.scheduled = true
	m.timer = time.AfterFunc(m.cfg.Debounce, func() {
		m.fireAutosave(gen)
	})
	m.broker.Publish(EventSaveScheduled, Event{Page: m.currentPage})
}

// fireAutosave runs when the debounce window elapses. It merges the
// current page's staged values into the shared response map
// (last-write-wins per key) and persists the draft. A stale generation
// means a newer input re-armed the timer; a teardown means the values it
// would read are gone - both bail out without touching state.
func (m *Manager) fireAutosave(gen int) {
	m.mu.Lock()
	if m.closed || gen != m.saveGen {
		m.mu.Unlock()
		return
	}
	m.scheduled = false
	m.timer = nil

	if m.saving {
		// An earlier save is still in flight; queue one behind it.
		m.pendingSave = true
		m.mu.Unlock()
		return
	}

	page := m.currentPage
	if pm := m.pageManagerAtLocked(page); pm != nil {
		for k, v := range pm.StagedSnapshot() {
			m.responses[k] = v
		}
	}
	m.draft.SetRegistrationResponses(m.responses.Clone())
	m.saving = true
	if m.state == StateReady {
		m.state = StateSaving
	}
	draft := m.draft
	ctx := m.ctx
	m.mu.Unlock()

	m.broker.Publish(EventSaveStarted, Event{Page: page})
	log.Debug(log.CatWizard, "autosave fired", "page", page)

	err := draft.Save(ctx)

	m.mu.Lock()
	m.saving = false
	if m.state == StateSaving {
		m.state = StateReady
	}
	pending := m.pendingSave
	m.pendingSave = false
	m.mu.Unlock()

	if err != nil {
		// Not fatal: the next input arms a fresh debounce cycle and
		// retries the save.
		log.ErrorErr(log.CatWizard, "autosave failed", err, "page", page)
		m.broker.Publish(EventSaveFailed, Event{Page: page, Err: err.Error()})
	} else {
		m.broker.Publish(EventSaveCompleted, Event{Page: page})
	}

	if pending {
		m.OnInput()
	}
}

// SubmitDraftRegistration persists the draft unconditionally (no merge
// step) and transitions to Submitted on success. On failure the manager
// stays Ready so the user can retry.
func (m *Manager) SubmitDraftRegistration(ctx context.Context) error {
	m.mu.Lock()
	switch m.state {
	case StateSubmitted:
		m.mu.Unlock()
		return ErrAlreadySubmitted
	case StateReady:
	default:
		state := m.state
		m.mu.Unlock()
		return fmt.Errorf("submit from state %s: %w", state, ErrNotReady)
	}
	m.state = StateSubmitting
	draft := m.draft
	m.mu.Unlock()

	err := draft.Save(ctx)

	m.mu.Lock()
	if err != nil {
		m.state = StateReady
		m.mu.Unlock()
		log.ErrorErr(log.CatWizard, "submission failed", err, "draft", draft.ID())
		m.broker.Publish(EventSubmitFailed, Event{Err: err.Error()})
		return fmt.Errorf("submitting draft: %w", err)
	}
	m.state = StateSubmitted
	m.mu.Unlock()

	log.Info(log.CatWizard, "draft submitted", "draft", draft.ID())
	m.broker.Publish(EventSubmitted, Event{})
	return nil
}

// Close cancels any pending autosave and tears the manager down. An
// already in-flight save completes against values captured before Close.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.scheduled = false
	m.mu.Unlock()

	m.cancel()
	m.broker.Close()
}
