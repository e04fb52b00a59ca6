package osfapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"regdraft/internal/log"
	"regdraft/internal/registration"
)

// Server is the mock OSF API. It serves schemas, blocks, nodes and files
// from a scenario fixture and persists draft mutations in a Store.
type Server struct {
	mu       sync.RWMutex
	scenario *Scenario
	store    *Store
	mux      *http.ServeMux
}

// NewServer builds a mock server over a scenario and a draft store.
// Scenario seed drafts are inserted only when the store does not already
// hold them, so edits survive dev-server restarts.
func NewServer(scenario *Scenario, store *Store) (*Server, error) {
	s := &Server{
		scenario: scenario,
		store:    store,
		mux:      http.NewServeMux(),
	}
	if err := s.seedDrafts(scenario); err != nil {
		return nil, err
	}
	s.routes()
	return s, nil
}

func (s *Server) seedDrafts(scenario *Scenario) error {
	for _, rec := range scenario.Drafts {
		_, err := s.store.GetDraft(rec.ID)
		if err == nil {
			continue // Already stored; keep the edited version.
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err := s.store.UpsertDraft(rec); err != nil {
			return err
		}
	}
	return nil
}

// SetScenario swaps the fixture data, used by the dev server's live
// reload. Stored drafts are untouched; new seed drafts are inserted.
func (s *Server) SetScenario(scenario *Scenario) error {
	s.mu.Lock()
	s.scenario = scenario
	s.mu.Unlock()

	log.Info(log.CatStore, "scenario reloaded", "schemas", len(scenario.Schemas), "drafts", len(scenario.Drafts))
	return s.seedDrafts(scenario)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /v2/draft_registrations", s.handleListDrafts)
	s.mux.HandleFunc("GET /v2/draft_registrations/{id}", s.handleGetDraft)
	s.mux.HandleFunc("PUT /v2/draft_registrations/{id}", s.handlePutDraft)
	s.mux.HandleFunc("POST /v2/draft_registrations", s.handleCreateDraft)
	s.mux.HandleFunc("GET /v2/schemas/{id}", s.handleGetSchema)
	s.mux.HandleFunc("GET /v2/schemas/{id}/schema_blocks", s.handleGetBlocks)
	s.mux.HandleFunc("GET /v2/files/{id}", s.handleGetFile)
	s.mux.HandleFunc("GET /v2/nodes/{id}/registered_descendants", s.handleGetDescendants)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListDrafts(w http.ResponseWriter, _ *http.Request) {
	drafts, err := s.store.ListDrafts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if drafts == nil {
		drafts = []registration.DraftRecord{}
	}
	writeJSON(w, http.StatusOK, drafts)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetDraft(r.PathValue("id"))
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "draft not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePutDraft(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := s.store.GetDraft(id); errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "draft not found")
		return
	}

	var rec registration.DraftRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft body")
		return
	}
	rec.ID = id
	rec.UpdatedAt = time.Now().UTC()

	if err := s.store.UpsertDraft(rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var rec registration.DraftRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid draft body")
		return
	}

	s.mu.RLock()
	_, ok := s.scenario.SchemaByID(rec.SchemaID)
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown schema "+rec.SchemaID)
		return
	}

	rec.ID = uuid.NewString()
	rec.Submitted = false
	rec.UpdatedAt = time.Now().UTC()
	if rec.RegistrationResponses == nil {
		rec.RegistrationResponses = registration.ResponseMap{}
	}

	if err := s.store.UpsertDraft(rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	sch, ok := s.scenario.SchemaByID(r.PathValue("id"))
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "schema not found")
		return
	}
	writeJSON(w, http.StatusOK, sch)
}

func (s *Server) handleGetBlocks(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.RLock()
	blocks, ok := s.scenario.Blocks[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "schema not found")
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	f, ok := s.scenario.FileByID(r.PathValue("id"))
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleGetDescendants(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	nodes := s.scenario.RegisteredDescendants(r.PathValue("id"))
	s.mu.RUnlock()

	if nodes == nil {
		nodes = []registration.Node{}
	}
	writeJSON(w, http.StatusOK, nodes)
}
