package osfapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"regdraft/internal/registration"
	"regdraft/internal/schema"
)

func TestStore_UpsertAndGet(t *testing.T) {
	store, err := MemoryStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	rec := registration.DraftRecord{
		ID:       "d1",
		SchemaID: "prereg",
		RegistrationResponses: registration.ResponseMap{
			"q1": "answer",
			"q2": []any{"a", "b"},
		},
	}
	require.NoError(t, store.UpsertDraft(rec))

	got, err := store.GetDraft("d1")
	require.NoError(t, err)
	require.Equal(t, "prereg", got.SchemaID)
	require.Equal(t, "answer", got.RegistrationResponses["q1"])
	require.False(t, got.UpdatedAt.IsZero())

	// Upsert replaces.
	rec.RegistrationResponses["q1"] = "revised"
	rec.Submitted = true
	require.NoError(t, store.UpsertDraft(rec))

	got, err = store.GetDraft("d1")
	require.NoError(t, err)
	require.Equal(t, "revised", got.RegistrationResponses["q1"])
	require.True(t, got.Submitted)
}

func TestStore_ListDraftsNewestFirst(t *testing.T) {
	store, err := MemoryStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	old := registration.DraftRecord{ID: "old", SchemaID: "s", RegistrationResponses: registration.ResponseMap{}, UpdatedAt: time.Now().Add(-time.Hour)}
	fresh := registration.DraftRecord{ID: "fresh", SchemaID: "s", RegistrationResponses: registration.ResponseMap{}, UpdatedAt: time.Now()}
	require.NoError(t, store.UpsertDraft(old))
	require.NoError(t, store.UpsertDraft(fresh))

	drafts, err := store.ListDrafts()
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	require.Equal(t, "fresh", drafts[0].ID)
}

func TestServer_ListDrafts(t *testing.T) {
	store, err := MemoryStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	srv, err := NewServer(DefaultScenario(), store)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v2/draft_registrations")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var drafts []registration.DraftRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&drafts))
	require.Len(t, drafts, 1, "scenario seeds one draft")
	require.Equal(t, "draft-1", drafts[0].ID)
}

func TestServer_SeedKeepsStoredEdits(t *testing.T) {
	store, err := MemoryStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	edited := registration.DraftRecord{
		ID:                    "draft-1",
		SchemaID:              "prereg",
		RegistrationResponses: registration.ResponseMap{"q-hypothesis": "kept"},
	}
	require.NoError(t, store.UpsertDraft(edited))

	_, err = NewServer(DefaultScenario(), store)
	require.NoError(t, err)

	got, err := store.GetDraft("draft-1")
	require.NoError(t, err)
	require.Equal(t, "kept", got.RegistrationResponses["q-hypothesis"], "seeding must not clobber stored drafts")
}

func TestServer_SetScenarioSeedsNewDrafts(t *testing.T) {
	store, err := MemoryStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	srv, err := NewServer(DefaultScenario(), store)
	require.NoError(t, err)

	next := DefaultScenario()
	next.Drafts = append(next.Drafts, registration.DraftRecord{
		ID:                    "draft-2",
		SchemaID:              "prereg",
		RegistrationResponses: registration.ResponseMap{},
	})
	require.NoError(t, srv.SetScenario(next))

	_, err = store.GetDraft("draft-2")
	require.NoError(t, err)
}

func TestLoadScenario(t *testing.T) {
	doc := `
schemas:
  - id: tiny
    name: Tiny Schema
    version: 1
blocks:
  tiny:
    - id: b1
      block_type: page-heading
      display_text: Only Page
    - id: b2
      block_type: question-label
      display_text: Question
    - id: b3
      block_type: short-text-input
      registration_response_key: q1
      required: true
drafts:
  - id: d1
    schema_id: tiny
    registration_responses:
      q1: ""
`
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	require.Len(t, s.Schemas, 1)
	require.Equal(t, "Tiny Schema", s.Schemas[0].Name)
	require.Len(t, s.Blocks["tiny"], 3)
	require.Equal(t, schema.TypePageHeading, s.Blocks["tiny"][0].Type)
	require.True(t, s.Blocks["tiny"][2].Required)
	require.Len(t, s.Drafts, 1)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestScenario_RegisteredDescendants(t *testing.T) {
	s := &Scenario{
		Nodes: []registration.Node{
			{ID: "root"},
			{ID: "a", ParentID: "root", Registered: true},
			{ID: "b", ParentID: "a", Registered: true},
			{ID: "c", ParentID: "root", Registered: false},
			{ID: "other"},
		},
	}

	got := s.RegisteredDescendants("root")
	require.Len(t, got, 2)

	ids := []string{got[0].ID, got[1].ID}
	require.ElementsMatch(t, []string{"a", "b"}, ids)

	require.Empty(t, s.RegisteredDescendants("other"))
}
