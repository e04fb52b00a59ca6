// Package registration holds the draft-registration domain model and the
// collaborator interfaces the wizard consumes.
package registration

import (
	"context"
	"time"

	"regdraft/internal/schema"
)

// Value is a single registration response: a string for text inputs, a
// []string for multi-select inputs. Stored as any to match the loose JSON
// shape of the registrationResponses document.
type Value = any

// ResponseMap maps registration response keys to the user's current answer.
// One instance is shared per draft; the wizard manager is its sole writer
// after construction.
type ResponseMap map[string]Value

// Clone returns a shallow copy of the map.
func (m ResponseMap) Clone() ResponseMap {
	out := make(ResponseMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Schema identifies a registration schema (e.g. "OSF Preregistration v3").
type Schema struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Version int    `json:"version" yaml:"version"`
}

// Draft is the in-progress submission: the unit of persistence.
// Implementations wrap a remote resource; Save pushes the current
// RegistrationResponses back to it.
type Draft interface {
	ID() string
	RegistrationResponses() ResponseMap
	SetRegistrationResponses(ResponseMap)
	Schema(ctx context.Context) (Schema, error)
	Save(ctx context.Context) error
}

// DraftProvider resolves the draft resource the wizard should edit.
// Resolution is asynchronous on the remote side, so it takes a context.
type DraftProvider interface {
	ResolveDraft(ctx context.Context) (Draft, error)
}

// BlockLoader loads the full ordered block collection for a schema.
type BlockLoader interface {
	SchemaBlocks(ctx context.Context, s Schema) ([]schema.Block, error)
}

// Node is a minimal projection of a project node, enough for the file
// validator to walk registered descendants.
type Node struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	ParentID   string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Registered bool   `json:"registered" yaml:"registered"`
}

// File is a file attached to a node, as referenced by file-input responses.
type File struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	NodeID string `json:"node_id" yaml:"node_id"`
}

// FileReloader re-fetches a file by ID so validators observe its current
// state rather than the possibly stale value embedded in a response.
type FileReloader interface {
	ReloadFile(ctx context.Context, id string) (File, error)
}

// NodeLister exposes the registered-descendant set of a node.
type NodeLister interface {
	RegisteredDescendants(ctx context.Context, nodeID string) ([]Node, error)
}

// DraftRecord is the wire/storage shape of a draft registration.
type DraftRecord struct {
	ID                    string      `json:"id" yaml:"id"`
	SchemaID              string      `json:"schema_id" yaml:"schema_id"`
	RegistrationResponses ResponseMap `json:"registration_responses" yaml:"registration_responses"`
	Submitted             bool        `json:"submitted" yaml:"submitted"`
	UpdatedAt             time.Time   `json:"updated_at" yaml:"updated_at"`
}
