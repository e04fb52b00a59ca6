// Package osfapi provides the JSON API client the wizard talks to, plus an
// in-process mock server driven by scenario fixtures for development and
// testing.
package osfapi

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"regdraft/internal/registration"
	"regdraft/internal/schema"
)

// Scenario is a fixture document describing everything the mock server
// serves: schemas, their block sequences, nodes, files, and seed drafts.
type Scenario struct {
	Schemas []registration.Schema      `yaml:"schemas"`
	Blocks  map[string][]schema.Block  `yaml:"blocks"` // keyed by schema ID
	Nodes   []registration.Node        `yaml:"nodes"`
	Files   []registration.File        `yaml:"files"`
	Drafts  []registration.DraftRecord `yaml:"drafts"`
}

// LoadScenario reads a scenario fixture from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is an operator-supplied fixtures file
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	return &s, nil
}

// DefaultScenario is the built-in development scenario: one preregistration
// schema with two pages, a project node with one registered component, and
// a seed draft.
func DefaultScenario() *Scenario {
	return &Scenario{
		Schemas: []registration.Schema{
			{ID: "prereg", Name: "OSF Preregistration", Version: 3},
		},
		Blocks: map[string][]schema.Block{
			"prereg": {
				{ID: "b1", Type: schema.TypePageHeading, DisplayText: "Study Information", Index: 0},
				{ID: "b2", Type: schema.TypeQuestionLabel, DisplayText: "Hypothesis", Index: 1},
				{ID: "b3", Type: schema.TypeParagraph, DisplayText: "List your study's hypotheses.", Index: 2},
				{ID: "b4", Type: schema.TypeLongTextInput, RegistrationResponseKey: "q-hypothesis", Required: true, Index: 3},
				{ID: "b5", Type: schema.TypePageHeading, DisplayText: "Design Plan", Index: 4},
				{ID: "b6", Type: schema.TypeQuestionLabel, DisplayText: "Study type", Index: 5},
				{ID: "b7", Type: schema.TypeSingleSelectInput, RegistrationResponseKey: "q-study-type", Required: true, Index: 6},
				{ID: "b8", Type: schema.TypeSelectInputOption, DisplayText: "Experiment", Index: 7},
				{ID: "b9", Type: schema.TypeSelectInputOption, DisplayText: "Observational study", Index: 8},
				{ID: "b10", Type: schema.TypeSelectInputOption, DisplayText: "Meta-analysis", Index: 9},
				{ID: "b11", Type: schema.TypeQuestionLabel, DisplayText: "Study files", Index: 10},
				{ID: "b12", Type: schema.TypeFileInput, RegistrationResponseKey: "q-files", Index: 11},
			},
		},
		Nodes: []registration.Node{
			{ID: "n1", Title: "Example Study", Registered: false},
			{ID: "n2", Title: "Data Component", ParentID: "n1", Registered: true},
		},
		Files: []registration.File{
			{ID: "f1", Name: "protocol.pdf", NodeID: "n1"},
			{ID: "f2", Name: "measures.csv", NodeID: "n2"},
		},
		Drafts: []registration.DraftRecord{
			{
				ID:       "draft-1",
				SchemaID: "prereg",
				RegistrationResponses: registration.ResponseMap{
					"q-hypothesis": "",
					"q-study-type": "",
				},
			},
		},
	}
}

// SchemaByID returns the scenario schema with the given ID.
func (s *Scenario) SchemaByID(id string) (registration.Schema, bool) {
	for _, sch := range s.Schemas {
		if sch.ID == id {
			return sch, true
		}
	}
	return registration.Schema{}, false
}

// FileByID returns the scenario file with the given ID.
func (s *Scenario) FileByID(id string) (registration.File, bool) {
	for _, f := range s.Files {
		if f.ID == id {
			return f, true
		}
	}
	return registration.File{}, false
}

// RegisteredDescendants returns every registered node whose ancestry chain
// reaches nodeID.
func (s *Scenario) RegisteredDescendants(nodeID string) []registration.Node {
	parents := make(map[string]string, len(s.Nodes))
	for _, n := range s.Nodes {
		parents[n.ID] = n.ParentID
	}

	isDescendant := func(id string) bool {
		for cur := parents[id]; cur != ""; cur = parents[cur] {
			if cur == nodeID {
				return true
			}
		}
		return false
	}

	var out []registration.Node
	for _, n := range s.Nodes {
		if n.Registered && isDescendant(n.ID) {
			out = append(out, n)
		}
	}
	return out
}
