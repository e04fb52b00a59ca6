// Package testutil provides builders for schema-block fixtures used
// across wizard and UI tests.
package testutil

import (
	"fmt"

	"regdraft/internal/registration"
	"regdraft/internal/schema"
)

// Builder accumulates schema blocks in display order.
type Builder struct {
	blocks []schema.Block
	nextID int
}

// NewBuilder creates an empty block builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithBlock appends a raw block of the given type.
func (b *Builder) WithBlock(bt schema.BlockType, opts ...BlockOption) *Builder {
	b.nextID++
	block := schema.Block{
		ID:   fmt.Sprintf("b%d", b.nextID),
		Type: bt,
	}
	for _, opt := range opts {
		opt(&block)
	}
	b.blocks = append(b.blocks, block)
	return b
}

// WithPage appends a page heading.
func (b *Builder) WithPage(heading string, opts ...BlockOption) *Builder {
	return b.WithBlock(schema.TypePageHeading, append([]BlockOption{DisplayText(heading)}, opts...)...)
}

// WithQuestion appends a label block followed by an input block bound
// to the given response key.
func (b *Builder) WithQuestion(label string, inputType schema.BlockType, key string, opts ...BlockOption) *Builder {
	b.WithBlock(schema.TypeQuestionLabel, DisplayText(label))
	return b.WithBlock(inputType, append([]BlockOption{Key(key)}, opts...)...)
}

// WithOptions appends one select option block per value. Options attach
// to the most recent select input during partitioning.
func (b *Builder) WithOptions(values ...string) *Builder {
	for _, v := range values {
		b.WithBlock(schema.TypeSelectInputOption, DisplayText(v))
	}
	return b
}

// Build returns the accumulated blocks with display indexes assigned.
func (b *Builder) Build() []schema.Block {
	out := make([]schema.Block, len(b.blocks))
	copy(out, b.blocks)
	for i := range out {
		out[i].Index = i
	}
	return out
}

// DraftRecord returns a draft record seeded with the given responses.
func DraftRecord(id, schemaID string, responses registration.ResponseMap) registration.DraftRecord {
	if responses == nil {
		responses = registration.ResponseMap{}
	}
	return registration.DraftRecord{
		ID:                    id,
		SchemaID:              schemaID,
		RegistrationResponses: responses,
	}
}
