// Package schema models registration schema blocks and partitions them
// into wizard pages.
package schema

// BlockType identifies the kind of form element a block renders.
// The set of known types is carried in a Taxonomy rather than switched on
// directly, since schema vocabularies vary between registries.
type BlockType string

// Block types used by the default OSF vocabulary.
const (
	TypePageHeading       BlockType = "page-heading"
	TypeSectionHeading    BlockType = "section-heading"
	TypeSubsectionHeading BlockType = "subsection-heading"
	TypeParagraph         BlockType = "paragraph"
	TypeQuestionLabel     BlockType = "question-label"
	TypeShortTextInput    BlockType = "short-text-input"
	TypeLongTextInput     BlockType = "long-text-input"
	TypeSingleSelectInput BlockType = "single-select-input"
	TypeMultiSelectInput  BlockType = "multi-select-input"
	TypeSelectInputOption BlockType = "select-input-option"
	TypeSelectOtherOption BlockType = "select-other-option"
	TypeContributorsInput BlockType = "contributors-input"
	TypeFileInput         BlockType = "file-input"
)

// Block is an atomic unit of a registration form: a heading, label, input,
// or option. Blocks are immutable once loaded from the schema.
type Block struct {
	ID                      string    `json:"id" yaml:"id"`
	Type                    BlockType `json:"block_type" yaml:"block_type"`
	DisplayText             string    `json:"display_text" yaml:"display_text"`
	HelpText                string    `json:"help_text,omitempty" yaml:"help_text,omitempty"`
	ExampleText             string    `json:"example_text,omitempty" yaml:"example_text,omitempty"`
	RegistrationResponseKey string    `json:"registration_response_key,omitempty" yaml:"registration_response_key,omitempty"`
	Required                bool      `json:"required" yaml:"required"`
	Index                   int       `json:"index" yaml:"index"`
}

// Role describes how a block type participates in page/group partitioning.
type Role int

const (
	// RoleOther blocks attach to whatever page and group are open without
	// starting or ending anything.
	RoleOther Role = iota
	// RoleHeading blocks start a new page.
	RoleHeading
	// RoleLabel blocks open a new group within the current page.
	RoleLabel
	// RoleInput blocks attach to the open group and carry its response key.
	RoleInput
	// RoleOption blocks attach to the open group as selectable values.
	RoleOption
)

// Taxonomy classifies block types into partitioning roles.
// Exact type tag values are configuration: registries that use a different
// vocabulary supply their own taxonomy instead of editing the partitioner.
type Taxonomy struct {
	Headings map[BlockType]bool
	Labels   map[BlockType]bool
	Inputs   map[BlockType]bool
	Options  map[BlockType]bool
}

// DefaultTaxonomy returns the OSF block-type vocabulary.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Headings: map[BlockType]bool{
			TypePageHeading: true,
		},
		Labels: map[BlockType]bool{
			TypeQuestionLabel: true,
		},
		Inputs: map[BlockType]bool{
			TypeShortTextInput:    true,
			TypeLongTextInput:     true,
			TypeSingleSelectInput: true,
			TypeMultiSelectInput:  true,
			TypeContributorsInput: true,
			TypeFileInput:         true,
		},
		Options: map[BlockType]bool{
			TypeSelectInputOption: true,
			TypeSelectOtherOption: true,
		},
	}
}

// RoleOf returns the partitioning role for a block type.
// Unrecognized types map to RoleOther.
func (t Taxonomy) RoleOf(bt BlockType) Role {
	switch {
	case t.Headings[bt]:
		return RoleHeading
	case t.Labels[bt]:
		return RoleLabel
	case t.Inputs[bt]:
		return RoleInput
	case t.Options[bt]:
		return RoleOption
	default:
		return RoleOther
	}
}
