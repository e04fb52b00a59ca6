package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"regdraft/internal/schema"
)

func TestBuilder_AssignsIDsAndIndexes(t *testing.T) {
	blocks := NewBuilder().
		WithPage("First").
		WithQuestion("Q1", schema.TypeShortTextInput, "q1").
		Build()

	require.Len(t, blocks, 3)
	for i, b := range blocks {
		require.Equal(t, i, b.Index)
		require.NotEmpty(t, b.ID)
	}
	require.Equal(t, schema.TypePageHeading, blocks[0].Type)
	require.Equal(t, "First", blocks[0].DisplayText)
	require.Equal(t, schema.TypeQuestionLabel, blocks[1].Type)
	require.Equal(t, "q1", blocks[2].RegistrationResponseKey)
}

func TestBuilder_OptionsApply(t *testing.T) {
	blocks := NewBuilder().
		WithBlock(schema.TypeLongTextInput,
			ID("custom"), Key("q-x"), Required(true),
			HelpText("help"), ExampleText("example")).
		Build()

	require.Len(t, blocks, 1)
	b := blocks[0]
	require.Equal(t, "custom", b.ID)
	require.Equal(t, "q-x", b.RegistrationResponseKey)
	require.True(t, b.Required)
	require.Equal(t, "help", b.HelpText)
	require.Equal(t, "example", b.ExampleText)
}

func TestBuilder_PartitionsCleanly(t *testing.T) {
	blocks := NewBuilder().
		WithPage("Only").
		WithQuestion("Pick one", schema.TypeSingleSelectInput, "q-pick").
		WithOptions("a", "b").
		Build()

	pages := schema.Pages(blocks, schema.DefaultTaxonomy())
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Groups, 1)
	require.Equal(t, []string{"a", "b"}, pages[0].Groups[0].OptionValues())
}

func TestBuilder_BuildCopies(t *testing.T) {
	b := NewBuilder().WithPage("P")
	first := b.Build()
	b.WithQuestion("Q", schema.TypeShortTextInput, "q1")
	second := b.Build()

	require.Len(t, first, 1)
	require.Len(t, second, 3)
}

func TestDraftRecord_NilResponses(t *testing.T) {
	rec := DraftRecord("d1", "s1", nil)
	require.NotNil(t, rec.RegistrationResponses)
	require.Equal(t, "d1", rec.ID)
	require.Equal(t, "s1", rec.SchemaID)
}
