package testutil

import "regdraft/internal/schema"

// WithTwoPageSchema adds a minimal two-page questionnaire.
//
// Structure:
//
//	Study Design
//	  └── Hypothesis (short text, required, key q-hypothesis)
//	Data Collection
//	  └── Sample size (short text, required, key q-sample)
func (b *Builder) WithTwoPageSchema() *Builder {
	return b.
		WithPage("Study Design").
		WithQuestion("What is your hypothesis?", schema.TypeShortTextInput, "q-hypothesis", Required(true)).
		WithPage("Data Collection").
		WithQuestion("What is your sample size?", schema.TypeShortTextInput, "q-sample", Required(true))
}

// WithSelectSchema adds a single page with a required single-select
// question and an optional long-text question.
func (b *Builder) WithSelectSchema() *Builder {
	return b.
		WithPage("Methodology").
		WithQuestion("Study type", schema.TypeSingleSelectInput, "q-type", Required(true)).
		WithOptions("Experiment", "Observational", "Meta-analysis").
		WithQuestion("Additional notes", schema.TypeLongTextInput, "q-notes")
}
