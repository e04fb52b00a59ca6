package testutil

import "regdraft/internal/schema"

// BlockOption configures a block during builder setup.
type BlockOption func(*schema.Block)

// ID overrides the generated block ID.
func ID(id string) BlockOption {
	return func(b *schema.Block) { b.ID = id }
}

// DisplayText sets the block display text.
func DisplayText(text string) BlockOption {
	return func(b *schema.Block) { b.DisplayText = text }
}

// HelpText sets the block help text.
func HelpText(text string) BlockOption {
	return func(b *schema.Block) { b.HelpText = text }
}

// ExampleText sets the block example text.
func ExampleText(text string) BlockOption {
	return func(b *schema.Block) { b.ExampleText = text }
}

// Key sets the registration response key.
func Key(key string) BlockOption {
	return func(b *schema.Block) { b.RegistrationResponseKey = key }
}

// Required marks the block's question as required.
func Required(r bool) BlockOption {
	return func(b *schema.Block) { b.Required = r }
}
