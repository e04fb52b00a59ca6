// Package config provides configuration types, defaults, and persistence for regdraft.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"regdraft/internal/log"
	"regdraft/internal/schema"
)

// APIConfig holds registry API connection settings.
type APIConfig struct {
	// BaseURL is the registry API root, e.g. "http://localhost:8711".
	BaseURL string `mapstructure:"base_url"`

	// DraftID selects the draft registration to edit. When empty the
	// wizard creates a fresh draft and writes the new ID back here.
	DraftID string `mapstructure:"draft_id"`

	// SchemaID is the schema used when creating a fresh draft.
	SchemaID string `mapstructure:"schema_id"`

	// Timeout bounds each API request.
	Timeout time.Duration `mapstructure:"timeout"`
}

// AutosaveConfig holds autosave tuning.
type AutosaveConfig struct {
	// Debounce is the quiet period after the last input before a save
	// fires. Inputs inside the window coalesce into one save.
	Debounce time.Duration `mapstructure:"debounce"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ShowHelpText  bool   `mapstructure:"show_help_text"` // Render block help text under questions
}

// TaxonomyConfig extends the built-in block-type vocabulary. Custom
// schema dialects can add their own type strings per partitioning role
// without code changes.
type TaxonomyConfig struct {
	Headings []string `mapstructure:"headings"`
	Labels   []string `mapstructure:"labels"`
	Inputs   []string `mapstructure:"inputs"`
	Options  []string `mapstructure:"options"`
}

// Build returns the default taxonomy extended with the configured types.
func (t TaxonomyConfig) Build() schema.Taxonomy {
	tax := schema.DefaultTaxonomy()
	for _, bt := range t.Headings {
		tax.Headings[schema.BlockType(bt)] = true
	}
	for _, bt := range t.Labels {
		tax.Labels[schema.BlockType(bt)] = true
	}
	for _, bt := range t.Inputs {
		tax.Inputs[schema.BlockType(bt)] = true
	}
	for _, bt := range t.Options {
		tax.Options[schema.BlockType(bt)] = true
	}
	return tax
}

// ServeConfig holds mock registry server settings for `regdraft serve`.
type ServeConfig struct {
	Addr     string `mapstructure:"addr"`
	Fixtures string `mapstructure:"fixtures"` // Scenario YAML; empty uses the built-in scenario
	DB       string `mapstructure:"db"`       // SQLite draft store path
}

// Config holds all configuration options for regdraft.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
	UI       UIConfig       `mapstructure:"ui"`
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy"`
	Serve    ServeConfig    `mapstructure:"serve"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:  "http://localhost:8711",
			SchemaID: "prereg",
			Timeout:  30 * time.Second,
		},
		Autosave: AutosaveConfig{
			Debounce: 500 * time.Millisecond,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
			ShowHelpText:  true,
		},
		Serve: ServeConfig{
			Addr: "localhost:8711",
			DB:   ".regdraft/drafts.db",
		},
	}
}

// Validate checks a loaded Config for values the wizard cannot run with.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Autosave.Debounce < 0 {
		return fmt.Errorf("autosave.debounce must not be negative")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Regdraft Configuration

# Registry API connection
api:
  base_url: http://localhost:8711
  # draft_id: abc123        # Draft to resume; created and saved back when empty
  schema_id: prereg         # Schema used when creating a fresh draft
  timeout: 30s

# Autosave tuning
autosave:
  debounce: 500ms           # Quiet period before staged edits are saved

# UI settings
ui:
  show_status_bar: true     # Show save/validity status bar at bottom
  markdown_style: dark      # Help text rendering style: "dark" (default) or "light"
  show_help_text: true      # Render block help text under questions

# Block-type taxonomy extensions. The built-in OSF vocabulary is always
# recognized; list extra type strings here per partitioning role.
# taxonomy:
#   headings: [section-heading]
#   inputs: [date-input]

# Mock registry server (regdraft serve)
serve:
  addr: localhost:8711
  db: .regdraft/drafts.db
  # fixtures: scenario.yaml # Scenario file; omit for the built-in scenario
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
