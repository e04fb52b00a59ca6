package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"regdraft/internal/schema"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "http://localhost:8711", cfg.API.BaseURL)
	require.Equal(t, "prereg", cfg.API.SchemaID)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, 500*time.Millisecond, cfg.Autosave.Debounce)
	require.True(t, cfg.UI.ShowStatusBar)
	require.Equal(t, "dark", cfg.UI.MarkdownStyle)
	require.Equal(t, "localhost:8711", cfg.Serve.Addr)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: "api.base_url",
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Autosave.Debounce = -time.Second },
			wantErr: "autosave.debounce",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.API.Timeout = -time.Second },
			wantErr: "api.timeout",
		},
		{
			name:   "zero debounce is allowed",
			mutate: func(c *Config) { c.Autosave.Debounce = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTaxonomyConfig_BuildExtendsDefaults(t *testing.T) {
	tc := TaxonomyConfig{
		Headings: []string{"section-heading"},
		Inputs:   []string{"date-input"},
	}
	tax := tc.Build()

	// Built-in vocabulary survives.
	require.Equal(t, schema.RoleHeading, tax.RoleOf(schema.TypePageHeading))
	require.Equal(t, schema.RoleInput, tax.RoleOf(schema.TypeShortTextInput))

	// Extensions are recognized.
	require.Equal(t, schema.RoleHeading, tax.RoleOf(schema.BlockType("section-heading")))
	require.Equal(t, schema.RoleInput, tax.RoleOf(schema.BlockType("date-input")))

	require.Equal(t, schema.RoleOther, tax.RoleOf(schema.BlockType("unknown")))
}

func TestTaxonomyConfig_EmptyBuildIsDefault(t *testing.T) {
	tax := TaxonomyConfig{}.Build()
	def := schema.DefaultTaxonomy()
	require.Equal(t, def, tax)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".regdraft", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// The template must be parseable YAML whose values match Defaults.
	var parsed struct {
		API struct {
			BaseURL string `yaml:"base_url"`
			Timeout string `yaml:"timeout"`
		} `yaml:"api"`
		Autosave struct {
			Debounce string `yaml:"debounce"`
		} `yaml:"autosave"`
	}
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	require.Equal(t, "http://localhost:8711", parsed.API.BaseURL)
	require.Equal(t, "30s", parsed.API.Timeout)
	require.Equal(t, "500ms", parsed.Autosave.Debounce)
}
