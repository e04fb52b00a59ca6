package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"regdraft/internal/config"
	"regdraft/internal/log"
	"regdraft/internal/osfapi"
	wizardui "regdraft/internal/ui/wizard"
	"regdraft/internal/wizard"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:     "regdraft",
	Short:   "A terminal wizard for draft registrations",
	Long:    `A terminal user interface for filling in multi-page draft registrations with debounced autosave and per-page validation.`,
	Version: version,
	RunE:    runWizard,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/regdraft/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"enable debug logging")
	rootCmd.Flags().String("api", "",
		"registry API base URL")
	rootCmd.Flags().String("draft", "",
		"draft registration ID to resume")

	// Bind flags to viper
	_ = viper.BindPFlag("api.base_url", rootCmd.Flags().Lookup("api"))
	_ = viper.BindPFlag("api.draft_id", rootCmd.Flags().Lookup("draft"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.schema_id", defaults.API.SchemaID)
	viper.SetDefault("api.timeout", defaults.API.Timeout)
	viper.SetDefault("autosave.debounce", defaults.Autosave.Debounce)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.show_help_text", defaults.UI.ShowHelpText)
	viper.SetDefault("serve.addr", defaults.Serve.Addr)
	viper.SetDefault("serve.db", defaults.Serve.DB)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .regdraft/config.yaml (current directory)
		// 2. ~/.config/regdraft/config.yaml (user config)
		if _, err := os.Stat(".regdraft/config.yaml"); err == nil {
			viper.SetConfigFile(".regdraft/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "regdraft"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .regdraft/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".regdraft/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configFilePath returns the config file in use, defaulting to the
// project-local path when none was loaded.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return ".regdraft/config.yaml"
}

func initLogging(prefix string) (func(), error) {
	debug := os.Getenv("REGDRAFT_DEBUG") != "" || debugFlag
	if !debug {
		return func() {}, nil
	}
	logPath := os.Getenv("REGDRAFT_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "regdraft starting", "debug", true, "logPath", logPath)
	return cleanup, nil
}

func runWizard(cmd *cobra.Command, args []string) error {
	cleanup, err := initLogging("regdraft")
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := osfapi.NewClient(osfapi.ClientConfig{
		BaseURL:    cfg.API.BaseURL,
		DraftID:    cfg.API.DraftID,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
	})

	// No draft configured: create a fresh one and remember it for the
	// next launch.
	if cfg.API.DraftID == "" {
		rec, err := client.CreateDraft(ctx, cfg.API.SchemaID)
		if err != nil {
			return fmt.Errorf("creating draft: %w", err)
		}
		cfg.API.DraftID = rec.ID
		client = osfapi.NewClient(osfapi.ClientConfig{
			BaseURL:    cfg.API.BaseURL,
			DraftID:    rec.ID,
			HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		})
		if err := config.SaveDraftID(configFilePath(), rec.ID); err != nil {
			log.Warn(log.CatConfig, "could not persist draft id", "error", err)
		}
	}

	mgr := wizard.New(wizard.Config{
		Provider: client,
		Blocks:   client,
		Taxonomy: cfg.Taxonomy.Build(),
		Debounce: cfg.Autosave.Debounce,
	})
	defer mgr.Close()

	if err := mgr.Init(ctx); err != nil {
		return fmt.Errorf("initializing draft %s: %w", cfg.API.DraftID, err)
	}

	model := wizardui.New(mgr, wizardui.Options{
		MarkdownStyle: cfg.UI.MarkdownStyle,
		ShowStatusBar: cfg.UI.ShowStatusBar,
		ShowHelpText:  cfg.UI.ShowHelpText,
	})
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
