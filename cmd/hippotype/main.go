// Package main provides the CLI entrypoint for hippotype.
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/hippotype/internal/config"
	"github.com/verte-zerg/hippotype/internal/model"
	"github.com/verte-zerg/hippotype/internal/stats"
	"github.com/verte-zerg/hippotype/internal/textprovider"
	"github.com/verte-zerg/hippotype/internal/tui"
)

const (
	defaultDomain    = "general"
	defaultServerURL = "http://localhost:5000"
	defaultTimeout   = textprovider.DefaultTimeout
)

var (
	practiceDomain  string
	practiceServer  string
	practiceTimeout time.Duration
	practiceOffline bool
	practiceLogFile string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hippotype",
		Short:         "Typing speed trainer with generated passages",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceDomain, "domain", defaultDomain, "passage domain (general, story, coding)")
	rootCmd.Flags().StringVar(&practiceServer, "server", defaultServerURL, "generator server URL")
	rootCmd.Flags().DurationVar(&practiceTimeout, "timeout", defaultTimeout, "passage request timeout")
	rootCmd.Flags().BoolVar(&practiceOffline, "offline", false, "use built-in passages without contacting the server")
	rootCmd.Flags().StringVar(&practiceLogFile, "log-file", "", "write logs to this file")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newDomainsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := practiceConfigFrom(cmd, fileCfg)
	if err != nil {
		return err
	}
	levels, err := fileCfg.Levels.Apply(stats.DefaultLevels)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("hippotype needs an interactive terminal; use 'hippotype fetch' for scripting")
	}

	logger, closeLog, err := openLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	m := tui.NewModel(newProvider(cfg, logger), tui.Options{
		Domain:  cfg.Domain,
		Levels:  levels,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if sum, ok := m.LastSummary(); ok {
		if err := stats.RenderSummary(cmd.OutOrStdout(), sum); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

// practiceConfigFrom merges file values under explicitly set flags.
func practiceConfigFrom(cmd *cobra.Command, fileCfg config.FileConfig) (model.PracticeConfig, error) {
	applyStringConfig(cmd, "domain", &practiceDomain, fileCfg.Practice.Domain)
	applyStringConfig(cmd, "server", &practiceServer, fileCfg.Practice.Server)
	if err := applyDurationConfig(cmd, "timeout", &practiceTimeout, fileCfg.Practice.Timeout); err != nil {
		return model.PracticeConfig{}, err
	}
	applyBoolConfig(cmd, "offline", &practiceOffline, fileCfg.Practice.Offline)

	cfg := model.PracticeConfig{
		Domain:    model.Domain(practiceDomain),
		ServerURL: practiceServer,
		Timeout:   practiceTimeout,
		Offline:   practiceOffline,
		LogFile:   practiceLogFile,
	}
	if err := validatePracticeConfig(cfg); err != nil {
		return model.PracticeConfig{}, err
	}
	return cfg, nil
}

func newProvider(cfg model.PracticeConfig, logger zerolog.Logger) textprovider.Provider {
	if cfg.Offline {
		return textprovider.Static{}
	}
	return textprovider.NewClient(cfg.ServerURL, cfg.Timeout, logger)
}
