package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/hippotype/internal/config"
	"github.com/verte-zerg/hippotype/internal/model"
	"github.com/verte-zerg/hippotype/internal/textprovider"
)

var (
	fetchDomain  string
	fetchServer  string
	fetchTimeout time.Duration
	fetchStrict  bool
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Print one practice passage",
		Args:  cobra.NoArgs,
		RunE:  runFetchCmd,
	}
	cmd.Flags().StringVar(&fetchDomain, "domain", defaultDomain, "passage domain (general, story, coding)")
	cmd.Flags().StringVar(&fetchServer, "server", defaultServerURL, "generator server URL")
	cmd.Flags().DurationVar(&fetchTimeout, "timeout", defaultTimeout, "request timeout")
	cmd.Flags().BoolVar(&fetchStrict, "strict", false, "fail instead of printing the fallback passage")
	return cmd
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "domain", &fetchDomain, fileCfg.Practice.Domain)
	applyStringConfig(cmd, "server", &fetchServer, fileCfg.Practice.Server)
	if err := applyDurationConfig(cmd, "timeout", &fetchTimeout, fileCfg.Practice.Timeout); err != nil {
		return err
	}
	cfg := model.PracticeConfig{Domain: model.Domain(fetchDomain), ServerURL: fetchServer, Timeout: fetchTimeout}
	if err := validatePracticeConfig(cfg); err != nil {
		return err
	}

	client := textprovider.NewClient(cfg.ServerURL, cfg.Timeout, newLogger(os.Stderr, false))
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	var text string
	if fetchStrict {
		text, err = client.Fetch(ctx, cfg.Domain)
		if err != nil {
			return fmt.Errorf("failed to fetch passage: %w", err)
		}
	} else {
		text = client.PracticeText(ctx, cfg.Domain)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List passage domains",
		Args:  cobra.NoArgs,
		RunE:  runDomainsCmd,
	}
}

func runDomainsCmd(cmd *cobra.Command, _ []string) error {
	for _, d := range model.Domains() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), d); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a file already exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}
