package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/hippotype/internal/generator"
	"github.com/verte-zerg/hippotype/internal/model"
)

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func validatePracticeConfig(cfg model.PracticeConfig) error {
	if !model.Known(string(cfg.Domain)) {
		names := make([]string, 0, len(model.Domains()))
		for _, d := range model.Domains() {
			names = append(names, d.String())
		}
		return fmt.Errorf("--domain must be one of: %s", strings.Join(names, ", "))
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if !cfg.Offline {
		if err := validateURL(cfg.ServerURL); err != nil {
			return fmt.Errorf("--server %w", err)
		}
	}
	return nil
}

func validateServerConfig(cfg model.ServerConfig) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("%s is not set; add it to the environment or a .env file (get one from https://console.groq.com/keys)", apiKeyEnv)
	}
	if cfg.Addr == "" {
		return fmt.Errorf("--addr must not be empty")
	}
	if cfg.Model == "" {
		return fmt.Errorf("--model must not be empty")
	}
	if err := validateURL(cfg.BaseURL); err != nil {
		return fmt.Errorf("--base-url %w", err)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("--temperature must be between 0 and 2")
	}
	if cfg.MaxTokens <= 0 {
		return fmt.Errorf("--max-tokens must be > 0")
	}
	if cfg.TopP <= 0 || cfg.TopP > 1 {
		return fmt.Errorf("--top-p must be in (0, 1]")
	}
	if cfg.RateRPS <= 0 {
		return fmt.Errorf("--rate must be > 0")
	}
	if cfg.RateBurst <= 0 {
		return fmt.Errorf("--burst must be > 0")
	}
	if cfg.Cache && cfg.CacheSize <= 0 {
		return fmt.Errorf("--cache-size must be > 0")
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hippotype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# domain = %q          # general, story or coding
# server = %q   # Generator server URL
# timeout = %q              # Passage request timeout
# offline = false             # Use built-in passages only

[server]
# addr = %q               # Listen address
# model = %q
# base-url = %q
# temperature = %.1f
# max-tokens = %d
# top-p = %.1f
# rate = %d                    # Requests per second per client
# burst = %d
# cache = true                # Keep generated passages for outages
# cache-size = %d             # Cached passages per domain

[levels]
# Labels only; thresholds are fixed.
# low = "Below Average"
# standard = ["Beginner", "Improving", "Good", "Great", "Excellent"]
# high = ["Beginner", "Learning", "Improving", "Good", "Great", "Excellent", "Master"]
`,
		defaultDomain,
		defaultServerURL,
		defaultTimeout.String(),
		defaultAddr,
		generator.DefaultModel,
		generator.GroqBaseURL,
		generator.DefaultTemperature,
		generator.DefaultMaxTokens,
		generator.DefaultTopP,
		defaultRate,
		defaultBurst,
		defaultCacheSize,
	)
}
