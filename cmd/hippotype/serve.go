package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/hippotype/internal/config"
	"github.com/verte-zerg/hippotype/internal/generator"
	"github.com/verte-zerg/hippotype/internal/model"
	"github.com/verte-zerg/hippotype/internal/server"
	"github.com/verte-zerg/hippotype/internal/stats"
	"github.com/verte-zerg/hippotype/internal/store"
)

const (
	defaultAddr      = ":5000"
	defaultRate      = 5
	defaultBurst     = 10
	defaultCacheSize = store.DefaultLimit
	apiKeyEnv        = "GROQ_API_KEY"
)

var (
	serveAddr        string
	serveModel       string
	serveBaseURL     string
	serveTemperature float64
	serveMaxTokens   int
	serveTopP        float64
	serveRate        int
	serveBurst       int
	serveCache       bool
	serveCacheSize   int
	serveDB          string
	serveEnvFile     string
	serveDebug       bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the passage generator server",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveModel, "model", generator.DefaultModel, "model name")
	cmd.Flags().StringVar(&serveBaseURL, "base-url", generator.GroqBaseURL, "OpenAI-compatible API base URL")
	cmd.Flags().Float64Var(&serveTemperature, "temperature", generator.DefaultTemperature, "sampling temperature (0-2)")
	cmd.Flags().IntVar(&serveMaxTokens, "max-tokens", generator.DefaultMaxTokens, "completion token limit")
	cmd.Flags().Float64Var(&serveTopP, "top-p", generator.DefaultTopP, "nucleus sampling (0-1)")
	cmd.Flags().IntVar(&serveRate, "rate", defaultRate, "requests per second per client on model routes")
	cmd.Flags().IntVar(&serveBurst, "burst", defaultBurst, "request burst per client")
	cmd.Flags().BoolVar(&serveCache, "cache", true, "cache generated passages for outages")
	cmd.Flags().IntVar(&serveCacheSize, "cache-size", defaultCacheSize, "cached passages kept per domain")
	cmd.Flags().StringVar(&serveDB, "db", "", "passage cache path (default: XDG data dir)")
	cmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "dotenv file to load")
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(serveEnvFile); err != nil && cmd.Flags().Changed("env-file") {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := serverConfigFrom(cmd, fileCfg)
	if err != nil {
		return err
	}
	levels, err := fileCfg.Levels.Apply(stats.DefaultLevels)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, serveDebug)
	logger.Info().Msg("Groq API key loaded")

	var cache server.Cache
	if cfg.Cache {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Warn().Err(cerr).Msg("failed to close db")
			}
		}()
		cache = st
	}

	gen := generator.New(generator.NewOpenAI(cfg.APIKey, cfg.BaseURL), generator.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		TopP:        cfg.TopP,
	})
	srv := server.New(gen, cache, server.Config{
		RateRPS:   cfg.RateRPS,
		RateBurst: cfg.RateBurst,
		CacheSize: cfg.CacheSize,
		Levels:    levels,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, cfg.Addr)
}

// serverConfigFrom merges file values under explicitly set flags and reads the
// API key from the environment.
func serverConfigFrom(cmd *cobra.Command, fileCfg config.FileConfig) (model.ServerConfig, error) {
	fc := fileCfg.Server
	applyStringConfig(cmd, "addr", &serveAddr, fc.Addr)
	applyStringConfig(cmd, "model", &serveModel, fc.Model)
	applyStringConfig(cmd, "base-url", &serveBaseURL, fc.BaseURL)
	applyFloatConfig(cmd, "temperature", &serveTemperature, fc.Temperature)
	applyIntConfig(cmd, "max-tokens", &serveMaxTokens, fc.MaxTokens)
	applyFloatConfig(cmd, "top-p", &serveTopP, fc.TopP)
	applyIntConfig(cmd, "rate", &serveRate, fc.Rate)
	applyIntConfig(cmd, "burst", &serveBurst, fc.Burst)
	applyBoolConfig(cmd, "cache", &serveCache, fc.Cache)
	applyIntConfig(cmd, "cache-size", &serveCacheSize, fc.CacheSize)

	dbPath := serveDB
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	cfg := model.ServerConfig{
		Addr:        serveAddr,
		APIKey:      strings.TrimSpace(os.Getenv(apiKeyEnv)),
		BaseURL:     serveBaseURL,
		Model:       serveModel,
		Temperature: serveTemperature,
		MaxTokens:   serveMaxTokens,
		TopP:        serveTopP,
		RateRPS:     serveRate,
		RateBurst:   serveBurst,
		Cache:       serveCache,
		CacheSize:   serveCacheSize,
		DBPath:      dbPath,
	}
	if err := validateServerConfig(cfg); err != nil {
		return model.ServerConfig{}, err
	}
	return cfg, nil
}
