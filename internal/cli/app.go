package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wslanalytics/pressbox/internal/cache"
	"github.com/wslanalytics/pressbox/internal/llm"
	"github.com/wslanalytics/pressbox/internal/model"
	"github.com/wslanalytics/pressbox/internal/pipeline"
	"github.com/wslanalytics/pressbox/internal/store"
)

// loadConfig builds the effective configuration: defaults, overridden by
// the config file and PRESSBOX_* environment, topped up with the
// conventional provider environment variables.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DB.URL == "" {
		cfg.DB.URL = os.Getenv("DATABASE_URL")
	}

	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.LLM.Provider == "ollama" {
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
			cfg.LLM.BaseURL = base
		}
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg, nil
}

// buildPipeline assembles the pipeline from configuration. The returned
// cleanup closes the database pool; it is safe to call when no database
// is configured.
func buildPipeline(ctx context.Context, cfg *model.Config) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	var st store.Store
	if cfg.DB.Configured() {
		pg, err := store.NewPostgres(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			zap.L().Warn("migrate articles table", zap.Error(err))
		}
		st = pg
		cleanup = pg.Close
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}

	writer, err := llm.NewWriter(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("configure llm: %w", err)
	}
	var gen pipeline.Generator
	if writer != nil {
		gen = writer
	}

	return pipeline.New(st, c, gen, cfg), cleanup, nil
}
