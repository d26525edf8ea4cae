package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/factchecker/cinecheck/internal/assistant"
	"github.com/factchecker/cinecheck/internal/config"
	"github.com/factchecker/cinecheck/internal/database"
	"github.com/factchecker/cinecheck/internal/interpret"
	"github.com/factchecker/cinecheck/internal/llm"
	"github.com/factchecker/cinecheck/internal/report"
	"github.com/factchecker/cinecheck/internal/scrape"
	"github.com/factchecker/cinecheck/internal/verify"
)

// app holds the wired components shared by serve and ask.
type app struct {
	engine    *verify.Engine
	assistant *assistant.Assistant
	store     database.Store
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// newEngine builds the verification engine, attaching the language-model
// oracle when it is enabled.
func newEngine(cfg *config.Config, provider llm.Provider) *verify.Engine {
	var oracle verify.JudgeOracle
	if cfg.Oracle.Enabled && provider != nil {
		oracle = verify.NewProviderOracle(provider)
	}
	return verify.NewEngine(cfg, oracle)
}

func newProvider(cfg *config.Config) (llm.Provider, error) {
	if !cfg.UsesLLM() {
		return nil, nil
	}
	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	log.Info().Str("provider", provider.Name()).Str("model", cfg.LLM.Model).Msg("Language model enabled")
	return provider, nil
}

func newApp(cfg *config.Config) (*app, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	store, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var interpreterLLM llm.Provider
	if cfg.Interpreter.UseLLM {
		interpreterLLM = provider
	}

	engine := newEngine(cfg, provider)
	return &app{
		engine: engine,
		assistant: assistant.New(
			interpret.New(cfg, interpreterLLM),
			scrape.NewTMDBClient(cfg),
			engine,
			report.NewWriter(cfg.Reports.Dir),
			store,
		),
		store: store,
	}, nil
}
