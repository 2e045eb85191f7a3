package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labor_claim_generator/config"
	"labor_claim_generator/generator"
	"labor_claim_generator/logger"
	"labor_claim_generator/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	addr := flag.String("addr", "", "listen address, overrides config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	llm, err := buildLLM(&cfg.LLM)
	if err != nil {
		slog.Error("build llm client", "error", err)
		os.Exit(1)
	}

	pipeline, err := generator.New(llm, generator.Options{
		TotalBudget:      time.Duration(cfg.Pipeline.TotalBudgetSeconds) * time.Second,
		VerifierMin:      time.Duration(cfg.Pipeline.VerifierMinSeconds) * time.Second,
		ProgressInterval: time.Duration(cfg.Pipeline.ProgressIntervalMillis) * time.Millisecond,
	})
	if err != nil {
		slog.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	firmPatterns := loadCorpus(cfg.Reference.FirmPatternsPath)
	legalCitations := loadCorpus(cfg.Reference.LegalCitationsPath)

	srv := server.New(pipeline, firmPatterns, legalCitations)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr, "llm_provider", cfg.LLM.Provider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

// buildLLM selects the model client. The deepseek provider reuses the OpenAI
// client with a different base URL.
func buildLLM(cfg *config.LLMConfig) (generator.LLMClient, error) {
	switch cfg.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.Provider,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
		})
	case "deepseek":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.deepseek.com/v1"
		}
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.Provider,
			Model:    cfg.Model,
			APIKey:   cfg.APIKey,
			BaseURL:  baseURL,
		})
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// loadCorpus reads an optional reference file; a missing path just yields an
// empty corpus.
func loadCorpus(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("reference corpus not loaded", "path", path, "error", err)
		return ""
	}
	return string(data)
}
