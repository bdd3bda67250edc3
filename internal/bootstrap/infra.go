package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/eac-compliance-desk/internal/config"
	"github.com/kirillkom/eac-compliance-desk/internal/core/ports"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/queue/nats"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/resilience"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/statestore/memory"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/statestore/postgres"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/storage/gcs"
	"github.com/kirillkom/eac-compliance-desk/internal/infrastructure/storage/localfs"
)

func openStateStore(ctx context.Context, cfg config.Config) (ports.StateStore, func(), error) {
	switch cfg.StateBackend {
	case "memory":
		slog.Warn("state_backend_memory", "detail", "state is lost on restart and not shared with the worker")
		return memory.New(), nil, nil
	case "postgres", "":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		store := postgres.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return store, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}

func advisoryExecutor(cfg config.Config, observer resilience.Observer) *resilience.Executor {
	policy := resilience.AdvisoryConfig(cfg.AdvisoryRetryMaxAttempts, cfg.AdvisoryRetryInitialBackoff, cfg.AdvisoryBreakerEnabled)
	var opts []resilience.Option
	if observer != nil {
		opts = append(opts, resilience.WithObserver(observer))
	}
	return resilience.NewExecutor(policy, opts...)
}

func newAdvisor(ctx context.Context, cfg config.Config, observer resilience.Observer) (ports.Advisor, error) {
	executor := advisoryExecutor(cfg, observer)
	switch cfg.AdvisorProvider {
	case "gemini", "":
		return gemini.New(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			BaseURL:     cfg.GeminiBaseURL,
			ChatModel:   cfg.GeminiChatModel,
			VisionModel: cfg.GeminiVisionModel,
		}, executor)
	case "ollama":
		return ollama.NewAdvisor(ollama.New(cfg.OllamaURL, cfg.OllamaModel, executor)), nil
	default:
		return nil, fmt.Errorf("unknown advisor provider %q", cfg.AdvisorProvider)
	}
}

func newEvidenceStorage(ctx context.Context, cfg config.Config) (ports.EvidenceStorage, func(), error) {
	switch cfg.EvidenceBackend {
	case "localfs", "":
		storage, err := localfs.New(cfg.StoragePath, cfg.EvidencePublicURL)
		if err != nil {
			return nil, nil, err
		}
		return storage, nil, nil
	case "gcs":
		storage, err := gcs.New(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() { _ = storage.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown evidence backend %q", cfg.EvidenceBackend)
	}
}

func connectEvents(cfg config.Config, observer resilience.Observer) (*nats.EventBus, error) {
	var opts []resilience.Option
	if observer != nil {
		opts = append(opts, resilience.WithObserver(observer))
	}
	return nats.Connect(cfg.NATSURL, nats.Options{
		Subject:            cfg.NATSSubject,
		QueueGroup:         cfg.NATSQueueGroup,
		ResilienceExecutor: resilience.NewExecutor(resilience.EventBusConfig(), opts...),
	})
}
