package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/ragdrive/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragdrive/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/ragdrive/internal/adapters/driven/storage/cache"
	"github.com/custodia-labs/ragdrive/internal/adapters/driven/storage/kv"
	"github.com/custodia-labs/ragdrive/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragdrive/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragdrive/internal/connectors/google/drive"
	"github.com/custodia-labs/ragdrive/internal/core/domain"
	"github.com/custodia-labs/ragdrive/internal/core/ports/driven"
	"github.com/custodia-labs/ragdrive/internal/core/services"
	"github.com/custodia-labs/ragdrive/internal/decoders"
	"github.com/custodia-labs/ragdrive/internal/logger"
	"github.com/custodia-labs/ragdrive/internal/postprocessors/chunker"
)

// loadConfigStore opens the config file without validating it.
func loadConfigStore() error {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configStore = store
	return nil
}

// wireServices loads the configuration and builds every service.
// Drive sync and answer synthesis are left nil when not configured.
func wireServices(ctx context.Context) error {
	if err := loadConfigStore(); err != nil {
		return err
	}
	store := configStore
	settings := store.Settings()
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("config %s: %w (fix with: ragdrive config set)", store.Path(), err)
	}

	backend, closer, err := openStore(settings.Storage)
	if err != nil {
		return err
	}
	kvStore := cache.WrapLRU(backend, settings.Storage.CacheSize,
		time.Duration(settings.Storage.CacheTTL), cache.DefaultPrefixes...)

	index := kv.NewIndexStore(kvStore)
	chunks := kv.NewChunkStore(kvStore)
	docs := kv.NewDocumentStore(kvStore)
	outcomes := kv.NewOutcomeStore(kvStore)

	registry := decoders.Default()
	chunk := chunker.FromSettings(settings.Chunking)
	scorer := services.NewScorer(
		services.WithContentWeight(settings.Retrieval.ContentWeight),
		services.WithNameWeight(settings.Retrieval.NameWeight),
	)

	root := ""
	if settings.Drive.RootFolderID != "" {
		root, err = drive.ParseFolderID(settings.Drive.RootFolderID)
		if err != nil {
			_ = closer()
			return fmt.Errorf("drive.root_folder_id: %w", err)
		}
	}

	retrieval := services.NewRetrievalService(index, chunks, docs, chunk, scorer, root, settings.Retrieval.TopK)
	pipeline := services.NewIngestPipeline(registry,
		services.WithBatchSize(settings.Ingest.BatchSize),
		services.WithMinContentLength(settings.Ingest.MinContentLength),
	)

	configStore = store
	defaultRoot = root
	closeServices = closer
	retrievalService = retrieval
	libraryService = services.NewLibraryService(docs, outcomes, pipeline, settings.Ingest.OutcomeLogLimit)
	syncService = nil

	if settings.Drive.IsConfigured() {
		provider, err := drive.NewFromSettings(ctx, settings.Drive)
		if err != nil {
			logger.Warn("Drive sync disabled: %v", err)
		} else {
			syncService = services.NewSyncOrchestrator(provider, registry, chunk, index, chunks, index)
		}
	}

	var synthesizer driven.AnswerSynthesizer
	if settings.LLM.IsConfigured() {
		if g, err := newSynthesizer(ctx, settings.LLM, filepath.Dir(store.Path())); err != nil {
			logger.Warn("Answer synthesis disabled: %v", err)
		} else {
			synthesizer = g
		}
	}
	askService = services.NewAskService(retrieval, synthesizer)

	logger.Debug("Wired services: storage=%s root=%q sync=%t llm=%t",
		settings.Storage.Backend, root, syncService != nil, synthesizer != nil)
	return nil
}

// newSynthesizer creates the Gemini synthesiser with prompts read from
// <dir>/prompts.
func newSynthesizer(ctx context.Context, cfg domain.LLMSettings, dir string) (*gemini.Synthesizer, error) {
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, err
	}
	return gemini.New(ctx, cfg, prompts)
}

// openStore creates the configured key-value backend and its closer.
func openStore(s domain.StorageSettings) (driven.KVStore, func() error, error) {
	if s.Backend == domain.StorageMemory {
		return memory.NewKVStore(), func() error { return nil }, nil
	}

	dataDir := s.DataDir
	if dataDir == "" && configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir, sqlite.WithMaxValueBytes(s.MaxValueBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return store, store.Close, nil
}
