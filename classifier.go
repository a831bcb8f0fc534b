package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FrenchMajesty/text-analyzer/adapters"
	"github.com/google/uuid"
)

const (
	metadataText     = "vector_text"
	metadataPlatform = "platform"
	metadataOrigin   = "origin"

	originSeed = "seed"
	originLLM  = "llm"
)

// PlatformDetector guesses which social platform a text was written for.
// It first looks for a close exemplar in a vector index and falls back to an
// LLM constrained to a fixed set of platforms.
type PlatformDetector struct {
	cfg           PlatformConfig
	embedding     EmbeddingClient
	vector        VectorClient
	llm           LLMClient
	platforms     map[string]struct{}
	minSimilarity float32
	learn         bool

	loaded atomic.Bool
	loadMu sync.Mutex

	// Metrics tracking
	totalPredictions int
	cacheHits        int
	llmFallbacks     int
	metricsLock      sync.RWMutex

	// Background task tracking for graceful shutdown
	backgroundTasks sync.WaitGroup
	shutdownOnce    sync.Once
	closing         bool
	closeLock       sync.RWMutex
}

var _ TextClassifier = (*PlatformDetector)(nil)

// NewPlatformDetector creates an unloaded detector. Clients missing from cfg
// are created from the environment by Load.
func NewPlatformDetector(cfg PlatformConfig) *PlatformDetector {
	cfg.applyDefaults()

	platforms := make(map[string]struct{}, len(cfg.Platforms))
	for _, p := range cfg.Platforms {
		platforms[p] = struct{}{}
	}

	return &PlatformDetector{
		cfg:           cfg,
		platforms:     platforms,
		minSimilarity: cfg.MinSimilarity,
		learn:         cfg.LearnFromLLM,
	}
}

// Name implements TextClassifier
func (d *PlatformDetector) Name() string {
	return PlatformClassifierName
}

// Platforms returns the configured platform labels
func (d *PlatformDetector) Platforms() []string {
	return append([]string(nil), d.cfg.Platforms...)
}

// Load initializes the embedding, vector and LLM clients. It is safe to call
// more than once; later calls are no-ops.
func (d *PlatformDetector) Load(ctx context.Context) error {
	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	if d.loaded.Load() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Initialize clients
	var embeddingClient EmbeddingClient
	if d.cfg.EmbeddingClient != nil {
		embeddingClient = d.cfg.EmbeddingClient
	} else {
		client, err := adapters.NewVoyageEmbeddingAdapter(nil)
		if err != nil {
			return fmt.Errorf("failed to create default embedding client: %w", err)
		}
		embeddingClient = client
	}

	var vectorClient VectorClient
	if d.cfg.VectorClient != nil {
		vectorClient = d.cfg.VectorClient
	} else {
		client, err := adapters.NewPineconeVectorAdapter(nil, nil, d.cfg.Namespace)
		if err != nil {
			return fmt.Errorf("failed to create default vector client: %w", err)
		}
		vectorClient = client
	}

	var llmClient LLMClient
	if d.cfg.LLMClient != nil {
		llmClient = d.cfg.LLMClient
	} else {
		client, err := d.defaultLLMClient()
		if err != nil {
			return fmt.Errorf("failed to create default LLM client: %w", err)
		}
		llmClient = client
	}

	d.embedding = embeddingClient
	d.vector = vectorClient
	d.llm = llmClient
	d.loaded.Store(true)

	slog.Info("platform detector loaded", "platforms", d.cfg.Platforms, "min_similarity", d.minSimilarity)
	return nil
}

func (d *PlatformDetector) defaultLLMClient() (LLMClient, error) {
	prompt := adapters.PlatformSystemPrompt(d.cfg.Platforms, UnknownPlatform)

	switch d.cfg.Provider {
	case ProviderOpenAI:
		return adapters.NewDefaultLLMClient(nil, prompt, d.cfg.Model, d.cfg.BaseUrl, d.cfg.Temperature)
	case ProviderGroq:
		return adapters.NewGroqLLMClient(nil, prompt, d.cfg.Model, d.cfg.Temperature)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", d.cfg.Provider)
	}
}

// Predict implements TextClassifier
func (d *PlatformDetector) Predict(ctx context.Context, text string) (*Result, error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	defer d.backgroundTasks.Done()

	text = normalizeText(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	start := time.Now()

	// Step 1: Generate embedding for this text
	embedding, err := d.embedding.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	// Step 2: Search the exemplar index for similar text
	matches, err := d.vector.Search(ctx, embedding, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to search exemplar index: %w", err)
	}

	if len(matches) > 0 && matches[0].Score >= d.minSimilarity {
		platform := normalizeLabel(matches[0].MetadataString(metadataPlatform))
		if platform == "" {
			return nil, fmt.Errorf("exemplar %s missing platform metadata", matches[0].ID)
		}

		d.recordCacheHit()

		return &Result{
			Classifier: d.Name(),
			Label:      d.resolve(platform),
			Confidence: float64(matches[0].Score),
			CacheHit:   true,
			Latency:    time.Since(start),
		}, nil
	}

	// No close exemplar - ask the LLM
	label, err := d.llm.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to classify with LLM: %w", err)
	}

	label = normalizeLabel(label)
	if label == "" {
		return nil, fmt.Errorf("LLM returned empty label")
	}

	platform := d.resolve(label)
	latency := time.Since(start)
	d.recordFallback()

	if d.learn && platform != UnknownPlatform {
		if err := d.storeExemplar(ctx, text, embedding, platform, originLLM); err != nil {
			// The prediction itself succeeded; a missing exemplar only costs a future LLM call
			slog.Warn("failed to store platform exemplar", "platform", platform, "error", err)
		}
	}

	return &Result{
		Classifier: d.Name(),
		Label:      platform,
		Latency:    latency,
	}, nil
}

// AddExample seeds the exemplar index with text known to come from platform
func (d *PlatformDetector) AddExample(ctx context.Context, text string, platform string) error {
	if err := d.begin(); err != nil {
		return err
	}
	defer d.backgroundTasks.Done()

	text = normalizeText(text)
	if text == "" {
		return ErrEmptyText
	}

	platform = normalizeLabel(platform)
	if _, ok := d.platforms[platform]; !ok {
		return fmt.Errorf("unsupported platform %q", platform)
	}

	embedding, err := d.embedding.GenerateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	return d.storeExemplar(ctx, text, embedding, platform, originSeed)
}

// storeExemplar stores the text embedding in the vector database
func (d *PlatformDetector) storeExemplar(ctx context.Context, text string, embedding []float32, platform string, origin string) error {
	id := uuid.New().String()
	metadata := map[string]any{
		metadataText:     text,
		metadataPlatform: platform,
		metadataOrigin:   origin,
	}
	if err := d.vector.Upsert(ctx, id, embedding, metadata); err != nil {
		return fmt.Errorf("failed to upsert exemplar: %w", err)
	}
	return nil
}

// resolve maps a label onto the configured platform set
func (d *PlatformDetector) resolve(label string) string {
	if _, ok := d.platforms[label]; ok {
		return label
	}
	return UnknownPlatform
}

// begin checks that the detector is loaded and not shutting down, then
// registers the caller with backgroundTasks. Callers must call Done when a
// nil error is returned. Registering under closeLock means Close cannot
// finish waiting while a request that passed the check is still running.
func (d *PlatformDetector) begin() error {
	d.closeLock.RLock()
	defer d.closeLock.RUnlock()
	if d.closing {
		return ErrClosed
	}
	if !d.loaded.Load() {
		return ErrNotLoaded
	}
	d.backgroundTasks.Add(1)
	return nil
}

// Close gracefully shuts down the detector, waiting for in-flight predictions
// and exemplar writes to complete. It's safe to call Close multiple times.
func (d *PlatformDetector) Close() error {
	d.shutdownOnce.Do(func() {
		// Mark as closing to reject new predictions
		d.closeLock.Lock()
		d.closing = true
		d.closeLock.Unlock()

		d.backgroundTasks.Wait()
	})

	return nil
}

// GetMetrics returns current prediction metrics
func (d *PlatformDetector) GetMetrics() Metrics {
	d.metricsLock.RLock()
	defer d.metricsLock.RUnlock()

	var cacheHitRate float32
	if d.totalPredictions > 0 {
		cacheHitRate = float32(d.cacheHits) / float32(d.totalPredictions) * 100
	}

	return Metrics{
		Predictions:  d.totalPredictions,
		CacheHits:    d.cacheHits,
		LLMFallbacks: d.llmFallbacks,
		CacheHitRate: cacheHitRate,
	}
}

// recordCacheHit records an exemplar hit for metrics
func (d *PlatformDetector) recordCacheHit() {
	d.metricsLock.Lock()
	defer d.metricsLock.Unlock()
	d.totalPredictions++
	d.cacheHits++
}

// recordFallback records an LLM answer for metrics
func (d *PlatformDetector) recordFallback() {
	d.metricsLock.Lock()
	defer d.metricsLock.Unlock()
	d.totalPredictions++
	d.llmFallbacks++
}
