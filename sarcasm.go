package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FrenchMajesty/text-analyzer/bayes"
	"github.com/FrenchMajesty/text-analyzer/model"
)

// SarcasmDetector serves a pre-trained bag-of-words Naive Bayes model.
type SarcasmDetector struct {
	source model.Source
	labels bayes.LabelMap

	// engine is nil until the first successful Load and is swapped whole on reload
	engine atomic.Pointer[bayes.Engine]
	loadMu sync.Mutex
}

var _ TextClassifier = (*SarcasmDetector)(nil)

// NewSarcasmDetector creates an unloaded detector. Call Load before Predict.
func NewSarcasmDetector(cfg SarcasmConfig) *SarcasmDetector {
	cfg.applyDefaults()

	return &SarcasmDetector{
		source: cfg.Source,
		labels: cfg.Labels,
	}
}

// Name implements TextClassifier
func (d *SarcasmDetector) Name() string {
	return SarcasmClassifierName
}

// Load reads and validates the model. Calling it again reloads the model;
// if the reload fails the previously loaded model keeps serving.
func (d *SarcasmDetector) Load(ctx context.Context) error {
	d.loadMu.Lock()
	defer d.loadMu.Unlock()

	start := time.Now()

	artifact, err := d.source.Load(ctx)
	if err != nil {
		slog.Error("sarcasm model load failed", "error", err)
		return fmt.Errorf("failed to load sarcasm model: %w", err)
	}

	engine, err := bayes.NewEngine(artifact, d.labels)
	if err != nil {
		slog.Error("sarcasm model rejected", "error", err)
		return fmt.Errorf("failed to load sarcasm model: %w", err)
	}

	d.engine.Store(engine)
	slog.Info("sarcasm model loaded",
		"vocab_size", engine.VocabSize(),
		"labels", engine.Labels(),
		"duration", time.Since(start))

	return nil
}

// Loaded reports whether a model is being served
func (d *SarcasmDetector) Loaded() bool {
	return d.engine.Load() != nil
}

// Labels lists the labels Predict can return, or nil before Load
func (d *SarcasmDetector) Labels() []string {
	engine := d.engine.Load()
	if engine == nil {
		return nil
	}
	return engine.Labels()
}

// Predict implements TextClassifier. Once loaded it never fails; empty or
// whitespace-only text is scored from the class priors alone.
func (d *SarcasmDetector) Predict(ctx context.Context, text string) (*Result, error) {
	engine := d.engine.Load()
	if engine == nil {
		return nil, ErrNotLoaded
	}

	start := time.Now()
	r := engine.Classify(text)

	return &Result{
		Classifier: d.Name(),
		Label:      r.Label,
		Confidence: r.Confidence,
		Latency:    time.Since(start),
	}, nil
}
