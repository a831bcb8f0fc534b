// Package app assembles classifiers from binary configuration.
package app

import (
	"fmt"

	analyzer "github.com/FrenchMajesty/text-analyzer"
	"github.com/FrenchMajesty/text-analyzer/internal/config"
	"github.com/FrenchMajesty/text-analyzer/model"
)

// ModelSource returns the S3 source when a bucket is configured and the
// file source otherwise
func ModelSource(cfg config.ModelConfig) (model.Source, error) {
	if !cfg.UseS3() {
		return model.NewFileSource(cfg.Path), nil
	}

	source, err := model.NewS3Source(model.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		Key:       cfg.S3.Key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 model source: %w", err)
	}
	return source, nil
}

// NewSarcasmDetector builds an unloaded sarcasm detector
func NewSarcasmDetector(cfg config.ModelConfig) (*analyzer.SarcasmDetector, error) {
	source, err := ModelSource(cfg)
	if err != nil {
		return nil, err
	}
	return analyzer.NewSarcasmDetector(analyzer.SarcasmConfig{Source: source}), nil
}

// NewPlatformDetector builds an unloaded platform detector. Its clients are
// created from the environment on Load.
func NewPlatformDetector(cfg config.PlatformConfig) *analyzer.PlatformDetector {
	return analyzer.NewPlatformDetector(analyzer.PlatformConfig{
		Namespace:     cfg.Namespace,
		Provider:      cfg.Provider,
		Model:         cfg.Model,
		BaseUrl:       cfg.BaseURL,
		Temperature:   cfg.Temperature,
		Platforms:     cfg.Platforms,
		MinSimilarity: cfg.MinSimilarity,
		LearnFromLLM:  cfg.LearnFromLLM,
	})
}

// NewAnalyzer builds every configured classifier, unloaded
func NewAnalyzer(cfg *config.Config) (*analyzer.Analyzer, error) {
	sarcasm, err := NewSarcasmDetector(cfg.Model)
	if err != nil {
		return nil, err
	}

	classifiers := []analyzer.TextClassifier{sarcasm}
	if cfg.Platform.Enabled {
		classifiers = append(classifiers, NewPlatformDetector(cfg.Platform))
	}

	return analyzer.New(classifiers...)
}
