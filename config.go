package analyzer

import (
	"strings"

	"github.com/FrenchMajesty/text-analyzer/bayes"
	"github.com/FrenchMajesty/text-analyzer/model"
)

const (
	// SarcasmClassifierName is the registered name of the Naive Bayes sarcasm model
	SarcasmClassifierName = "sarcasm"

	// PlatformClassifierName is the registered name of the platform detector
	PlatformClassifierName = "platform"

	// DefaultModelPath is where the sarcasm model is read from when no source is given
	DefaultModelPath = "./assets/sarcasm_model.json"

	// DefaultMinSimilarity is the default threshold for exemplar similarity matching
	DefaultMinSimilarity = 0.80

	// DefaultPlatformNamespace is the vector index namespace holding platform exemplars
	DefaultPlatformNamespace = "platform"

	// ProviderOpenAI and ProviderGroq select the default LLM backend
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"

	// UnknownPlatform is returned when the LLM answers outside the configured platforms
	UnknownPlatform = "unknown"
)

// DefaultPlatforms returns the platforms the detector distinguishes by default
func DefaultPlatforms() []string {
	return []string{"twitter", "reddit", "facebook", "instagram", "linkedin", "youtube", "tiktok"}
}

// SarcasmConfig holds configuration for the SarcasmDetector
type SarcasmConfig struct {
	// Source loads the model artifact. If nil, reads ModelPath from disk.
	Source model.Source

	// ModelPath is used when Source is nil. If empty, uses DefaultModelPath.
	ModelPath string

	// Labels maps class ids to display labels. If empty, uses bayes.SarcasmLabels.
	Labels bayes.LabelMap
}

// applyDefaults fills in default values for unset config fields
func (c *SarcasmConfig) applyDefaults() {
	if c.Source == nil {
		if c.ModelPath == "" {
			c.ModelPath = DefaultModelPath
		}
		c.Source = model.NewFileSource(c.ModelPath)
	}

	if c.Labels.ByClass == nil && c.Labels.Fallback == "" {
		c.Labels = bayes.SarcasmLabels()
	}
}

// PlatformConfig holds configuration for the PlatformDetector
type PlatformConfig struct {
	// EmbeddingClient generates embeddings for text. If nil, uses the default (Voyage AI).
	EmbeddingClient EmbeddingClient

	// VectorClient searches and stores platform exemplars. If nil, uses the default (Pinecone).
	VectorClient VectorClient

	// Namespace is the exemplar namespace for the default vector client.
	Namespace string

	// LLMClient answers when no exemplar is close enough. If nil, uses the default (OpenAI).
	LLMClient   LLMClient
	Provider    string // ProviderOpenAI (default) or ProviderGroq
	Model       string
	BaseUrl     string
	Temperature *float32 // Optional temperature for LLM. If nil, uses model default.

	// Platforms is the closed set of labels. If empty, uses DefaultPlatforms.
	Platforms []string

	// MinSimilarity is the threshold for exemplar matching (0.0 to 1.0). If 0, uses DefaultMinSimilarity.
	MinSimilarity float32

	// LearnFromLLM stores LLM answers as new exemplars so similar texts hit the index next time.
	LearnFromLLM bool
}

// applyDefaults fills in default values for unset config fields
func (c *PlatformConfig) applyDefaults() {
	if c.MinSimilarity == 0 {
		c.MinSimilarity = DefaultMinSimilarity
	}

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}

	if c.Namespace == "" {
		c.Namespace = DefaultPlatformNamespace
	}

	platforms := make([]string, 0, len(c.Platforms))
	for _, p := range c.Platforms {
		if p = normalizeLabel(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	if len(platforms) == 0 {
		platforms = DefaultPlatforms()
	}
	c.Platforms = platforms
}

// normalizeLabel lowercases a label and strips whitespace, quotes and trailing punctuation
func normalizeLabel(label string) string {
	return strings.ToLower(strings.Trim(label, " \t\r\n\"'`.,;:!"))
}

// normalizeText trims surrounding whitespace from input text
func normalizeText(text string) string {
	return strings.TrimSpace(text)
}
