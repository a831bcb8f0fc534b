package analyzer

import "time"

// Result represents the classification result
type Result struct {
	// Classifier is the name of the classifier that produced the result
	Classifier string

	// Label is the classification category assigned to the text
	Label string

	// Confidence is the softmax probability for the sarcasm model, the exemplar
	// similarity for a platform cache hit, and 0 for an LLM answer
	Confidence float64

	// CacheHit indicates whether a platform was resolved from the exemplar index
	CacheHit bool

	// Latency is the time the caller waited for the prediction
	Latency time.Duration
}

// Metrics provides statistics about the platform detector
type Metrics struct {
	// Predictions is the number of successful predictions
	Predictions int

	// CacheHits is the number of predictions served from the exemplar index
	CacheHits int

	// LLMFallbacks is the number of predictions answered by the LLM
	LLMFallbacks int

	// CacheHitRate is the percentage of predictions served from the exemplar index
	CacheHitRate float32
}
