package bayes

import (
	"fmt"

	"github.com/FrenchMajesty/text-analyzer/model"
)

// Engine binds a validated artifact to a label mapping. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	artifact *model.Artifact
	labels   LabelMap
}

// NewEngine validates the artifact and returns an engine serving it. The
// artifact must not be modified afterwards.
func NewEngine(artifact *model.Artifact, labels LabelMap) (*Engine, error) {
	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}
	return &Engine{
		artifact: artifact,
		labels:   labels,
	}, nil
}

// Classify vectorizes text, scores it and returns the winning label. It never
// fails: empty or out-of-vocabulary input scores as the class priors.
func (e *Engine) Classify(text string) Result {
	return Decide(e.Scores(text), e.artifact.Classes, e.labels)
}

// Scores returns the raw per-class log-scores for text, in class order.
func (e *Engine) Scores(text string) []float64 {
	vec := Vectorize(text, e.artifact.Vocab)
	return Score(vec, e.artifact.ClassLogPrior, e.artifact.FeatureLogProb)
}

// Labels lists every label the engine can return.
func (e *Engine) Labels() []string {
	return e.labels.Labels(e.artifact.Classes)
}

// VocabSize returns the feature dimensionality of the loaded model.
func (e *Engine) VocabSize() int {
	return e.artifact.VocabSize()
}
