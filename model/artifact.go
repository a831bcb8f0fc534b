package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// ErrInvalidArtifact is returned when a model artifact is malformed or its
// dimensions do not line up.
var ErrInvalidArtifact = errors.New("invalid model artifact")

// ClassID identifies a class in the artifact. Exporters write class ids as
// JSON numbers (0, 1) or strings; both are kept as their literal text, with
// numbers canonicalised so that 1, 1.0 and 1e0 compare equal.
type ClassID string

// UnmarshalJSON accepts a JSON number or string.
func (c *ClassID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ClassID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("class id must be a number or a string: %w", err)
	}
	if n == "" {
		// null
		*c = ""
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("class id %s: %w", n, err)
	}
	*c = ClassID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// MarshalJSON writes numeric ids back as numbers.
func (c ClassID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(c), 64); err == nil {
		return []byte(c), nil
	}
	return json.Marshal(string(c))
}

// Artifact is a trained bag-of-words Naive Bayes model. It is read-only once
// validated and may be shared between goroutines.
type Artifact struct {
	// Vocab maps a normalised token to its feature index in [0, V).
	Vocab map[string]int `json:"vocab"`

	// Classes is the canonical class order, length C.
	Classes []ClassID `json:"classes"`

	// ClassLogPrior holds log P(class), length C.
	ClassLogPrior []float64 `json:"class_log_prior"`

	// FeatureLogProb holds log P(word | class) as a C x V matrix.
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// VocabSize returns V, the feature vector dimensionality.
func (a *Artifact) VocabSize() int {
	return len(a.Vocab)
}

// NumClasses returns C.
func (a *Artifact) NumClasses() int {
	return len(a.Classes)
}

// Validate checks every dimensional invariant of the artifact.
func (a *Artifact) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: artifact is nil", ErrInvalidArtifact)
	}
	if a.Vocab == nil {
		return fmt.Errorf("%w: missing vocab", ErrInvalidArtifact)
	}
	if len(a.Classes) == 0 {
		return fmt.Errorf("%w: no classes", ErrInvalidArtifact)
	}

	v := len(a.Vocab)
	seenIdx := make([]bool, v)
	for word, idx := range a.Vocab {
		if idx < 0 || idx >= v {
			return fmt.Errorf("%w: vocab index %d for %q outside [0, %d)", ErrInvalidArtifact, idx, word, v)
		}
		if seenIdx[idx] {
			return fmt.Errorf("%w: vocab index %d assigned twice", ErrInvalidArtifact, idx)
		}
		seenIdx[idx] = true
	}

	c := len(a.Classes)
	seenClass := make(map[ClassID]struct{}, c)
	for i, id := range a.Classes {
		if id == "" {
			return fmt.Errorf("%w: class %d has an empty id", ErrInvalidArtifact, i)
		}
		if _, dup := seenClass[id]; dup {
			return fmt.Errorf("%w: duplicate class id %q", ErrInvalidArtifact, id)
		}
		seenClass[id] = struct{}{}
	}

	if len(a.ClassLogPrior) != c {
		return fmt.Errorf("%w: class_log_prior has %d entries, want %d", ErrInvalidArtifact, len(a.ClassLogPrior), c)
	}
	for i, p := range a.ClassLogPrior {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: class_log_prior[%d] is not finite", ErrInvalidArtifact, i)
		}
	}

	if len(a.FeatureLogProb) != c {
		return fmt.Errorf("%w: feature_log_prob has %d rows, want %d", ErrInvalidArtifact, len(a.FeatureLogProb), c)
	}
	for i, row := range a.FeatureLogProb {
		if len(row) != v {
			return fmt.Errorf("%w: feature_log_prob row %d has %d columns, want %d", ErrInvalidArtifact, i, len(row), v)
		}
		for j, x := range row {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%w: feature_log_prob[%d][%d] is not finite", ErrInvalidArtifact, i, j)
			}
		}
	}

	return nil
}

// Decode reads a JSON artifact from r and validates it.
func Decode(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Parse is Decode for an in-memory document.
func Parse(data []byte) (*Artifact, error) {
	return Decode(bytes.NewReader(data))
}
