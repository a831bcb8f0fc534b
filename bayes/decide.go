package bayes

import (
	"sort"

	"github.com/FrenchMajesty/text-analyzer/model"
)

// Result is the outcome of a single classification.
type Result struct {
	// Label is the human readable name of the winning class.
	Label string

	// Confidence is the softmax probability of the winning class, in (0, 1].
	Confidence float64

	// Class is the winning class id as it appears in the artifact.
	Class model.ClassID

	// Index is the winning position in the artifact's class order.
	Index int
}

// LabelMap turns class ids into display labels. Classes missing from ByClass
// get Fallback; with no Fallback the class id itself is used.
type LabelMap struct {
	ByClass  map[model.ClassID]string
	Fallback string
}

// SarcasmLabels is the binary mapping used by the sarcasm model: class 1 is
// sarcastic, every other class is not.
func SarcasmLabels() LabelMap {
	return LabelMap{
		ByClass:  map[model.ClassID]string{"1": "sarcastic"},
		Fallback: "not sarcastic",
	}
}

// Label returns the display label for id.
func (m LabelMap) Label(id model.ClassID) string {
	if l, ok := m.ByClass[id]; ok && l != "" {
		return l
	}
	if m.Fallback != "" {
		return m.Fallback
	}
	return string(id)
}

// Labels returns the distinct labels classes can produce, sorted.
func (m LabelMap) Labels(classes []model.ClassID) []string {
	seen := make(map[string]struct{}, len(classes))
	labels := make([]string, 0, len(classes))
	for _, id := range classes {
		l := m.Label(id)
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Decide picks the first class with the highest log-score and reports its
// softmax probability as the confidence.
func Decide(scores []float64, classes []model.ClassID, labels LabelMap) Result {
	m := ArgMax(scores)
	if m < 0 {
		return Result{Index: -1}
	}

	return Result{
		Label:      labels.Label(classes[m]),
		Confidence: Softmax(scores)[m],
		Class:      classes[m],
		Index:      m,
	}
}
