// Package bayes implements bag-of-words multinomial Naive Bayes inference
// against a pre-trained model.Artifact: tokenising and counting words,
// accumulating per-class log-scores and turning them into a label with a
// softmax confidence.
package bayes

import "strings"

// isWordRune reports whether r belongs to a token. Only ASCII letters, digits
// and underscore count, matching the tokenizer the models are exported for.
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// Tokenize lowercases text and splits it on runs of non-word characters.
// Empty tokens are never returned.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})
}

// Vectorize counts vocabulary occurrences in text. The result always has
// len(vocab) entries; out-of-vocabulary tokens are ignored.
func Vectorize(text string, vocab map[string]int) []int {
	vec := make([]int, len(vocab))
	if len(vocab) == 0 {
		return vec
	}
	for _, token := range Tokenize(text) {
		if idx, ok := vocab[token]; ok {
			vec[idx]++
		}
	}
	return vec
}
