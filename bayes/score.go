package bayes

import "math"

// Score returns one log-score per class: the class log-prior plus count times
// the per-occurrence log-likelihood of every word present in vec. Positions
// are visited in ascending order and zero counts are skipped, which gives the
// same sums as a dense dot product.
//
// Shapes are not checked here; they are guaranteed by model.Artifact.Validate.
func Score(vec []int, classLogPrior []float64, featureLogProb [][]float64) []float64 {
	scores := make([]float64, len(classLogPrior))
	copy(scores, classLogPrior)

	for v, count := range vec {
		if count == 0 {
			continue
		}
		n := float64(count)
		for c := range scores {
			scores[c] += n * featureLogProb[c][v]
		}
	}

	return scores
}

// ArgMax returns the first index holding the largest score, or -1 when scores
// is empty.
func ArgMax(scores []float64) int {
	best := -1
	top := math.Inf(-1)
	for i, s := range scores {
		if best == -1 || s > top {
			best = i
			top = s
		}
	}
	return best
}

// Softmax converts log-scores into a probability distribution. The maximum is
// subtracted before exponentiating so large magnitudes cannot overflow.
func Softmax(scores []float64) []float64 {
	probs := make([]float64, len(scores))
	m := ArgMax(scores)
	if m < 0 {
		return probs
	}

	top := scores[m]
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - top)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
