package detection

import "math"

// candidate is a face found by the detector before emotion analysis.
type candidate struct {
	Face       FaceRegion
	Confidence float64
}

// selectBest picks the face to analyse when several are found.
// Priority: confidence * 0.7 + relative area * 0.3.
func selectBest(cands []candidate) (candidate, bool) {
	if len(cands) == 0 {
		return candidate{}, false
	}
	if len(cands) == 1 {
		return cands[0], true
	}

	maxArea := 0
	for _, c := range cands {
		if a := c.Face.Area(); a > maxArea {
			maxArea = a
		}
	}

	best := 0
	bestScore := -1.0
	for i, c := range cands {
		score := c.Confidence*0.7 + float64(c.Face.Area())/float64(maxArea)*0.3
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return cands[best], true
}

// softmax converts raw network scores to probabilities.
func softmax(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	maxV := scores[0]
	for _, s := range scores[1:] {
		maxV = math.Max(maxV, s)
	}

	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxV)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// argmax returns the index of the largest value, or -1 for an empty slice.
func argmax(v []float64) int {
	best := -1
	for i := range v {
		if best < 0 || v[i] > v[best] {
			best = i
		}
	}
	return best
}
