package model

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/samber/lo"
)

// Decode turns raw logits into a prediction. The first maximum wins on ties.
func Decode(logits []float32, classes []string) (*PredictionResponse, error) {
	if !slices.Equal(classes, ClassLabels) {
		return nil, fmt.Errorf("%w: got %q", ErrLabelCount, classes)
	}
	if len(logits) != len(classes) {
		return nil, fmt.Errorf("%w: expected %d logits, got %d", ErrOutputSize, len(classes), len(logits))
	}

	maxIdx := 0
	maxVal := logits[0]
	for i, val := range logits {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil, fmt.Errorf("%w: logit %d is %v", ErrNonFinite, i, val)
		}
		if val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}

	probs := softmax(logits, maxVal)
	predictions := make(map[string]float32, len(classes))
	for i, label := range classes {
		predictions[label] = probs[i]
	}

	return &PredictionResponse{
		Class:       classes[maxIdx],
		Index:       maxIdx,
		Confidence:  probs[maxIdx],
		Predictions: predictions,
	}, nil
}

// softmax shifts by the maximum so exp never overflows.
func softmax(logits []float32, maxVal float32) []float32 {
	out := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxVal))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

// Ranked lists every class score, highest first. Ties sort by label.
func (p *PredictionResponse) Ranked() []ClassScore {
	scores := lo.MapToSlice(p.Predictions, func(label string, score float32) ClassScore {
		return ClassScore{Label: label, Score: score}
	})
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Label < scores[j].Label
	})
	return scores
}
