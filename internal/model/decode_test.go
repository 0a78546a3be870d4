package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_PicksArgmax(t *testing.T) {
	req := require.New(t)

	result, err := Decode([]float32{0.1, 3.2, -1.0, 0.5}, ClassLabels)
	req.NoError(err)
	req.Equal("Meningioma Tumor", result.Class)
	req.Equal(1, result.Index)
	req.Len(result.Predictions, NumClasses)

	var sum float32
	for _, p := range result.Predictions {
		req.GreaterOrEqual(p, float32(0))
		sum += p
	}
	req.InDelta(1.0, sum, 1e-5)
	req.Equal(result.Predictions["Meningioma Tumor"], result.Confidence)
}

func TestDecode_FirstMaximumWinsOnTie(t *testing.T) {
	req := require.New(t)

	result, err := Decode([]float32{2, 2, 2, 2}, ClassLabels)
	req.NoError(err)
	req.Equal("Glioma Tumor", result.Class)
	req.InDelta(0.25, result.Confidence, 1e-6)
}

func TestDecode_LargeLogitsDoNotOverflow(t *testing.T) {
	req := require.New(t)

	result, err := Decode([]float32{1000, 999, -1000, 0}, ClassLabels)
	req.NoError(err)
	req.Equal("Glioma Tumor", result.Class)
	req.False(math.IsNaN(float64(result.Confidence)))
	req.Greater(result.Confidence, float32(0.7))
}

func TestDecode_LabelAlwaysInFixedSet(t *testing.T) {
	inputs := [][]float32{
		{0, 0, 0, 1},
		{-5, -4, -3, -2},
		{9, -9, 9, -9},
		{0.001, 0.002, 0.003, 0.0001},
		{-1e30, -1e30, -1e30, -1e30},
	}
	for _, logits := range inputs {
		result, err := Decode(logits, ClassLabels)
		require.NoError(t, err)
		require.Contains(t, ClassLabels, result.Class)
		require.Equal(t, ClassLabels[result.Index], result.Class)
	}
}

func TestDecode_Errors(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	tests := []struct {
		description string
		logits      []float32
		classes     []string
		wantErr     error
	}{
		{"Should reject too few logits", []float32{1, 2, 3}, ClassLabels, ErrOutputSize},
		{"Should reject too many logits", []float32{1, 2, 3, 4, 5}, ClassLabels, ErrOutputSize},
		{"Should reject NaN", []float32{1, nan, 3, 4}, ClassLabels, ErrNonFinite},
		{"Should reject Inf", []float32{1, 2, inf, 4}, ClassLabels, ErrNonFinite},
		{"Should reject a three-label set", []float32{1, 2, 3}, ClassLabels[:3], ErrLabelCount},
		{"Should reject duplicate labels", []float32{5, 0, 0, 0}, []string{"cat", "dog", "cat", "bird"}, ErrLabelCount},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := Decode(tt.logits, tt.classes)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPredictionResponse_Ranked(t *testing.T) {
	req := require.New(t)

	result, err := Decode([]float32{0, 1, 3, 2}, ClassLabels)
	req.NoError(err)

	ranked := result.Ranked()
	req.Len(ranked, NumClasses)
	req.Equal("No Tumor", ranked[0].Label)
	req.Equal("Pituitary Tumor", ranked[1].Label)
	req.Equal("Meningioma Tumor", ranked[2].Label)
	req.Equal("Glioma Tumor", ranked[3].Label)
}
