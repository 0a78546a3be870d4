package preprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransform_FixedShapeForAnyInputSize(t *testing.T) {
	transform := Default()
	sizes := [][2]int{{1, 1}, {224, 224}, {640, 480}, {37, 512}, {1024, 1024}}

	for _, size := range sizes {
		tensor, err := transform.Apply(solid(size[0], size[1], color.Gray{Y: 128}))
		require.NoError(t, err)
		require.Equal(t, []int64{1, 3, 224, 224}, tensor.Shape)
		require.Len(t, tensor.Data, 3*224*224)
		require.Equal(t, transform.Len(), len(tensor.Data))
	}
}

func TestTransform_NormalizesPerChannel(t *testing.T) {
	req := require.New(t)
	transform := Default()

	tensor, err := transform.Apply(solid(50, 70, color.RGBA{R: 255, G: 0, B: 255, A: 255}))
	req.NoError(err)

	plane := 224 * 224
	wantR := (1 - ImageNetMean[0]) / ImageNetStd[0]
	wantG := (0 - ImageNetMean[1]) / ImageNetStd[1]
	wantB := (1 - ImageNetMean[2]) / ImageNetStd[2]

	for _, i := range []int{0, plane / 2, plane - 1} {
		req.InDelta(wantR, tensor.Data[i], 1e-3)
		req.InDelta(wantG, tensor.Data[plane+i], 1e-3)
		req.InDelta(wantB, tensor.Data[2*plane+i], 1e-3)
	}
}

func TestTransform_GrayscaleReplicatedAcrossChannels(t *testing.T) {
	req := require.New(t)
	gray := image.NewGray(image.Rect(0, 0, 300, 300))
	for i := range gray.Pix {
		gray.Pix[i] = 200
	}

	tensor, err := NewTransform(16).Apply(gray)
	req.NoError(err)
	req.Equal([]int64{1, 3, 16, 16}, tensor.Shape)

	plane := 16 * 16
	v := float32(200) / 255
	for c := 0; c < 3; c++ {
		want := (v - ImageNetMean[c]) / ImageNetStd[c]
		req.InDelta(want, tensor.Data[c*plane+7], 1e-3)
	}
}

func TestTransform_DropsAlpha(t *testing.T) {
	req := require.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 255, 255, 255, 128
	}

	tensor, err := NewTransform(4).Apply(img)
	req.NoError(err)
	want := (1 - ImageNetMean[0]) / ImageNetStd[0]
	req.InDelta(want, tensor.Data[0], 1e-3)
}

func TestTransform_FullyTransparentKeepsColour(t *testing.T) {
	req := require.New(t)
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 100, 50, 0
	}

	tensor, err := NewTransform(4).Apply(img)
	req.NoError(err)

	plane := 4 * 4
	want := [3]float32{200, 100, 50}
	for c := 0; c < 3; c++ {
		expected := (want[c]/255 - ImageNetMean[c]) / ImageNetStd[c]
		for i := 0; i < plane; i++ {
			req.InDelta(expected, tensor.Data[c*plane+i], 1e-3)
		}
	}
	// R channel of (200,100,50) after normalization.
	req.InDelta(1.3070, tensor.Data[0], 1e-3)
}

func TestTransform_Rejects(t *testing.T) {
	_, err := Default().Apply(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.ErrorIs(t, err, ErrEmptyImage)

	_, err = Transform{}.Apply(solid(4, 4, color.Black))
	require.Error(t, err)
}
