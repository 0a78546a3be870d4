package preprocess

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// ImageNet channel statistics the backbone was trained with.
var (
	ImageNetMean = [3]float32{0.485, 0.456, 0.406}
	ImageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Tensor is a single NCHW float32 batch.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// Transform resizes to a square, scales to [0,1], then normalizes per channel.
type Transform struct {
	Size          int
	Mean          [3]float32
	Std           [3]float32
	Interpolation resize.InterpolationFunction
}

func Default() Transform {
	return NewTransform(224)
}

func NewTransform(size int) Transform {
	return Transform{
		Size:          size,
		Mean:          ImageNetMean,
		Std:           ImageNetStd,
		Interpolation: resize.Bilinear,
	}
}

// Len is the number of values Apply produces.
func (t Transform) Len() int {
	return 3 * t.Size * t.Size
}

func (t Transform) Apply(img image.Image) (*Tensor, error) {
	if t.Size <= 0 {
		return nil, fmt.Errorf("invalid transform size %d", t.Size)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	targetSize := uint(t.Size)
	resized := resize.Resize(targetSize, targetSize, opaqueRGB(img), t.Interpolation)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width != t.Size || height != t.Size {
		return nil, fmt.Errorf("resize produced %dx%d, want %dx%d", width, height, t.Size, t.Size)
	}

	plane := width * height
	inputData := make([]float32, 3*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(resized.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)

			pixelIndex := y*width + x
			inputData[pixelIndex] = t.normalize(0, c.R)
			inputData[plane+pixelIndex] = t.normalize(1, c.G)
			inputData[2*plane+pixelIndex] = t.normalize(2, c.B)
		}
	}

	return &Tensor{
		Shape: []int64{1, 3, int64(height), int64(width)},
		Data:  inputData,
	}, nil
}

// opaqueRGB keeps the straight RGB values of every pixel and forces alpha to
// 255, so transparent regions are not blended toward black by the resize.
func opaqueRGB(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			c.A = 255
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

func (t Transform) normalize(channel int, v uint8) float32 {
	return (float32(v)/255.0 - t.Mean[channel]) / t.Std[channel]
}
