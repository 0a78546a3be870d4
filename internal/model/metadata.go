package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// DefaultMetadata describes the ResNet-50 export with a four-way head.
func DefaultMetadata() Metadata {
	return Metadata{
		InputShape:  []int64{1, 3, ImageSize, ImageSize},
		OutputShape: []int64{1, NumClasses},
		Classes:     slices.Clone(ClassLabels),
		ImageSize:   ImageSize,
		InputName:   "input",
		OutputName:  "output",
	}
}

// LoadMetadata reads a JSON sidecar. Fields it leaves out keep their defaults.
func LoadMetadata(path string) (Metadata, error) {
	metadata := DefaultMetadata()
	if path == "" {
		return metadata, nil
	}

	metaFile, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := metadata.Validate(); err != nil {
		return Metadata{}, err
	}
	return metadata, nil
}

func (m Metadata) Validate() error {
	if len(m.Classes) != NumClasses {
		return fmt.Errorf("%w: got %d", ErrLabelCount, len(m.Classes))
	}
	if !slices.Equal(m.Classes, ClassLabels) {
		return fmt.Errorf("%w: got %q, want %q", ErrLabelCount, m.Classes, ClassLabels)
	}
	if got := product(m.OutputShape); got != NumClasses {
		return fmt.Errorf("%w: output shape %v holds %d values", ErrLabelCount, m.OutputShape, got)
	}
	if len(m.InputShape) != 4 || m.InputShape[0] != 1 || m.InputShape[1] != 3 {
		return fmt.Errorf("%w: input shape %v, want [1 3 H W]", ErrInvalidShape, m.InputShape)
	}
	if m.InputShape[2] != int64(m.ImageSize) || m.InputShape[3] != int64(m.ImageSize) {
		return fmt.Errorf("%w: input shape %v does not match image size %d", ErrInvalidShape, m.InputShape, m.ImageSize)
	}
	if m.InputName == "" || m.OutputName == "" {
		return fmt.Errorf("%w: input and output names are required", ErrInvalidShape)
	}
	return nil
}

// InputSize is the number of float32 values one forward pass consumes.
func (m Metadata) InputSize() int {
	return product(m.InputShape)
}

func product(shape []int64) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, dim := range shape {
		n *= int(dim)
	}
	return n
}
