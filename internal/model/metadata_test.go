package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMetadata(t *testing.T) {
	req := require.New(t)

	metadata := DefaultMetadata()
	req.NoError(metadata.Validate())
	req.Equal(3*224*224, metadata.InputSize())
	req.Equal(ClassLabels, metadata.Classes)

	// Defaults must not alias the package-level label slice.
	metadata.Classes[0] = "changed"
	req.Equal("Glioma Tumor", ClassLabels[0])
}

func TestLoadMetadata_EmptyPathUsesDefaults(t *testing.T) {
	metadata, err := LoadMetadata("")
	require.NoError(t, err)
	require.Equal(t, DefaultMetadata(), metadata)
}

func TestLoadMetadata_OverridesNames(t *testing.T) {
	req := require.New(t)
	path := writeFile(t, `{"input_name": "pixel_values", "output_name": "logits"}`)

	metadata, err := LoadMetadata(path)
	req.NoError(err)
	req.Equal("pixel_values", metadata.InputName)
	req.Equal("logits", metadata.OutputName)
	req.Equal([]int64{1, 3, 224, 224}, metadata.InputShape)
}

func TestLoadMetadata_Invalid(t *testing.T) {
	tests := []struct {
		description string
		content     string
		wantErr     error
	}{
		{"Should reject three classes", `{"classes": ["a", "b", "c"], "output_shape": [1, 3]}`, ErrLabelCount},
		{"Should reject relabelled classes", `{"classes": ["cat", "dog", "cat", "bird"]}`, ErrLabelCount},
		{"Should reject reordered classes", `{"classes": ["No Tumor", "Glioma Tumor", "Meningioma Tumor", "Pituitary Tumor"]}`, ErrLabelCount},
		{"Should reject five outputs", `{"output_shape": [1, 5]}`, ErrLabelCount},
		{"Should reject a grayscale input", `{"input_shape": [1, 1, 224, 224]}`, ErrInvalidShape},
		{"Should reject mismatched image size", `{"image_size": 256}`, ErrInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := LoadMetadata(writeFile(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadMetadata_BadFile(t *testing.T) {
	_, err := LoadMetadata(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = LoadMetadata(writeFile(t, "{not json"))
	require.Error(t, err)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model_metadata.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
