package model

// ClassLabels is the fixed label set, indexed by the classifier's output unit.
var ClassLabels = []string{"Glioma Tumor", "Meningioma Tumor", "No Tumor", "Pituitary Tumor"}

const (
	NumClasses = 4
	ImageSize  = 224
)

type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
}

type PredictionRequest struct {
	Image []float32 `json:"image"`
}

type PredictionResponse struct {
	Class       string             `json:"class" yaml:"class"`
	Index       int                `json:"index" yaml:"index"`
	Confidence  float32            `json:"confidence" yaml:"confidence"`
	Predictions map[string]float32 `json:"predictions" yaml:"predictions"`
}

type ClassScore struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
}
