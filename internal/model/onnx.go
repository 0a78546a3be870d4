package model

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXRunner executes the exported ResNet-50 graph with ONNX Runtime.
// Input and output tensors are allocated once and reused by every Run.
type ONNXRunner struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func NewONNXRunner(modelPath, sharedLibPath string, metadata Metadata) (*ONNXRunner, error) {
	if sharedLibPath != "" {
		ort.SetSharedLibraryPath(sharedLibPath)
	}
	ownsEnvironment := false
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
		ownsEnvironment = true
	}
	// Only tear down an environment this call brought up.
	releaseEnvironment := func() {
		if ownsEnvironment {
			_ = ort.DestroyEnvironment()
		}
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		releaseEnvironment()
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		releaseEnvironment()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{metadata.InputName}, []string{metadata.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		releaseEnvironment()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXRunner{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Run is not safe for concurrent use; Server serializes calls.
func (r *ONNXRunner) Run(input []float32) ([]float32, error) {
	data := r.inputTensor.GetData()
	if len(input) != len(data) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInputSize, len(data), len(input))
	}
	copy(data, input)

	if err := r.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := r.outputTensor.GetData()
	logits := make([]float32, len(out))
	copy(logits, out)
	return logits, nil
}

func (r *ONNXRunner) Close() {
	if r.inputTensor != nil {
		r.inputTensor.Destroy()
	}
	if r.outputTensor != nil {
		r.outputTensor.Destroy()
	}
	if r.session != nil {
		r.session.Destroy()
	}
	_ = ort.DestroyEnvironment()
}
