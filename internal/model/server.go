package model

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/Brownie44l1/brainiac/internal/model"

// Runner performs one forward pass and returns the raw logits.
type Runner interface {
	Run(input []float32) ([]float32, error)
	Close()
}

// Server owns the single in-memory classifier loaded at startup.
type Server struct {
	Metadata Metadata

	mu     sync.Mutex
	runner Runner
}

type OpenOptions struct {
	ModelPath     string
	MetadataPath  string
	SharedLibPath string
}

// Open loads metadata and the ONNX weights and returns a ready Server.
func Open(opts OpenOptions) (*Server, error) {
	metadata, err := LoadMetadata(opts.MetadataPath)
	if err != nil {
		return nil, err
	}
	runner, err := NewONNXRunner(opts.ModelPath, opts.SharedLibPath, metadata)
	if err != nil {
		return nil, err
	}
	server, err := NewServer(runner, metadata)
	if err != nil {
		runner.Close()
		return nil, err
	}
	return server, nil
}

func NewServer(runner Runner, metadata Metadata) (*Server, error) {
	if err := metadata.Validate(); err != nil {
		return nil, err
	}
	return &Server{
		Metadata: metadata,
		runner:   runner,
	}, nil
}

// Predict runs one synchronous forward pass. Calls are serialized.
func (s *Server) Predict(ctx context.Context, inputData []float32) (*PredictionResponse, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "model.predict")
	defer span.End()

	if expected := s.Metadata.InputSize(); len(inputData) != expected {
		err := fmt.Errorf("%w: expected %d values, got %d", ErrInputSize, expected, len(inputData))
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad input")
		return nil, err
	}

	s.mu.Lock()
	logits, err := s.runner.Run(inputData)
	s.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inference failed")
		return nil, err
	}

	result, err := Decode(logits, s.Metadata.Classes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("brainiac.class", result.Class),
		attribute.Float64("brainiac.confidence", float64(result.Confidence)),
	)
	return result, nil
}

func (s *Server) Close() {
	if s.runner != nil {
		s.runner.Close()
	}
}
