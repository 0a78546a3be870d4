package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Brownie44l1/brainiac/internal/config"
	"github.com/Brownie44l1/brainiac/internal/handlers"
	"github.com/Brownie44l1/brainiac/internal/model"
	"github.com/Brownie44l1/brainiac/internal/preprocess"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type fileResult struct {
	File       string                    `json:"file" yaml:"file"`
	Prediction *model.PredictionResponse `json:"prediction,omitempty" yaml:"prediction,omitempty"`
	Error      string                    `json:"error,omitempty" yaml:"error,omitempty"`
}

var (
	fileStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F8C8D"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
)

func newClassifyCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "Classify local MRI images",
		Long: `Runs the same decode, resize/normalize and forward pass as the web
interface on local JPEG or PNG files and prints one prediction per file.`,
		Example: `  brainiac classify scan.jpg
  brainiac classify --format yaml scans/*.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" && format != "yaml" {
				return fmt.Errorf("invalid format %q, must be text, json or yaml", format)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			modelServer, err := model.Open(model.OpenOptions{
				ModelPath:     cfg.ModelPath,
				MetadataPath:  cfg.MetadataPath,
				SharedLibPath: cfg.OnnxRuntimeLib,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize model server: %w", err)
			}
			defer modelServer.Close()

			transform := preprocess.NewTransform(modelServer.Metadata.ImageSize)
			results := classifyFiles(cmd.Context(), modelServer, transform, args)
			return writeResults(cmd.OutOrStdout(), format, results)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")

	return cmd
}

// classifyFiles keeps going past unreadable files and reports them per entry.
func classifyFiles(ctx context.Context, predictor handlers.Predictor, transform preprocess.Transform, paths []string) []fileResult {
	results := make([]fileResult, 0, len(paths))
	for _, path := range paths {
		result := fileResult{File: path}
		prediction, err := classifyFile(ctx, predictor, transform, path)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Prediction = prediction
		}
		results = append(results, result)
	}
	return results
}

func classifyFile(ctx context.Context, predictor handlers.Predictor, transform preprocess.Transform, path string) (*model.PredictionResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := preprocess.Decode(data)
	if err != nil {
		return nil, err
	}
	tensor, err := transform.Apply(img)
	if err != nil {
		return nil, err
	}
	return predictor.Predict(ctx, tensor.Data)
}

func writeResults(w io.Writer, format string, results []fileResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(results)
	default:
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(w, "%s  %s\n", fileStyle.Render(filepath.Base(r.File)), errStyle.Render(r.Error))
				continue
			}
			fmt.Fprintf(w, "%s  Predicted Tumor Type: %s %s\n",
				fileStyle.Render(filepath.Base(r.File)),
				labelStyle.Render(r.Prediction.Class),
				scoreStyle.Render(fmt.Sprintf("(%.1f%%)", r.Prediction.Confidence*100)))
		}
		return nil
	}
}
