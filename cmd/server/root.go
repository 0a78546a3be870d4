package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brainiac",
		Short: "MRI tumor classification with a pretrained ResNet-50",
		Long: `Brainiac classifies brain MRI images as Glioma Tumor, Meningioma Tumor,
No Tumor, or Pituitary Tumor.

Run "brainiac serve" for the web interface or "brainiac classify" for local files.
Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newClassifyCmd())

	return cmd
}
