package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/cropwise/internal/decision"
)

type modelSummary struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Classes int               `json:"classes"`
	Scaled  bool              `json:"scaled"`
	Actions []decision.Action `json:"actions"`
}

func newModelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Work with decision model artifacts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "inspect <file>",
		Short: "Validate an artifact and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelInspect,
	})

	return cmd
}

func runModelInspect(cmd *cobra.Command, args []string) error {
	bundle, err := decision.LoadBundleFile(args[0])
	if err != nil {
		return err
	}

	summary := modelSummary{
		Name:    bundle.Name,
		Version: bundle.Version,
		Classes: bundle.Classifier.Classes(),
		Scaled:  bundle.Scaler != nil,
	}

	for i := range summary.Classes {
		code := i
		if bundle.Labels != nil {
			code = bundle.Labels[i]
		}
		summary.Actions = append(summary.Actions, decision.DecodeAction(code))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
