package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/cropwise/internal/decision"
)

type recommendOptions struct {
	crop        string
	waterNeed   float64
	growthDays  int
	health      string
	pest        string
	stage       string
	days        int
	temperature float64
	forecast    string
	model       string
}

type recommendOutput struct {
	decision.Recommendation
	Stage        decision.GrowthStage `json:"growth_stage"`
	DaysElapsed  int                  `json:"days_elapsed"`
	Instructions map[string]any       `json:"instructions"`
}

func newRecommendCommand() *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Produce one recommendation from field signals",
		Long: `Runs the decision engine without a database or weather provider.

Example:
  cropctl recommend --crop Tomato --health poor --pest high --days 42
  cropctl recommend --crop Rice --days 70 --temperature 33 --forecast "clear sky" --model model.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.crop, "crop", "", "Crop name (required)")
	flags.Float64Var(&opts.waterNeed, "water-need", 0, "Weekly water need in litres; omitted uses the crop fallback")
	flags.IntVar(&opts.growthDays, "growth-days", 120, "Total growth days of the crop")
	flags.StringVar(&opts.health, "health", string(decision.HealthGood), "Visual health: excellent, good, fair, poor")
	flags.StringVar(&opts.pest, "pest", string(decision.PestNone), "Pest pressure: none, low, medium, high")
	flags.StringVar(&opts.stage, "stage", "", "Growth stage; derived from --days when omitted")
	flags.IntVar(&opts.days, "days", 0, "Days since planting")
	flags.Float64Var(&opts.temperature, "temperature", 0, "Current temperature in celsius")
	flags.StringVar(&opts.forecast, "forecast", "", "Forecast description, e.g. \"light rain\"")
	flags.StringVar(&opts.model, "model", "", "Path to a model artifact")
	_ = cmd.MarkFlagRequired("crop")

	return cmd
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) error {
	if opts.days < 0 {
		return fmt.Errorf("days must be non-negative: %d", opts.days)
	}

	var bundle *decision.ModelBundle
	if opts.model != "" {
		b, err := decision.LoadBundleFile(opts.model)
		if err != nil {
			return err
		}
		bundle = b
	}

	in := decision.Input{
		Crop: decision.CropProfile{
			Name:            opts.crop,
			TotalGrowthDays: opts.growthDays,
		},
		Observation: &decision.Observation{
			Health: decision.ParseHealth(opts.health),
			Pest:   decision.ParsePestPressure(opts.pest),
		},
		DaysElapsed: opts.days,
	}

	if cmd.Flags().Changed("water-need") {
		in.Crop.WeeklyWaterNeed = &opts.waterNeed
	}

	if opts.stage != "" {
		in.Stage = decision.ParseGrowthStage(opts.stage)
	} else {
		in.Stage = decision.StageFor(opts.days, nil)
	}

	if cmd.Flags().Changed("temperature") || opts.forecast != "" {
		w := decision.NewWeatherSnapshot(opts.temperature, opts.forecast)
		if !cmd.Flags().Changed("temperature") {
			w.Temperature = decision.TempOptimal
		}
		in.Weather = &w
	}

	rec := decision.NewEngine(bundle).Recommend(in)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(recommendOutput{
		Recommendation: rec,
		Stage:          in.Stage,
		DaysElapsed:    in.DaysElapsed,
		Instructions:   rec.Details.Display(rec.Action),
	})
}
