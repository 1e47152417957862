package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/cropwise/internal/config"
	"github.com/JaimeStill/cropwise/internal/patterns"
	"github.com/JaimeStill/cropwise/pkg/database"
)

type exportOptions struct {
	output   string
	cropType string
	stage    string
	action   string
	since    string
	until    string
	timeout  time.Duration
}

// filters goes through the same parsing as the HTTP export so both accept
// identical values.
func (o *exportOptions) filters() patterns.Filters {
	values := url.Values{}
	for key, v := range map[string]string{
		"crop_type":          o.cropType,
		"growth_stage":       o.stage,
		"recommended_action": o.action,
		"since":              o.since,
		"until":              o.until,
	} {
		if v != "" {
			values.Set(key, v)
		}
	}
	return patterns.FiltersFromQuery(values)
}

func newPatternsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Work with recorded decision patterns",
	}

	cmd.AddCommand(newPatternsExportCommand())
	return cmd
}

func newPatternsExportCommand() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export decision patterns as CSV training data",
		Long: `Reads decision patterns from the configured database and writes them as CSV,
oldest first. Database settings come from config.toml and CROPWISE_DB_* variables.

Example:
  cropctl patterns export -o patterns.csv --crop Tomato
  cropctl patterns export --since 2026-06-01 --until 2026-07-01 > june.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatternsExport(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output file; stdout when omitted")
	flags.StringVar(&opts.cropType, "crop", "", "Only export this crop type")
	flags.StringVar(&opts.stage, "stage", "", "Only export this growth stage")
	flags.StringVar(&opts.action, "action", "", "Only export this recommended action")
	flags.StringVar(&opts.since, "since", "", "Only export patterns recorded at or after this date or RFC 3339 time")
	flags.StringVar(&opts.until, "until", "", "Only export patterns recorded before this date or RFC 3339 time")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Export timeout")

	return cmd
}

func runPatternsExport(cmd *cobra.Command, opts *exportOptions) error {
	filters := opts.filters()
	if err := filters.Validate(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return err
	}
	conn := db.Connection()
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	sys := patterns.New(conn, logger, cfg.API.Pagination)
	n, err := sys.Export(ctx, w, filters)
	if err != nil {
		return fmt.Errorf("export patterns: %w", err)
	}

	logger.Info("patterns exported", "rows", n, "output", opts.output)
	return nil
}
