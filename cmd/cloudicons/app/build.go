package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/diagramkit/cloudicons/internal/config"
	"github.com/diagramkit/cloudicons/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build icon-set artifacts for the configured providers",
	Long: `Build runs the full pipeline for each configured provider: prepare the
local source directory (downloading and extracting the provider archive
when the directory is empty), import the SVG tree, clean each icon,
apply aliases, and export <provider>-icons.json into the dist directory.

Providers build strictly in configuration order. Use --provider to
restrict the run to a subset.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	buildCmd.Flags().String("source-dir", "", "Override the source directory root")
	buildCmd.Flags().String("dist-dir", "", "Override the dist directory")
	buildCmd.Flags().StringSlice("provider", nil, "Restrict the build to the named providers (repeatable)")

	err := viper.BindPFlag("config", buildCmd.Flags().Lookup("config"))
	if err != nil {
		slog.Error("Error binding config flag", "error", err)
	}

	if err := buildCmd.MarkFlagRequired("config"); err != nil {
		slog.Error("Error marking config flag as required", "error", err)
	}
}

func runBuild(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if viper.GetBool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(viper.GetString("config")))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if dir, _ := cmd.Flags().GetString("source-dir"); dir != "" {
		cfg.SourceDir = dir
	}
	if dir, _ := cmd.Flags().GetString("dist-dir"); dir != "" {
		cfg.DistDir = dir
	}
	only, _ := cmd.Flags().GetStringSlice("provider")

	builder, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	results, err := builder.BuildAll(ctx, only)

	// Render whatever completed, even when a later provider failed
	if len(results) > 0 {
		if renderErr := pipeline.RenderSummary(os.Stdout, results); renderErr != nil {
			slog.Error("Error rendering summary", "error", renderErr)
		}
	}

	return err
}
