// Command cli drives the validation engine from the terminal. It resolves
// the data source the same way the server does: configured file first, then
// database, then the synthetic fixture.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	_ "github.com/lib/pq"

	"gocausal/adapters/excel"
	"gocausal/adapters/postgres"
	"gocausal/adapters/stats/battery"
	"gocausal/app"
	"gocausal/domain/causal"
	"gocausal/domain/dataset"
	"gocausal/internal/config"
	"gocausal/internal/report"
	"gocausal/internal/testkit"
	"gocausal/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gocausal-cli",
		Short: "Causal validation engine command line tools",
	}

	rootCmd.AddCommand(
		newValidateCmd(),
		newBatchCmd(),
		newParametersCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newValidateCmd() *cobra.Command {
	var cause, effect string
	var maxLag int

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a single directed causal link",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cause == "" || effect == "" {
				return fmt.Errorf("--cause and --effect are required")
			}

			table, service, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			verdict, err := service.ValidateLink(cmd.Context(), table, app.LinkRequest{
				Cause:  cause,
				Effect: effect,
				MaxLag: maxLag,
			})
			if err != nil {
				return err
			}
			return printJSON(verdict)
		},
	}
	cmd.Flags().StringVar(&cause, "cause", "", "cause parameter name")
	cmd.Flags().StringVar(&effect, "effect", "", "effect parameter name")
	cmd.Flags().IntVar(&maxLag, "max-lag", 0, "max Granger lag to scan (0 uses the engine default)")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var linksFile string
	var maxLag int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Validate a list of candidate links from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := readLinkFile(linksFile)
			if err != nil {
				return err
			}

			table, service, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := service.ValidateBatch(cmd.Context(), table, app.BatchRequest{
				Pairs:  pairs,
				MaxLag: maxLag,
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&linksFile, "links", "links.yaml", "YAML file with candidate links")
	cmd.Flags().IntVar(&maxLag, "max-lag", 0, "max Granger lag to scan (0 uses the engine default)")
	return cmd
}

func newParametersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parameters",
		Short: "Profile the parameter table of the configured source",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return printJSON(map[string]interface{}{
				"rows":       table.Rows(),
				"parameters": table.Profile(),
			})
		},
	}
}

func newReportCmd() *cobra.Command {
	var linksFile, format string
	var maxLag int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Validate candidate links and render the validation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := readLinkFile(linksFile)
			if err != nil {
				return err
			}

			table, service, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := service.ValidateBatch(cmd.Context(), table, app.BatchRequest{
				Pairs:  pairs,
				MaxLag: maxLag,
			}); err != nil {
				return err
			}

			summary := report.NewSummary(service.ValidatedLinks())
			switch format {
			case "markdown":
				fmt.Println(summary.Markdown())
			case "html":
				_, err := os.Stdout.Write(summary.HTML())
				return err
			default:
				return fmt.Errorf("unknown format: %s (want markdown or html)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&linksFile, "links", "links.yaml", "YAML file with candidate links")
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown or html")
	cmd.Flags().IntVar(&maxLag, "max-lag", 0, "max Granger lag to scan (0 uses the engine default)")
	return cmd
}

// LinkFile is the YAML schema for candidate link lists.
type LinkFile struct {
	Links []causal.LinkPair `yaml:"links"`
}

func readLinkFile(path string) ([]causal.LinkPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read links file: %w", err)
	}
	var file LinkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse links file: %w", err)
	}
	if len(file.Links) == 0 {
		return nil, fmt.Errorf("no links found in %s", path)
	}
	return file.Links, nil
}

// bootstrap loads configuration, resolves the table source and builds the
// validation service. The returned cleanup closes any database connection.
func bootstrap(ctx context.Context) (*dataset.ParameterTable, *app.ValidationService, func(), error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	source, cleanup, err := resolveSource(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	table, err := source.Load(ctx)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to load %s: %w", source.Describe(), err)
	}

	return table, buildService(cfg), cleanup, nil
}

// resolveSource picks the table source from configuration.
func resolveSource(cfg *config.Config) (ports.TableSource, func(), error) {
	if cfg.Data.File != "" {
		return excel.NewReader(cfg.Data.File), func() {}, nil
	}
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewObservationSource(db, cfg.Database.Table), func() { _ = db.Close() }, nil
	}
	log.Printf("No data source configured, using synthetic market fixture")
	return testkit.NewSyntheticSource(), func() {}, nil
}

func buildService(cfg *config.Config) *app.ValidationService {
	bat := battery.NewWithMaxLag(cfg.Engine.MaxLag)
	registry := causal.NewLinkRegistry()
	thresholds := causal.Thresholds{
		SignificanceLevel: cfg.Engine.SignificanceLevel,
		CorrelationFloor:  cfg.Engine.CorrelationFloor,
		InterventionFloor: cfg.Engine.InterventionFloor,
		StabilityFloor:    cfg.Engine.StabilityFloor,
	}
	return app.NewValidationService(bat, registry, thresholds, cfg.Engine.BatchWorkers)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
