package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fjglira/GoE2E-DocResolver/internal/config"
	"github.com/fjglira/GoE2E-DocResolver/internal/generator"
	"github.com/fjglira/GoE2E-DocResolver/internal/openapi"
	"github.com/fjglira/GoE2E-DocResolver/internal/parser"
	"github.com/fjglira/GoE2E-DocResolver/internal/report"
	"github.com/fjglira/GoE2E-DocResolver/internal/resolver"
	"github.com/fjglira/GoE2E-DocResolver/internal/scanner"
	"github.com/fjglira/GoE2E-DocResolver/internal/schema"
)

var (
	outputPath  string
	dryRun      bool
	detectSteps bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve tests declared in documentation",
	Long:  `Scans documentation and spec files, assembles the declared tests, expands them into contexts and writes the resolved tests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLog()

		if cmd.Flags().Changed("output") {
			cfg.Output.Path = outputPath
		}
		if cmd.Flags().Changed("detect-steps") {
			cfg.DetectSteps = detectSteps
		}
		if dryRun {
			cfg.DryRun = true
		}

		log.Info("Configuration loaded successfully")
		log.WithField("directories", cfg.Input.Directories).Info("Scanning directories")
		log.WithField("path", cfg.Output.Path).Info("Output")

		gen, err := newGenerator(cfg, cmd)
		if err != nil {
			return err
		}
		_, err = gen.Generate(cmd.Context(), cfg)
		return err
	},
}

func init() {
	resolveCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path, - for stdout")
	resolveCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve but don't write the output")
	resolveCmd.Flags().BoolVar(&detectSteps, "detect-steps", true, "detect steps from on-page markup")
	rootCmd.AddCommand(resolveCmd)
}

// newGenerator wires all components. Config-level description paths are
// relative to the config file.
func newGenerator(cfg *config.Config, cmd *cobra.Command) (*generator.DefaultGenerator, error) {
	registry, err := parser.NewRegistryFrom(cfg.FileTypes)
	if err != nil {
		return nil, err
	}

	engine, err := report.NewEngine(cfg.Output.TemplateDir, cfg.Output.DefaultTemplate)
	if err != nil {
		return nil, err
	}

	reg := schema.New()
	loader := openapi.NewLoader(filepath.Dir(cfgFile), log)

	return generator.NewGenerator(generator.Components{
		Scanner:   scanner.NewScanner(cfg.IsRecursive()),
		Registry:  registry,
		Validator: reg,
		Migrator:  reg,
		Resolver:  resolver.New(loader, log),
		Renderer:  engine,
	}, log, cmd.OutOrStdout()), nil
}
