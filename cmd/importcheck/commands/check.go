package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/internal/checker"
	"github.com/Sumatoshi-tech/importcheck/internal/config"
	"github.com/Sumatoshi-tech/importcheck/internal/observability"
	"github.com/Sumatoshi-tech/importcheck/internal/report"
	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

// Color modes accepted by output.color.
const (
	colorAlways = "always"
	colorNever  = "never"
)

// defaultRoot is checked when no root argument is given.
const defaultRoot = "."

// ErrMissingImports is returned with --fail-on-missing when any import does not resolve.
var ErrMissingImports = errors.New("missing imports found")

// CheckCommand holds flags and dependencies for the check command.
type CheckCommand struct {
	format        string
	color         bool
	noColor       bool
	failOnMissing bool
	summary       bool
	configPath    string
	metricsFile   string
	debugTrace    bool
	logs          logFlags

	obsInit observabilityInit
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return newCheckCommandWithDeps(observability.Init)
}

func newCheckCommandWithDeps(obsInit observabilityInit) *cobra.Command {
	cc := &CheckCommand{obsInit: obsInit}

	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Report imports that do not resolve to a file",
		Long: `Walk root (default ".") and check every alias (@/) and relative import
in .ts and .tsx files. Each unresolved import is reported as it is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cc.run,
	}

	cmd.Flags().StringVar(&cc.format, "format", config.DefaultOutputFormat, "Output format: text, json, yaml, table, tree")
	cmd.Flags().BoolVar(&cc.color, "color", false, "Force colored output")
	cmd.Flags().BoolVar(&cc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&cc.failOnMissing, "fail-on-missing", false, "Exit with status 1 when any import is missing")
	cmd.Flags().BoolVar(&cc.summary, "summary", false, "Print the missing import count after the report")
	cmd.Flags().StringVar(&cc.configPath, "config", "", "Config file (default .importcheck.yaml in CWD or $HOME)")
	cmd.Flags().StringVar(&cc.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVar(&cc.debugTrace, "debug-trace", false, "Sample every trace and keep per-file spans")
	cc.logs.register(cmd)

	cmd.MarkFlagsMutuallyExclusive("color", "no-color")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	root := defaultRoot
	if len(args) > 0 {
		root = args[0]
	}

	cfg, err := config.LoadConfig(cc.configPath)
	if err != nil {
		return err
	}

	cc.applyFlags(cmd, cfg)

	maxFileSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	obsCfg, err := buildObservabilityConfig(cfg, observability.ModeCheck, cc.logs, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	obsCfg.DebugTrace = cc.debugTrace
	obsCfg.TraceVerbose = cc.debugTrace

	var textfile *observability.TextfileExporter

	if cc.metricsFile != "" {
		textfile, err = observability.NewTextfileExporter()
		if err != nil {
			return err
		}

		obsCfg.MetricReaders = append(obsCfg.MetricReaders, textfile.Reader())
	}

	providers, err := cc.obsInit(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer shutdownProviders(providers)

	renderer, err := report.New(cfg.Output.Format, cmd.OutOrStdout(), report.Options{
		Color:   useColor(cfg.Output.Color),
		Summary: cfg.Output.Summary,
	})
	if err != nil {
		return err
	}

	chk := checker.New(checker.Options{
		Extensions:    cfg.Check.Extensions,
		AliasPrefix:   cfg.Check.AliasPrefix,
		MaxFileSize:   maxFileSize,
		SkipVendor:    cfg.Check.SkipVendor,
		StatCacheSize: cfg.Check.StatCacheSize,
		Logger:        providerLogger(providers),
		Tracer:        providers.Tracer,
	})

	var renderErr error

	rep, runErr := chk.Run(cmd.Context(), root, func(ref importmodel.Reference) {
		if renderErr == nil {
			renderErr = renderer.Missing(ref)
		}
	})
	if runErr != nil {
		return runErr
	}

	if renderErr != nil {
		return renderErr
	}

	finishErr := renderer.Finish(rep)
	if finishErr != nil {
		return finishErr
	}

	metricsErr := cc.recordMetrics(cmd, providers, textfile, rep)
	if metricsErr != nil {
		return metricsErr
	}

	if cfg.Output.FailOnMissing && !rep.OK() {
		return fmt.Errorf("%w: %d", ErrMissingImports, rep.MissingCount())
	}

	return nil
}

// applyFlags overrides config values with explicitly set flags.
func (cc *CheckCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Output.Format = cc.format
	}

	if flags.Changed("color") && cc.color {
		cfg.Output.Color = colorAlways
	}

	if flags.Changed("no-color") && cc.noColor {
		cfg.Output.Color = colorNever
	}

	if flags.Changed("fail-on-missing") {
		cfg.Output.FailOnMissing = cc.failOnMissing
	}

	if flags.Changed("summary") {
		cfg.Output.Summary = cc.summary
	}
}

func (cc *CheckCommand) recordMetrics(
	cmd *cobra.Command, providers observability.Providers, textfile *observability.TextfileExporter, rep *checker.Report,
) error {
	if providers.Meter == nil {
		return nil
	}

	metrics, err := observability.NewCheckMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create check metrics: %w", err)
	}

	metrics.RecordRun(cmd.Context(), runStats(rep))

	if textfile == nil {
		return nil
	}

	return textfile.WriteFile(cc.metricsFile)
}

func runStats(rep *checker.Report) observability.RunStats {
	stats := observability.RunStats{
		FilesScanned:   rep.FilesScanned,
		BytesScanned:   rep.BytesScanned,
		SkippedBy:      make(map[string]int),
		ImportsChecked: rep.ImportsChecked,
		BareImports:    rep.BareImports,
		MissingBy:      make(map[string]int),
		CacheHits:      rep.CacheHits,
		CacheMisses:    rep.CacheMisses,
		Duration:       rep.Duration,
	}

	for _, skipped := range rep.Skipped {
		stats.SkippedBy[string(skipped.Reason)]++
	}

	for _, ref := range rep.Missing {
		stats.MissingBy[string(ref.Form)]++
	}

	return stats
}

func useColor(mode string) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	default:
		return !color.NoColor
	}
}
