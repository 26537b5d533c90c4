package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importcheck/internal/config"
	"github.com/Sumatoshi-tech/importcheck/internal/observability"
	"github.com/Sumatoshi-tech/importcheck/internal/patch"
)

// ErrPatchFailed is returned when at least one file could not be patched.
var ErrPatchFailed = errors.New("some files could not be patched")

// PatchCommand holds flags and dependencies for the patch command.
type PatchCommand struct {
	rulesPath  string
	root       string
	dryRun     bool
	configPath string
	logs       logFlags

	obsInit observabilityInit
}

// NewPatchCommand creates the patch command.
func NewPatchCommand() *cobra.Command {
	return newPatchCommandWithDeps(observability.Init)
}

func newPatchCommandWithDeps(obsInit observabilityInit) *cobra.Command {
	pc := &PatchCommand{obsInit: obsInit}

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Apply regex rewrite rules to source files",
		Long: `Apply the ordered rewrite rules of a YAML rules file. Each file is
reported as "Fixed <path>" or "Error fixing <path>: <error>"; a failure never
stops the remaining files.`,
		Args: cobra.NoArgs,
		RunE: pc.run,
	}

	cmd.Flags().StringVar(&pc.rulesPath, "rules", "", "YAML rules file")
	cmd.Flags().StringVar(&pc.root, "root", "", "Directory relative rule paths are resolved against (default CWD)")
	cmd.Flags().BoolVar(&pc.dryRun, "dry-run", false, "Print a diff instead of writing files")
	cmd.Flags().StringVar(&pc.configPath, "config", "", "Config file (default .importcheck.yaml in CWD or $HOME)")
	pc.logs.register(cmd)

	_ = cmd.MarkFlagRequired("rules")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

func (pc *PatchCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(pc.configPath)
	if err != nil {
		return err
	}

	obsCfg, err := buildObservabilityConfig(cfg, observability.ModePatch, pc.logs, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	providers, err := pc.obsInit(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer shutdownProviders(providers)

	set, err := patch.LoadRules(pc.rulesPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := color.New(color.FgRed)

	if !useColor(cfg.Output.Color) {
		failed.DisableColor()
	}

	var failures int

	applier := patch.NewApplier(patch.Options{
		Root:   pc.root,
		DryRun: pc.dryRun,
		Logger: providerLogger(providers),
	})

	_, err = applier.Apply(cmd.Context(), set, func(res patch.Result) {
		switch {
		case res.Err != nil:
			failures++

			fmt.Fprintln(out, failed.Sprintf("Error fixing %s: %v", res.Path, res.Err))
		case pc.dryRun && res.Changed:
			fmt.Fprintf(out, "Would fix %s\n%s", res.Path, res.Diff)
		case pc.dryRun:
			fmt.Fprintf(out, "Unchanged %s\n", res.Path)
		default:
			fmt.Fprintf(out, "Fixed %s\n", res.Path)
		}
	})
	if err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d of %d", ErrPatchFailed, failures, len(set.Files))
	}

	return nil
}
