package validate

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/isometry/burst-config/internal/cli"
	"github.com/isometry/burst-config/pkg/bcctx"
	"github.com/isometry/burst-config/pkg/config"
	"github.com/isometry/burst-config/pkg/params"
	"github.com/isometry/burst-config/pkg/utils"
)

var log *slog.Logger

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate all parameter sets in the configuration",
		Long: `Validate all parameter sets for required fields and value constraints.

Validation is always strict: unknown kinds and unknown keys are reported.

Examples:
  # Validate default config
  bcfg validate

  # Validate specific config file
  bcfg validate --config-name=tutorial

  # Output as JSON for CI/tooling
  bcfg validate -o json`,
		Args:    cobra.NoArgs,
		PreRunE: setup,
		RunE:    run,
	}

	validateFlags.Register(cmd.Flags(), false)

	return cmd
}

func setup(cmd *cobra.Command, _ []string) error {
	log = utils.ContextLogger(cmd.Context(), slog.String("command", "validate"))
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	v := bcctx.Viper(ctx)
	paths, name := cli.ConfigPaths(v)

	result, err := config.Load(ctx, paths, name, true)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	summary := collectResults(result)
	log.Debug("validated", slog.Int("valid", summary.Valid), slog.Int("invalid", summary.Invalid))

	out, err := cli.Format(summary, cli.OutputConfigFromViper(v))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if summary.Invalid > 0 {
		return fmt.Errorf("validation failed: %d invalid parameter set(s)", summary.Invalid)
	}
	return nil
}

// SetResult is the validation outcome of one parameter set.
type SetResult struct {
	Kind   string   `json:"kind" yaml:"kind"`
	Name   string   `json:"name" yaml:"name"`
	Valid  bool     `json:"valid" yaml:"valid"`
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Summary holds the overall validation results
type Summary struct {
	File    string      `json:"file" yaml:"file"`
	Results []SetResult `json:"results" yaml:"results"`
	Valid   int         `json:"valid" yaml:"valid"`
	Invalid int         `json:"invalid" yaml:"invalid"`
}

func collectResults(result *config.LoadResult) Summary {
	results := make([]SetResult, 0, len(result.Errors))

	for _, set := range result.GetSets() {
		results = append(results, SetResult{Kind: set.GetKind(), Name: set.GetName(), Valid: true})
	}

	for _, err := range result.Errors {
		var setErr *params.SetError
		if errors.As(err, &setErr) {
			results = append(results, SetResult{
				Kind:   setErr.Kind,
				Name:   setErr.Name,
				Errors: []string{setErr.Err.Error()},
			})
		} else {
			results = append(results, SetResult{
				Kind:   "unknown",
				Name:   "unknown",
				Errors: []string{err.Error()},
			})
		}
	}

	slices.SortStableFunc(results, func(a, b SetResult) int {
		return cmp.Or(cmp.Compare(a.Kind, b.Kind), cmp.Compare(a.Name, b.Name))
	})

	summary := Summary{File: result.File, Results: results}
	for _, r := range results {
		if r.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
	}
	return summary
}

func (s Summary) RenderText(colors cli.Colors) string {
	var b strings.Builder

	if s.File == "" {
		b.WriteString("No configuration file found\n")
	} else {
		fmt.Fprintf(&b, "Validation Results for %s:\n", s.File)
	}

	for _, r := range s.Results {
		if r.Valid {
			fmt.Fprintf(&b, "  %s\u2714%s %s (%s)\n", colors.Present, colors.Reset, r.Name, r.Kind)
			continue
		}
		fmt.Fprintf(&b, "  %s\u2718%s %s (%s)\n", colors.Absent, colors.Reset, r.Name, r.Kind)
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "      - %s\n", e)
		}
	}

	fmt.Fprintf(&b, "\nSummary: %d valid, %d invalid\n", s.Valid, s.Invalid)
	return b.String()
}
