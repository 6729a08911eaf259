package check

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/isometry/burst-config/internal/cli"
	"github.com/isometry/burst-config/pkg/bcctx"
	"github.com/isometry/burst-config/pkg/config"
	"github.com/isometry/burst-config/pkg/fieldcheck"
	"github.com/isometry/burst-config/pkg/utils"
)

// ErrAbsent is returned when the check verdict is false.
var ErrAbsent = errors.New("field check failed")

var log *slog.Logger

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FIELD...",
		Short: "Check a parameter set for the presence of fields",
		Long: `Check a parameter set for the presence of fields.

The parameter set is either a named set from the configuration file
(--kind and --name) or a standalone parameter file (--file).

With the default mode "last", every field is looked up but only the last
one decides the result. Use --mode=any or --mode=all to combine them.

Examples:
  # Is window_length set for the "beta" sliding window matching set?
  bcfg check --kind swm --name beta window_length

  # Are both tolerances present in a standalone file?
  bcfg check --file csc.yaml --mode all --path-delimiter . solver_z_kwargs.tol solver_d_kwargs.max_iter`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: setup,
		RunE:    run,
	}

	checkFlags.Register(cmd.Flags(), false)

	return cmd
}

func setup(cmd *cobra.Command, _ []string) error {
	log = utils.ContextLogger(cmd.Context(), slog.String("command", "check"))
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	v := bcctx.Viper(ctx)

	cfg, source, err := loadConfiguration(ctx, v)
	if err != nil {
		return err
	}

	checker, err := newChecker(v)
	if err != nil {
		return err
	}

	report, err := checker.Report(cfg, args)
	if err != nil {
		return err
	}
	log.Debug("checked fields", slog.String("source", source), slog.Bool("present", report.Present), slog.Any("missing", report.Missing()))

	out, err := cli.Format(Result{Source: source, Report: *report}, cli.OutputConfigFromViper(v))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !report.Present {
		return errors.Wrapf(ErrAbsent, "%s (mode %s)", strings.Join(args, ", "), report.Mode)
	}
	return nil
}

func newChecker(v *viper.Viper) (*fieldcheck.Checker, error) {
	mode, err := fieldcheck.ParseMode(v.GetString("mode"))
	if err != nil {
		return nil, err
	}

	opts := []fieldcheck.Option{fieldcheck.WithMode(mode)}
	if v.GetBool("fold-case") {
		opts = append(opts, fieldcheck.WithFoldCase())
	}
	if delimiter := v.GetString("path-delimiter"); delimiter != "" {
		opts = append(opts, fieldcheck.WithPathDelimiter(delimiter))
	}
	return fieldcheck.New(opts...), nil
}

// loadConfiguration returns the parameter set to check and a description of where it came from.
func loadConfiguration(ctx context.Context, v *viper.Viper) (fieldcheck.Configuration, string, error) {
	if file := v.GetString("file"); file != "" {
		cfg, err := config.ReadFile(file)
		if err != nil {
			return nil, "", err
		}
		return cfg, file, nil
	}

	kind, name := v.GetString("kind"), v.GetString("name")
	if kind == "" || name == "" {
		return nil, "", errors.New("either --file or both --kind and --name are required")
	}

	paths, configName := cli.ConfigPaths(v)
	result, err := config.Load(ctx, paths, configName, bcctx.StrictFromContext(ctx))
	if err != nil {
		return nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg, ok := result.RawSet(kind, name)
	if !ok {
		return nil, "", fmt.Errorf("no %s parameter set named %q", kind, name)
	}
	return cfg, kind + "/" + name, nil
}

// Result is the output of a check.
type Result struct {
	Source            string `json:"source" yaml:"source"`
	fieldcheck.Report `yaml:",inline"`
}

func (r Result) RenderText(colors cli.Colors) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Fields of %s:\n", r.Source)
	for _, f := range r.Fields {
		if f.Present {
			fmt.Fprintf(&b, "  %s\u2714%s %s", colors.Present, colors.Reset, f.Name)
			if f.MatchedKey != f.Name {
				fmt.Fprintf(&b, " (%s%s%s)", colors.Key, f.MatchedKey, colors.Reset)
			}
			b.WriteString("\n")
		} else {
			fmt.Fprintf(&b, "  %s\u2718%s %s\n", colors.Absent, colors.Reset, f.Name)
		}
	}

	verdict := colors.Present + "present" + colors.Reset
	if !r.Present {
		verdict = colors.Absent + "absent" + colors.Reset
	}
	fmt.Fprintf(&b, "\nResult (%s): %s\n", r.Mode, verdict)
	return b.String()
}
