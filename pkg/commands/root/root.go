package root

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	slogctx "github.com/veqryn/slog-context"

	"github.com/isometry/burst-config/internal/cli"
	"github.com/isometry/burst-config/pkg/bcctx"
	"github.com/isometry/burst-config/pkg/commands/check"
	"github.com/isometry/burst-config/pkg/commands/defaults"
	"github.com/isometry/burst-config/pkg/commands/validate"
	"github.com/isometry/burst-config/pkg/utils"
)

var rootFlags = cli.FlagValues{
	"log-format": {
		Kind:         "string",
		DefaultValue: "auto",
		Usage:        "log format (auto|json|text)",
	},
	"debug": {
		Kind:         "bool",
		DefaultValue: false,
		Usage:        "debug mode",
	},
	"log-level": {
		Shorthand: "v",
		Kind:      "count",
		Usage:     "log level (-v=warn, -vv=info, -vvv=debug)",
	},
	"strict": {
		Kind:         "bool",
		DefaultValue: false,
		Usage:        "treat unknown kinds and keys as errors",
	},
}

func New() *cobra.Command {
	v := bcctx.NewViper()

	// Configure Viper for environment variable support
	v.SetEnvPrefix("BCFG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	cmd := &cobra.Command{
		Use:   "bcfg",
		Short: "Burst detection parameter tool",
		Long: `bcfg loads burst-detection parameter sets and checks them for the
presence of fields, validates them and prints method defaults.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.BindFlags(cmd, v)
			logger := setupLogging(v, cmd.ErrOrStderr())

			ctx := slogctx.NewCtx(cmd.Context(), logger)
			ctx = bcctx.ContextWithViper(ctx, v)
			ctx = bcctx.ContextWithStrict(ctx, v.GetBool("strict"))
			cmd.SetContext(ctx)
		},
	}

	rootFlags.Register(cmd.PersistentFlags(), true)

	cmd.AddCommand(check.New())
	cmd.AddCommand(validate.New())
	cmd.AddCommand(defaults.New())

	return cmd
}

func setupLogging(v *viper.Viper, w io.Writer) *slog.Logger {
	verbosity := v.GetInt("log-level")
	debugMode := v.GetBool("debug")
	logFormat := v.GetString("log-format")

	level := new(slog.LevelVar)
	level.Set(slog.LevelError - slog.Level(verbosity*4))

	handlerOpts := &slog.HandlerOptions{
		AddSource: debugMode,
		Level:     level,
	}

	// Resolve "auto" format based on TTY detection
	useJSON := logFormat == "json" || (logFormat == "auto" && !utils.IsTTY())

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	logger := slog.New(handler)
	if w == os.Stderr {
		slog.SetDefault(logger)
	}
	return logger
}
