package defaults

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isometry/burst-config/internal/cli"
	"github.com/isometry/burst-config/pkg/bcctx"
	"github.com/isometry/burst-config/pkg/params"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defaults KIND",
		Short: "Print the default parameters of a detection method",
		Long: fmt.Sprintf(`Print the default parameters of a detection method.

Required fields have no default and are not shown.

Kinds: %s`, strings.Join(params.Kinds(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: params.Kinds(),
		RunE:      run,
	}

	cli.OutputFlags("yaml").Register(cmd.Flags(), false)

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	v := bcctx.Viper(cmd.Context())

	cfg, err := params.Defaults(args[0])
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(params.Kinds(), ", "))
	}

	out, err := cli.Format(cfg, cli.OutputConfigFromViper(v))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
