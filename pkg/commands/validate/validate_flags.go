package validate

import (
	"github.com/isometry/burst-config/internal/cli"
)

var validateFlags = cli.Merge(
	cli.ConfigFlags(),
	cli.OutputFlags("text"),
)
