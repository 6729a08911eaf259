package check

import (
	"github.com/isometry/burst-config/internal/cli"
)

var checkFlags = cli.Merge(
	cli.ConfigFlags(),
	cli.OutputFlags("text"),
	cli.FlagValues{
		"file": {
			Shorthand:    "f",
			Kind:         "string",
			DefaultValue: "",
			Usage:        "standalone parameter file to check",
		},
		"kind": {
			Shorthand:    "k",
			Kind:         "string",
			DefaultValue: "",
			Usage:        "parameter set kind in the configuration file",
		},
		"name": {
			Shorthand:    "n",
			Kind:         "string",
			DefaultValue: "",
			Usage:        "parameter set name in the configuration file",
		},
		"mode": {
			Shorthand:    "m",
			Kind:         "string",
			DefaultValue: "last",
			Usage:        "how field results combine (last|any|all)",
		},
		"fold-case": {
			Shorthand:    "i",
			Kind:         "bool",
			DefaultValue: false,
			Usage:        "match field names case-insensitively",
		},
		"path-delimiter": {
			Kind:         "string",
			DefaultValue: "",
			Usage:        "look up nested fields by path (e.g. '.')",
		},
	},
)
