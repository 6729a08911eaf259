package cli

import (
	"maps"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FlagValue represents a single flag definition with metadata
type FlagValue struct {
	Shorthand    string
	Kind         string
	DefaultValue any
	NoOptDefault string
	Usage        string
}

// FlagValues is a map of flag names to their definitions
type FlagValues map[string]FlagValue

// Register adds all flags in the set to the given pflag.FlagSet
func (f FlagValues) Register(flagSet *pflag.FlagSet, sort bool) {
	for flagName, flag := range f {
		flag.BuildFlag(flagSet, flagName)
	}
	flagSet.SortFlags = sort
}

// BuildFlag creates a pflag from the FlagValue definition
func (f *FlagValue) BuildFlag(flagSet *pflag.FlagSet, flagName string) {
	switch f.Kind {
	case "bool":
		flagSet.BoolP(flagName, f.Shorthand, f.DefaultValue.(bool), f.Usage)
	case "count":
		flagSet.CountP(flagName, f.Shorthand, f.Usage)
	case "int":
		flagSet.IntP(flagName, f.Shorthand, f.DefaultValue.(int), f.Usage)
	case "string":
		flagSet.StringP(flagName, f.Shorthand, f.DefaultValue.(string), f.Usage)
	case "stringSlice":
		flagSet.StringSliceP(flagName, f.Shorthand, f.DefaultValue.([]string), f.Usage)
	}

	if f.NoOptDefault != "" {
		flag := flagSet.Lookup(flagName)
		flag.NoOptDefVal = f.NoOptDefault
	}
}

// Merge combines multiple FlagValues maps into one
func Merge(flagSets ...FlagValues) FlagValues {
	result := make(FlagValues)
	for _, fs := range flagSets {
		maps.Copy(result, fs)
	}
	return result
}

// BindFlags binds all command flags to the given viper instance.
// This includes local flags and inherited persistent flags from parent commands.
// All flags are accessible directly by name (e.g., v.GetBool("fold-case")).
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// ConfigPaths returns the config-path and config-name values from the given viper.
func ConfigPaths(v *viper.Viper) (paths []string, name string) {
	return v.GetStringSlice("config-path"), v.GetString("config-name")
}

// ConfigFlags returns flags for configuration file settings
func ConfigFlags() FlagValues {
	return FlagValues{
		"config-path": {
			Kind:         "stringSlice",
			DefaultValue: []string{".", "/config"},
			Usage:        "configuration paths",
		},
		"config-name": {
			Kind:         "string",
			DefaultValue: "burst-config",
			Usage:        "configuration name",
		},
	}
}

// OutputFlags returns flags for output formatting
func OutputFlags(defaultFormat string) FlagValues {
	return FlagValues{
		"output": {
			Shorthand:    "o",
			Kind:         "string",
			DefaultValue: defaultFormat,
			Usage:        "output format (text|json|yaml)",
		},
		"color": {
			Kind:         "string",
			DefaultValue: "auto",
			Usage:        "colorize text output (auto|always|never)",
		},
	}
}
