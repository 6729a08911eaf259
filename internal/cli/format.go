package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Formatter converts a command result to output bytes.
type Formatter interface {
	Format(v any, cfg OutputConfig) ([]byte, error)
}

// TextRenderer is implemented by results that can be shown as text.
type TextRenderer interface {
	RenderText(colors Colors) string
}

// OutputConfig holds configuration for formatting command output
type OutputConfig struct {
	Format   string
	Colorize bool
}

// OutputConfigFromViper builds an OutputConfig from the common output flags.
func OutputConfigFromViper(v *viper.Viper) OutputConfig {
	return OutputConfig{
		Format:   v.GetString("output"),
		Colorize: shouldColorize(v.GetString("color")),
	}
}

func shouldColorize(colorFlag string) bool {
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

var (
	formatters = make(map[string]Formatter)
	mu         sync.RWMutex
)

// RegisterFormatter registers a formatter by name.
// Called from init() in each formatter file.
func RegisterFormatter(name string, f Formatter) {
	mu.Lock()
	defer mu.Unlock()
	formatters[name] = f
}

// GetFormatter returns the formatter for the given name.
func GetFormatter(name string) (Formatter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := formatters[name]
	return f, ok
}

// FormatNames returns a sorted list of registered format names.
func FormatNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format renders v with the formatter named in cfg.
func Format(v any, cfg OutputConfig) ([]byte, error) {
	formatter, ok := GetFormatter(cfg.Format)
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", cfg.Format, strings.Join(FormatNames(), ", "))
	}
	return formatter.Format(v, cfg)
}
