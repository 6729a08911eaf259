package cli

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" yaml:"name"`
	Present bool   `json:"present" yaml:"present"`
}

func (s sample) RenderText(colors Colors) string {
	return colors.Key + s.Name + colors.Reset + "\n"
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, []string{"json", "text", "yaml"}, FormatNames())
}

func TestFormat(t *testing.T) {
	value := sample{Name: "window_length", Present: true}

	tests := []struct {
		name     string
		cfg      OutputConfig
		expected string
	}{
		{"JSON", OutputConfig{Format: "json"}, "{\n  \"name\": \"window_length\",\n  \"present\": true\n}"},
		{"YAML", OutputConfig{Format: "yaml"}, "name: window_length\npresent: true"},
		{"Text", OutputConfig{Format: "text"}, "window_length"},
		{"ColorText", OutputConfig{Format: "text", Colorize: true}, "\033[36mwindow_length\033[0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format(value, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestFormatErrors(t *testing.T) {
	_, err := Format(sample{}, OutputConfig{Format: "xml"})
	assert.ErrorContains(t, err, `unknown output format "xml"`)

	_, err = Format(42, OutputConfig{Format: "text"})
	assert.ErrorContains(t, err, "text output is not supported")
}

func TestRegisterFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Merge(ConfigFlags(), OutputFlags("yaml")).Register(fs, true)

	require.NoError(t, fs.Parse([]string{"-o", "json", "--color", "never", "--config-name", "tutorial", "window_length"}))

	output, _ := fs.GetString("output")
	color, _ := fs.GetString("color")
	name, _ := fs.GetString("config-name")
	paths, _ := fs.GetStringSlice("config-path")

	assert.Equal(t, "json", output)
	assert.Equal(t, "never", color)
	assert.Equal(t, "tutorial", name)
	assert.Equal(t, []string{".", "/config"}, paths)
	assert.Equal(t, []string{"window_length"}, fs.Args(), "--color consumes its value")
}
