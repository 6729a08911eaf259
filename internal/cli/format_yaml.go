package cli

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

func init() {
	RegisterFormatter("yaml", &YAMLFormatter{})
}

// YAMLFormatter renders results as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(v any, _ OutputConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
