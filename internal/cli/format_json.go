package cli

import (
	"encoding/json"
)

func init() {
	RegisterFormatter("json", &JSONFormatter{})
}

// JSONFormatter renders results as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(v any, _ OutputConfig) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
