package cli

import (
	"fmt"
	"strings"
)

func init() {
	RegisterFormatter("text", &TextFormatter{})
}

// TextFormatter renders results implementing TextRenderer.
type TextFormatter struct{}

func (f *TextFormatter) Format(v any, cfg OutputConfig) ([]byte, error) {
	renderer, ok := v.(TextRenderer)
	if !ok {
		return nil, fmt.Errorf("text output is not supported for %T", v)
	}
	return []byte(strings.TrimRight(renderer.RenderText(ResolveColors(cfg.Colorize)), "\n")), nil
}
