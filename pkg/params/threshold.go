package params

import (
	"log/slog"

	"github.com/mcuadros/go-defaults"
)

var TypeThreshold = "threshold"

// Threshold holds amplitude thresholding parameters: a burst is a run of at
// least MinCycles cycles whose band-limited amplitude exceeds Factor times the median.
type Threshold struct {
	Name      string    `mapstructure:"name"`
	Band      []float64 `mapstructure:"band"`
	Factor    float64   `mapstructure:"factor" default:"1.5"`
	MinCycles float64   `mapstructure:"min_cycles" default:"2"`
}

func (t *Threshold) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", t.Name),
		slog.Any("band", t.Band),
		slog.Float64("factor", t.Factor),
		slog.Float64("minCycles", t.MinCycles),
	)
}

func (t *Threshold) GetKind() string {
	return TypeThreshold
}

func (t *Threshold) GetName() string {
	return t.Name
}

func (t *Threshold) SetDefaults() {
	defaults.SetDefaults(t)
}

func (t *Threshold) RequiredFields() []string {
	return []string{"band"}
}

func (t *Threshold) Validate() error {
	switch {
	case len(t.Band) != 2:
		return invalid("band must be [fmin, fmax], got %v", t.Band)
	case t.Band[0] <= 0 || t.Band[0] >= t.Band[1]:
		return invalid("need 0 < fmin < fmax, got %v", t.Band)
	case t.Factor <= 0:
		return invalid("factor must be positive, got %v", t.Factor)
	case t.MinCycles <= 0:
		return invalid("min_cycles must be positive, got %v", t.MinCycles)
	}
	return nil
}
