package params

import (
	"log/slog"

	"github.com/mcuadros/go-defaults"

	"github.com/isometry/burst-config/pkg/fieldcheck"
)

var TypePAPTO = "papto"

// PAPTO holds spectral event detection parameters: events are local TFR
// maxima above a factor-of-median threshold within [FMin, FMax].
type PAPTO struct {
	Name              string    `mapstructure:"name"`
	SamplingRate      float64   `mapstructure:"sampling_rate"`
	FMin              float64   `mapstructure:"fmin"`
	FMax              float64   `mapstructure:"fmax"`
	Width             float64   `mapstructure:"width" default:"7"`
	Thresholds        []float64 `mapstructure:"thresholds"`
	FindMethod        int       `mapstructure:"find_method" default:"1"`
	NeighbourhoodSize []int     `mapstructure:"neighbourhood_size"`
}

func (p *PAPTO) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", p.Name),
		slog.Float64("samplingRate", p.SamplingRate),
		slog.Float64("fmin", p.FMin),
		slog.Float64("fmax", p.FMax),
		slog.Any("thresholds", p.Thresholds),
	)
}

func (p *PAPTO) GetKind() string {
	return TypePAPTO
}

func (p *PAPTO) GetName() string {
	return p.Name
}

func (p *PAPTO) SetDefaults() {
	defaults.SetDefaults(p)
}

// Complete sets list defaults after decoding, since decoding a list onto a
// default list would merge them element by element.
func (p *PAPTO) Complete(cfg fieldcheck.Configuration) {
	if !supplied(cfg, "thresholds") {
		p.Thresholds = []float64{6}
	}
	if !supplied(cfg, "neighbourhood_size") {
		p.NeighbourhoodSize = []int{4, 160}
	}
}

func (p *PAPTO) RequiredFields() []string {
	return []string{"sampling_rate", "fmin", "fmax"}
}

func (p *PAPTO) Validate() error {
	switch {
	case p.SamplingRate <= 0:
		return invalid("sampling_rate must be positive, got %v", p.SamplingRate)
	case p.FMin <= 0 || p.FMin >= p.FMax:
		return invalid("need 0 < fmin < fmax, got [%v, %v]", p.FMin, p.FMax)
	case p.FMax >= p.SamplingRate/2:
		return invalid("fmax %vHz is not below the Nyquist frequency %vHz", p.FMax, p.SamplingRate/2)
	case p.Width <= 0:
		return invalid("width must be positive, got %v", p.Width)
	case p.FindMethod != 1:
		return invalid("find_method %d is not supported", p.FindMethod)
	case len(p.Thresholds) == 0:
		return invalid("at least one threshold is required")
	case len(p.NeighbourhoodSize) != 2:
		return invalid("neighbourhood_size must have two elements, got %d", len(p.NeighbourhoodSize))
	}

	for i, threshold := range p.Thresholds {
		if threshold <= 0 {
			return invalid("thresholds[%d] must be positive, got %v", i, threshold)
		}
	}
	for i, size := range p.NeighbourhoodSize {
		if size < 1 {
			return invalid("neighbourhood_size[%d] must be at least 1, got %d", i, size)
		}
	}
	return nil
}
