package params

import (
	"log/slog"
	"math"

	"github.com/mcuadros/go-defaults"
)

var TypeSWM = "swm"

// SWM holds sliding window matching parameters. Durations are in seconds.
type SWM struct {
	Name          string  `mapstructure:"name"`
	WindowLength  float64 `mapstructure:"window_length"`
	MinSpacing    float64 `mapstructure:"min_spacing" default:"0.2"`
	Temperature   float64 `mapstructure:"temperature" default:"1"`
	MaxIterations int     `mapstructure:"max_iterations" default:"10000"`
	SamplingRate  float64 `mapstructure:"sampling_rate"`
	WindowStarts  []int   `mapstructure:"window_starts"`
}

func (s *SWM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", s.Name),
		slog.Float64("windowLength", s.WindowLength),
		slog.Float64("minSpacing", s.MinSpacing),
		slog.Float64("samplingRate", s.SamplingRate),
		slog.Int("maxIterations", s.MaxIterations),
	)
}

func (s *SWM) GetKind() string {
	return TypeSWM
}

func (s *SWM) GetName() string {
	return s.Name
}

func (s *SWM) SetDefaults() {
	defaults.SetDefaults(s)
}

func (s *SWM) RequiredFields() []string {
	return []string{"window_length", "sampling_rate"}
}

func (s *SWM) Validate() error {
	switch {
	case s.WindowLength <= 0:
		return invalid("window_length must be positive, got %v", s.WindowLength)
	case s.SamplingRate <= 0:
		return invalid("sampling_rate must be positive, got %v", s.SamplingRate)
	case s.MinSpacing < 0:
		return invalid("min_spacing must not be negative, got %v", s.MinSpacing)
	case s.Temperature <= 0:
		return invalid("temperature must be positive, got %v", s.Temperature)
	case s.MaxIterations < 1:
		return invalid("max_iterations must be at least 1, got %d", s.MaxIterations)
	case s.WindowSamples() < 1:
		return invalid("window_length %vs is shorter than one sample at %vHz", s.WindowLength, s.SamplingRate)
	}

	for i, start := range s.WindowStarts {
		if start < 0 {
			return invalid("window_starts[%d] must not be negative, got %d", i, start)
		}
		if i > 0 && start-s.WindowStarts[i-1] < s.SpacingSamples() {
			return invalid("window_starts[%d] is closer than min_spacing to its predecessor", i)
		}
	}
	return nil
}

// WindowSamples returns the window length in samples.
func (s *SWM) WindowSamples() int {
	return int(math.Round(s.WindowLength * s.SamplingRate))
}

// SpacingSamples returns the minimum window spacing in samples.
func (s *SWM) SpacingSamples() int {
	return int(math.Round(s.MinSpacing * s.SamplingRate))
}
