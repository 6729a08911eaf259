package fieldcheck

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// ErrInvalidArgument is returned for inputs of the wrong shape: an empty field
// list, or a configuration that is not map-like.
var ErrInvalidArgument = errors.New("invalid argument")

// Configuration holds the parameters of a burst-detection method, keyed by field name.
// A nil Configuration is valid and has no fields.
type Configuration map[string]any

// Mode selects how per-field results combine into a single verdict.
type Mode int

const (
	// ModeLast reports the presence of the last field only; earlier results are overwritten.
	ModeLast Mode = iota
	// ModeAny reports true if at least one field is present.
	ModeAny
	// ModeAll reports true only if every field is present.
	ModeAll
)

var modeNames = map[Mode]string{
	ModeLast: "last",
	ModeAny:  "any",
	ModeAll:  "all",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name (last, any, all) to a Mode.
func ParseMode(name string) (Mode, error) {
	for mode, modeName := range modeNames {
		if strings.EqualFold(name, modeName) {
			return mode, nil
		}
	}
	return ModeLast, errors.Wrapf(ErrInvalidArgument, "unknown mode %q", name)
}

// Checker tests configurations for the presence of fields.
// The zero value behaves like IsField.
type Checker struct {
	mode      Mode
	foldCase  bool
	delimiter string
}

type Option func(*Checker)

func WithMode(mode Mode) Option {
	return func(c *Checker) {
		c.mode = mode
	}
}

// WithFoldCase makes key comparison case-insensitive. An exact match is preferred.
func WithFoldCase() Option {
	return func(c *Checker) {
		c.foldCase = true
	}
}

// WithPathDelimiter enables structural lookup: "a.b" finds key "b" inside the map at key "a".
func WithPathDelimiter(delimiter string) Option {
	return func(c *Checker) {
		c.delimiter = delimiter
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultChecker = New()

// IsField reports whether the last of names is a field of cfg, and returns cfg itself.
//
// Every name is looked up in turn and each lookup replaces the previous
// result, so only the final name decides the outcome. Use a Checker with
// ModeAny or ModeAll to combine all names.
func IsField(cfg Configuration, names ...string) (bool, Configuration, error) {
	return defaultChecker.Check(cfg, names)
}

// Check reports the combined presence of names in cfg under the checker's mode.
// The returned Configuration is cfg, unmodified.
func (c *Checker) Check(cfg Configuration, names []string) (bool, Configuration, error) {
	if len(names) == 0 {
		return false, cfg, errors.Wrap(ErrInvalidArgument, "no field names given")
	}

	var present bool
	for i, name := range names {
		_, found := c.lookup(cfg, name)
		switch c.mode {
		case ModeAny:
			present = present || found
		case ModeAll:
			present = (i == 0 || present) && found
		default:
			present = found
		}
	}
	return present, cfg, nil
}

// FieldResult is the outcome of looking up a single name.
type FieldResult struct {
	Name       string `json:"name" yaml:"name"`
	Present    bool   `json:"present" yaml:"present"`
	MatchedKey string `json:"matchedKey,omitempty" yaml:"matchedKey,omitempty"`
}

// Report lists every lookup made by a check along with the verdict.
type Report struct {
	Mode    string        `json:"mode" yaml:"mode"`
	Present bool          `json:"present" yaml:"present"`
	Fields  []FieldResult `json:"fields" yaml:"fields"`
}

// Missing returns the names of fields that were not found.
func (r *Report) Missing() []string {
	var missing []string
	for _, f := range r.Fields {
		if !f.Present {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Report runs Check and records the per-name results.
func (c *Checker) Report(cfg Configuration, names []string) (*Report, error) {
	present, _, err := c.Check(cfg, names)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Mode:    c.mode.String(),
		Present: present,
		Fields:  make([]FieldResult, 0, len(names)),
	}
	for _, name := range names {
		key, found := c.lookup(cfg, name)
		report.Fields = append(report.Fields, FieldResult{Name: name, Present: found, MatchedKey: key})
	}
	return report, nil
}

// lookup returns the key path that matched name, if any.
func (c *Checker) lookup(cfg Configuration, name string) (string, bool) {
	if c.delimiter == "" {
		return c.lookupKey(cfg, name)
	}

	segments := strings.Split(name, c.delimiter)
	matched := make([]string, 0, len(segments))
	current := map[string]any(cfg)
	for i, segment := range segments {
		key, found := c.lookupKey(current, segment)
		if !found {
			return "", false
		}
		matched = append(matched, key)
		if i == len(segments)-1 {
			break
		}
		next, ok := asStringMap(current[key])
		if !ok {
			return "", false
		}
		current = next
	}
	return strings.Join(matched, c.delimiter), true
}

func (c *Checker) lookupKey(m map[string]any, name string) (string, bool) {
	if _, ok := m[name]; ok {
		return name, true
	}
	if !c.foldCase {
		return "", false
	}
	for key := range m {
		if strings.EqualFold(key, name) {
			return key, true
		}
	}
	return "", false
}

// asStringMap views nested map values without copying where possible.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Configuration:
		return m, true
	case map[any]any:
		converted, err := cast.ToStringMapE(m)
		return converted, err == nil
	}
	return nil, false
}

// FromAny converts map-like values and structs into a Configuration.
// Values that are not map-like fail with ErrInvalidArgument.
func FromAny(v any) (Configuration, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case Configuration:
		return m, nil
	case map[string]any:
		return m, nil
	case map[any]any:
		converted, err := cast.ToStringMapE(m)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidArgument, err.Error())
		}
		return converted, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Struct:
		out := make(map[string]any)
		if err := mapstructure.Decode(v, &out); err != nil {
			return nil, errors.Wrapf(ErrInvalidArgument, "decoding %T: %v", v, err)
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			out := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				out[iter.Key().String()] = iter.Value().Interface()
			}
			return out, nil
		}
	}
	return nil, errors.Wrapf(ErrInvalidArgument, "configuration must be a mapping, got %T", v)
}
