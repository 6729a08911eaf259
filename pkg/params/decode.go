package params

import (
	"maps"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/isometry/burst-config/pkg/fieldcheck"
)

// mapstructure matches keys case-insensitively, so presence checks do too.
var keyChecker = fieldcheck.New(fieldcheck.WithFoldCase())

// supplied reports whether cfg carries field.
func supplied(cfg fieldcheck.Configuration, field string) bool {
	present, _, err := keyChecker.Check(cfg, []string{field})
	return err == nil && present
}

// Missing returns the required fields of set that cfg does not supply.
// Each field is checked on its own so that no absent field is masked by a later one.
func Missing(cfg fieldcheck.Configuration, set Set) []string {
	var missing []string
	for _, field := range set.RequiredFields() {
		if !supplied(cfg, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Fill returns a copy of cfg with every key of defaults that cfg lacks, and the
// sorted list of keys it added. cfg is not modified. Keys match regardless of
// case, as in Decode.
func Fill(cfg, defaults fieldcheck.Configuration) (fieldcheck.Configuration, []string) {
	out := maps.Clone(cfg)
	if out == nil {
		out = fieldcheck.Configuration{}
	}

	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	var filled []string
	for _, key := range keys {
		if !supplied(cfg, key) {
			out[key] = defaults[key]
			filled = append(filled, key)
		}
	}
	return out, filled
}

// Decode builds the parameter set of kind from cfg.
//
// Defaults are applied before decoding so explicit zero values in cfg are kept.
// If cfg carries keys the set does not know, the decoded set is returned
// together with an *UnusedKeysError wrapped in a *SetError.
func Decode(kind string, cfg fieldcheck.Configuration) (Set, error) {
	name := cast.ToString(cfg["name"])

	set, err := New(kind)
	if err != nil {
		return nil, NewSetError(kind, name, err)
	}

	if missing := Missing(cfg, set); len(missing) > 0 {
		return nil, NewSetError(kind, name, errors.Wrap(ErrMissingField, strings.Join(missing, ", ")))
	}

	set.SetDefaults()

	var metadata mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         &metadata,
		Result:           set,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, NewSetError(kind, name, err)
	}
	if err := decoder.Decode(map[string]any(cfg)); err != nil {
		return nil, NewSetError(kind, name, errors.Wrap(ErrInvalidValue, err.Error()))
	}

	if completer, ok := set.(Completer); ok {
		completer.Complete(cfg)
	}

	if err := set.Validate(); err != nil {
		return nil, NewSetError(kind, name, err)
	}

	if len(metadata.Unused) > 0 {
		slices.Sort(metadata.Unused)
		return set, NewSetError(kind, name, &UnusedKeysError{Keys: metadata.Unused})
	}

	return set, nil
}

// Defaults returns the default parameter set of kind as a Configuration.
// Required fields and the name are omitted.
func Defaults(kind string) (fieldcheck.Configuration, error) {
	set, err := New(kind)
	if err != nil {
		return nil, err
	}
	set.SetDefaults()
	if completer, ok := set.(Completer); ok {
		completer.Complete(nil)
	}

	cfg, err := fieldcheck.FromAny(set)
	if err != nil {
		return nil, err
	}
	delete(cfg, "name")
	for _, field := range set.RequiredFields() {
		delete(cfg, field)
	}
	return cfg, nil
}
