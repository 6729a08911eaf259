package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/isometry/burst-config/pkg/bcctx"
	"github.com/isometry/burst-config/pkg/fieldcheck"
	"github.com/isometry/burst-config/pkg/params"
	"github.com/isometry/burst-config/pkg/utils"
)

// LoadResult holds the parameter sets decoded from a configuration file.
type LoadResult struct {
	// File is the configuration file used, empty when none was found
	File string
	// Raw is the merged document with includes resolved
	Raw fieldcheck.Configuration
	// Sets holds the valid parameter sets by kind, in file order
	Sets map[string][]params.Set
	// Errors holds one error per parameter set that failed to load
	Errors []error
}

func newLoadResult() *LoadResult {
	return &LoadResult{
		Raw:  fieldcheck.Configuration{},
		Sets: map[string][]params.Set{},
	}
}

// GetSets returns all sets ordered by kind, then file order.
func (r *LoadResult) GetSets() []params.Set {
	kinds := sortedKeys(r.Sets)
	var all []params.Set
	for _, kind := range kinds {
		all = append(all, r.Sets[kind]...)
	}
	return all
}

// Lookup returns the decoded set with the given kind and name.
func (r *LoadResult) Lookup(kind, name string) (params.Set, bool) {
	for _, set := range r.Sets[kind] {
		if set.GetName() == name {
			return set, true
		}
	}
	return nil, false
}

// RawSet returns the undecoded configuration of the named set, whether or not it is valid.
func (r *LoadResult) RawSet(kind, name string) (fieldcheck.Configuration, bool) {
	entries, _ := r.Raw[kind].([]any)
	for _, entry := range entries {
		cfg, err := fieldcheck.FromAny(entry)
		if err != nil {
			continue
		}
		if cast.ToString(cfg["name"]) == name {
			return cfg, true
		}
	}
	return nil, false
}

func (r *LoadResult) Counts() map[string]int {
	counts := make(map[string]int, len(r.Sets))
	for kind, sets := range r.Sets {
		counts[kind] = len(sets)
	}
	return counts
}

// Loader reads parameter sets from a named configuration file on a list of paths.
type Loader struct {
	v      *viper.Viper
	strict bool

	mu      sync.RWMutex
	current *LoadResult
}

// NewLoader returns a Loader for configName on configPaths (default ".").
// In strict mode unknown kinds and unknown keys are errors rather than warnings.
func NewLoader(configPaths []string, configName string, strict bool) *Loader {
	v := bcctx.NewViper()
	if configPaths == nil {
		configPaths = []string{"."}
	}
	for _, configPath := range configPaths {
		v.AddConfigPath(configPath)
	}
	v.SetConfigName(configName)

	return &Loader{v: v, strict: strict}
}

// Load is shorthand for NewLoader(...).Load(ctx).
func Load(ctx context.Context, configPaths []string, configName string, strict bool) (*LoadResult, error) {
	return NewLoader(configPaths, configName, strict).Load(ctx)
}

// Load reads the configuration. A missing file is not an error and yields an empty result.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	log := utils.ContextLogger(ctx, slog.String("context", "config"))

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Info("no configuration file found - using defaults")
			result := newLoadResult()
			l.store(result)
			return result, nil
		}
		log.Error("error reading config", "error", err)
		return nil, errors.Wrap(err, "reading config")
	}

	result, err := l.decode(ctx)
	if err != nil {
		return nil, err
	}
	l.store(result)
	log.Info("config loaded", slog.String("configFile", result.File), slog.Any("sets", result.Counts()))
	return result, nil
}

// Current returns the most recently loaded result, or nil before the first Load.
func (l *Loader) Current() *LoadResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

func (l *Loader) store(result *LoadResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = result
}

// Watch reloads the configuration whenever its file changes and passes the
// outcome to onChange. A failed reload keeps the previous result current.
// Watch does nothing if no configuration file was loaded.
func (l *Loader) Watch(ctx context.Context, onChange func(*LoadResult, error)) {
	log := utils.ContextLogger(ctx, slog.String("context", "config"))

	file := l.v.ConfigFileUsed()
	if file == "" {
		log.Debug("no configuration file to watch")
		return
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		log.Debug("config change", slog.String("file", e.Name), slog.String("op", e.Op.String()))
		if ctx.Err() != nil {
			return
		}

		result, err := l.decode(ctx)
		if err != nil {
			log.Error("failed to update config", "error", err)
			onChange(nil, err)
			return
		}
		l.store(result)
		log.Info("config updated", slog.Any("sets", result.Counts()))
		onChange(result, nil)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode(ctx context.Context) (*LoadResult, error) {
	doc, _, err := readDocument(l.v)
	if err != nil {
		return nil, err
	}

	file := l.v.ConfigFileUsed()
	resolved, err := resolveIncludes(doc, filepath.Dir(file), includeStack{})
	if err != nil {
		return nil, errors.Wrap(err, "resolving includes")
	}

	result := Harden(ctx, resolved, l.strict)
	result.File = file
	return result, nil
}

// ReadFile reads a standalone parameter file (a single flat parameter set,
// includes resolved) as a Configuration. Key case is preserved for YAML and JSON.
func ReadFile(path string) (fieldcheck.Configuration, error) {
	v := bcctx.NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	doc, _, err := readDocument(v)
	if err != nil {
		return nil, err
	}
	return resolveIncludes(doc, filepath.Dir(path), includeStack{})
}

// readDocument parses the file viper selected. YAML and JSON are parsed
// directly because viper folds keys to lower case; other formats fall back to viper.
func readDocument(v *viper.Viper) (map[string]any, []byte, error) {
	file := v.ConfigFileUsed()
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml", ".json":
		var doc map[string]any
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, nil, errors.Wrapf(err, "parsing %s", file)
		}
		if doc == nil {
			doc = make(map[string]any)
		}
		return doc, content, nil
	default:
		return v.AllSettings(), content, nil
	}
}

// Harden decodes every parameter set in doc. Top-level keys are kinds, each
// holding a list of sets. Sets that fail to decode are recorded in Errors.
func Harden(ctx context.Context, doc map[string]any, strict bool) *LoadResult {
	log := utils.ContextLogger(ctx, slog.String("context", "config"))
	result := newLoadResult()
	result.Raw = doc

	for _, kind := range sortedKeys(doc) {
		log := log.With(slog.String("kind", kind))

		if _, err := params.New(kind); err != nil {
			if strict {
				result.Errors = append(result.Errors, params.NewSetError(kind, "", err))
			} else {
				log.Warn("skipping unknown kind")
			}
			continue
		}

		entries, ok := doc[kind].([]any)
		if !ok {
			result.Errors = append(result.Errors, params.NewSetError(kind, "", errors.Wrap(params.ErrInvalidValue, "parameter sets must be a list")))
			continue
		}

		seen := utils.NewSet[string]()
		for i, entry := range entries {
			cfg, err := fieldcheck.FromAny(entry)
			if err != nil {
				result.Errors = append(result.Errors, params.NewSetError(kind, fmt.Sprintf("[%d]", i), err))
				continue
			}

			set, err := params.Decode(kind, cfg)
			var unused *params.UnusedKeysError
			if errors.As(err, &unused) && !strict {
				log.Warn("ignoring unknown keys", slog.String("name", set.GetName()), slog.Any("keys", unused.Keys))
				err = nil
			}
			if err != nil {
				log.Debug("invalid parameter set", slog.Int("index", i), "error", err)
				result.Errors = append(result.Errors, err)
				continue
			}

			if name := set.GetName(); name != "" {
				if seen.Contains(name) {
					result.Errors = append(result.Errors, params.NewSetError(kind, name, errors.Wrap(params.ErrInvalidValue, "duplicate name")))
					continue
				}
				seen.Add(name)
			}

			log.Debug("loaded parameter set", slog.Any("set", set))
			result.Sets[kind] = append(result.Sets[kind], set)
		}
	}

	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
