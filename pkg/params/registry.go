package params

import (
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/isometry/burst-config/pkg/fieldcheck"
)

// Set is the interface implemented by the parameter set of every burst-detection method.
type Set interface {
	slog.LogValuer
	// GetKind returns the method kind, e.g. "swm"
	GetKind() string
	// GetName returns the name of the parameter set
	GetName() string
	// SetDefaults fills unset fields from their default tags
	SetDefaults()
	// RequiredFields lists the keys a configuration must supply
	RequiredFields() []string
	// Validate checks value constraints after decoding
	Validate() error
}

// Completer is implemented by sets with fields derived from others when the
// configuration does not supply them.
type Completer interface {
	Complete(cfg fieldcheck.Configuration)
}

var (
	kinds = map[string]reflect.Type{}
	mu    sync.RWMutex
)

// Register adds a parameter set type to the registry.
func Register(kind string, set Set) {
	mu.Lock()
	defer mu.Unlock()

	kinds[kind] = reflect.TypeOf(set)
}

// Kinds returns the registered kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()

	list := make([]string, 0, len(kinds))
	for kind := range kinds {
		list = append(list, kind)
	}
	slices.Sort(list)
	return list
}

// New returns a zero parameter set of the given kind.
func New(kind string) (Set, error) {
	mu.RLock()
	setType, ok := kinds[kind]
	mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	return reflect.New(setType.Elem()).Interface().(Set), nil
}

func init() {
	Register(TypeSWM, new(SWM))
	Register(TypeCSC, new(CSC))
	Register(TypePAPTO, new(PAPTO))
	Register(TypeThreshold, new(Threshold))
}
