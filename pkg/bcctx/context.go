package bcctx

import (
	"context"

	"github.com/spf13/viper"
)

// Context key type - struct to avoid collisions with other packages
type contextKey struct{ name string }

var (
	viperKey  = contextKey{"viper"}
	strictKey = contextKey{"strict"}
)

// NewViper creates an owned viper instance with :: delimiter.
// The :: delimiter keeps dotted field names such as solver_z_kwargs.tol intact.
func NewViper() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter("::"))
}

// ContextWithViper returns a context with viper instance stored
func ContextWithViper(ctx context.Context, v *viper.Viper) context.Context {
	return context.WithValue(ctx, viperKey, v)
}

// Viper returns the viper instance from context.
// Panics if viper was not set - this is a programming error.
func Viper(ctx context.Context) *viper.Viper {
	v, ok := ctx.Value(viperKey).(*viper.Viper)
	if !ok {
		panic("viper not found in context - must call ContextWithViper first")
	}
	return v
}

// ContextWithStrict returns a context in which unknown keys and kinds are errors
func ContextWithStrict(ctx context.Context, strict bool) context.Context {
	return context.WithValue(ctx, strictKey, strict)
}

// StrictFromContext returns the strict setting from context
func StrictFromContext(ctx context.Context) bool {
	if v, ok := ctx.Value(strictKey).(bool); ok {
		return v
	}
	return false
}
