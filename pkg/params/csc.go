package params

import (
	"log/slog"
	"math"
	"slices"

	"github.com/mcuadros/go-defaults"

	"github.com/isometry/burst-config/pkg/fieldcheck"
)

var TypeCSC = "csc"

// CSC holds convolutional dictionary learning parameters.
type CSC struct {
	Name          string        `mapstructure:"name"`
	SFreq         float64       `mapstructure:"sfreq" default:"150"`
	AtomDuration  float64       `mapstructure:"atom_duration" default:"0.5"`
	NAtoms        int           `mapstructure:"n_atoms" default:"20"`
	NTimesAtom    int           `mapstructure:"n_times_atom"`
	Rank1         bool          `mapstructure:"rank1" default:"true"`
	UVConstraint  string        `mapstructure:"uv_constraint" default:"separate"`
	Window        bool          `mapstructure:"window" default:"true"`
	UnbiasedZHat  bool          `mapstructure:"unbiased_z_hat" default:"true"`
	DInit         string        `mapstructure:"D_init" default:"chunk"`
	LambdaMax     string        `mapstructure:"lmbd_max" default:"scaled"`
	Reg           float64       `mapstructure:"reg" default:"0.2"`
	NIter         int           `mapstructure:"n_iter" default:"100"`
	Eps           float64       `mapstructure:"eps" default:"1e-5"`
	SolverZ       string        `mapstructure:"solver_z" default:"lgcd"`
	SolverZKwargs SolverZKwargs `mapstructure:"solver_z_kwargs"`
	SolverD       string        `mapstructure:"solver_d" default:"alternate_adaptive"`
	SolverDKwargs SolverDKwargs `mapstructure:"solver_d_kwargs"`
	SortAtoms     bool          `mapstructure:"sort_atoms" default:"true"`
	Verbose       int           `mapstructure:"verbose" default:"1"`
	RandomState   int           `mapstructure:"random_state" default:"0"`
	UseBatchCDL   bool          `mapstructure:"use_batch_cdl" default:"true"`
	NSplits       int           `mapstructure:"n_splits" default:"10"`
	NJobs         int           `mapstructure:"n_jobs" default:"5"`
}

type SolverZKwargs struct {
	Tol     float64 `mapstructure:"tol" default:"1e-3"`
	MaxIter int     `mapstructure:"max_iter" default:"1000"`
}

type SolverDKwargs struct {
	MaxIter int `mapstructure:"max_iter" default:"300"`
}

var (
	uvConstraints = []string{"auto", "joint", "separate"}
	dInits        = []string{"chunk", "random", "kmeans", "greedy", "ssa"}
	lambdaMaxes   = []string{"fixed", "scaled", "per_atom", "shared"}
	solversZ      = []string{"lgcd", "l-bfgs"}
	solversD      = []string{"auto", "alternate", "alternate_adaptive", "joint", "fista"}
)

func (c *CSC) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", c.Name),
		slog.Int("nAtoms", c.NAtoms),
		slog.Int("nTimesAtom", c.NTimesAtom),
		slog.Float64("reg", c.Reg),
		slog.String("solverZ", c.SolverZ),
		slog.String("solverD", c.SolverD),
	)
}

func (c *CSC) GetKind() string {
	return TypeCSC
}

func (c *CSC) GetName() string {
	return c.Name
}

func (c *CSC) SetDefaults() {
	defaults.SetDefaults(c)
}

func (c *CSC) RequiredFields() []string {
	return nil
}

// Complete derives the atom length in samples from atom_duration and sfreq
// unless n_times_atom is given.
func (c *CSC) Complete(cfg fieldcheck.Configuration) {
	if !supplied(cfg, "n_times_atom") {
		c.NTimesAtom = int(math.Round(c.AtomDuration * c.SFreq))
	}
}

func (c *CSC) Validate() error {
	switch {
	case c.NAtoms < 1:
		return invalid("n_atoms must be at least 1, got %d", c.NAtoms)
	case c.NTimesAtom < 1:
		return invalid("n_times_atom must be at least 1, got %d", c.NTimesAtom)
	case c.Reg <= 0:
		return invalid("reg must be positive, got %v", c.Reg)
	case c.NIter < 1:
		return invalid("n_iter must be at least 1, got %d", c.NIter)
	case c.Eps <= 0:
		return invalid("eps must be positive, got %v", c.Eps)
	case c.SolverZKwargs.Tol <= 0:
		return invalid("solver_z_kwargs.tol must be positive, got %v", c.SolverZKwargs.Tol)
	case c.SolverZKwargs.MaxIter < 1 || c.SolverDKwargs.MaxIter < 1:
		return invalid("solver max_iter must be at least 1")
	case c.NSplits < 1:
		return invalid("n_splits must be at least 1, got %d", c.NSplits)
	case c.NJobs == 0:
		return invalid("n_jobs must not be zero")
	}

	for _, choice := range []struct {
		field, value string
		allowed      []string
	}{
		{"uv_constraint", c.UVConstraint, uvConstraints},
		{"D_init", c.DInit, dInits},
		{"lmbd_max", c.LambdaMax, lambdaMaxes},
		{"solver_z", c.SolverZ, solversZ},
		{"solver_d", c.SolverD, solversD},
	} {
		if !slices.Contains(choice.allowed, choice.value) {
			return invalid("%s must be one of %v, got %q", choice.field, choice.allowed, choice.value)
		}
	}

	if !c.Rank1 && c.UVConstraint == "separate" {
		return invalid("uv_constraint %q requires rank1", c.UVConstraint)
	}
	return nil
}
