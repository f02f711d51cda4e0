package fluid

import (
	"fmt"

	"github.com/sgshea/fluidsim/internal/field"
)

const (
	DefaultViscosity            = 0.0001
	DefaultDiffusionRate        = 0.0001
	DefaultJacobiIterations     = 20
	DefaultProjectionIterations = 40
	DefaultMaxDt                = 1.0 / 30.0
)

// Config holds the numerical parameters of a simulation. Rates are
// expressed per squared cell width per second; the grid spacing is 1.
type Config struct {
	// Viscosity is the implicit diffusion rate applied to velocity.
	Viscosity float64
	// DiffusionRate is the implicit diffusion rate applied to dye.
	DiffusionRate float64
	// JacobiIterations is the fixed relaxation budget per diffusion solve.
	JacobiIterations int
	// ProjectionIterations is the fixed relaxation budget for the
	// pressure Poisson solve.
	ProjectionIterations int
	// MaxDt caps the per-tick time step to bound advection error.
	MaxDt float64
	// Gravity is a constant body acceleration applied to v each tick.
	Gravity float64
	// Confinement scales the vorticity confinement force; 0 disables it.
	Confinement float64
	// Boundary selects the wall condition for velocity.
	Boundary field.Policy
}

func DefaultConfig() Config {
	return Config{
		Viscosity:            DefaultViscosity,
		DiffusionRate:        DefaultDiffusionRate,
		JacobiIterations:     DefaultJacobiIterations,
		ProjectionIterations: DefaultProjectionIterations,
		MaxDt:                DefaultMaxDt,
		Boundary:             field.NoSlip,
	}
}

func (c Config) validate() error {
	if c.Viscosity < 0 {
		return fmt.Errorf("%w: viscosity %f is negative", ErrConfiguration, c.Viscosity)
	}
	if c.DiffusionRate < 0 {
		return fmt.Errorf("%w: diffusion rate %f is negative", ErrConfiguration, c.DiffusionRate)
	}
	if c.JacobiIterations <= 0 {
		return fmt.Errorf("%w: jacobi iterations must be positive, got %d", ErrConfiguration, c.JacobiIterations)
	}
	if c.ProjectionIterations <= 0 {
		return fmt.Errorf("%w: projection iterations must be positive, got %d", ErrConfiguration, c.ProjectionIterations)
	}
	if c.MaxDt <= 0 {
		return fmt.Errorf("%w: max dt must be positive, got %f", ErrConfiguration, c.MaxDt)
	}
	if c.Confinement < 0 {
		return fmt.Errorf("%w: confinement %f is negative", ErrConfiguration, c.Confinement)
	}
	if c.Boundary != field.NoSlip && c.Boundary != field.FreeSlip {
		return fmt.Errorf("%w: unknown boundary policy %d", ErrConfiguration, c.Boundary)
	}
	return nil
}
