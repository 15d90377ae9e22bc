package macflow

import "fmt"

// ConfigurationError reports invalid setup detected before or at solver
// construction: malformed grids, field shape mismatches, or a multigrid
// depth the grid cannot support. Always fatal, never raised mid-run.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// Configf returns a new ConfigurationError with a formatted reason.
func Configf(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// BoundaryConditionError reports a boundary condition whose registry entry
// lacks a value its type requires. Raised when the condition is registered.
type BoundaryConditionError struct {
	Role   string
	Reason string
}

func (e *BoundaryConditionError) Error() string {
	return fmt.Sprintf("boundary condition %q: %s", e.Role, e.Reason)
}

// NumericalInstabilityError reports NaN or Inf values found in a field after
// a completed step. The step is not retried and the run halts.
type NumericalInstabilityError struct {
	Step  int
	Field string
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf(
		"numerical instability: NaN/Inf in %s field after step %d",
		e.Field, e.Step,
	)
}

// ExtremeInstabilityError reports a diagnostic that crossed its hard abort
// threshold. Checked independently of, and stricter than, the scheduler's
// time-step and projection-pass reflexes.
type ExtremeInstabilityError struct {
	Metric    string
	Value     float64
	Threshold float64
}

func (e *ExtremeInstabilityError) Error() string {
	return fmt.Sprintf(
		"extreme instability: %s = %g exceeds abort threshold %g",
		e.Metric, e.Value, e.Threshold,
	)
}
