/*package bc enforces boundary conditions on the ghost layer of the
velocity and pressure fields.

Conditions are registered once at startup and applied by the integrator:
a tentative application after the prediction step touches velocity only,
and the final application after projection touches both fields. A broken
condition is skipped with a logged warning rather than halting the run,
so a single malformed boundary only degrades fidelity.
*/
package bc

import (
	"fmt"
	"log"

	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/grid"
)

// Kind is the boundary condition type.
type Kind int

const (
	// Dirichlet sets ghost cells to a configured constant.
	Dirichlet Kind = iota
	// Neumann copies the paired interior cell into the ghost (zero
	// gradient).
	Neumann
	// Outflow sets the pressure ghost to a configured constant and treats
	// the velocity ghost as Neumann.
	Outflow
)

func (k Kind) String() string {
	switch k {
	case Dirichlet:
		return "dirichlet"
	case Neumann:
		return "neumann"
	case Outflow:
		return "outflow"
	}
	return "unknown"
}

// ParseKind maps a configuration string to a Kind. "pressure_outlet" is an
// accepted alias for "outflow".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "dirichlet":
		return Dirichlet, nil
	case "neumann":
		return Neumann, nil
	case "outflow", "pressure_outlet":
		return Outflow, nil
	}
	return 0, macflow.Configf("unknown boundary condition type %q", s)
}

// Face selects one of the six domain faces.
type Face int

const (
	XMin Face = iota
	XMax
	YMin
	YMax
	ZMin
	ZMax
	// FaceNone marks a condition carrying an explicit index set instead
	// of a whole face.
	FaceNone
)

var faceNames = map[string]Face{
	"x-": XMin, "x+": XMax,
	"y-": YMin, "y+": YMax,
	"z-": ZMin, "z+": ZMax,
}

// ParseFace maps a configuration string ("x-", "z+", ...) to a Face.
func ParseFace(s string) (Face, error) {
	f, ok := faceNames[s]
	if !ok {
		return 0, macflow.Configf("unknown boundary face %q", s)
	}
	return f, nil
}

func (f Face) String() string {
	for s, ff := range faceNames {
		if ff == f {
			return s
		}
	}
	return "none"
}

// Index addresses one padded cell as (i, j, k).
type Index [3]int

// FieldSet selects which fields a condition applies to.
type FieldSet struct {
	Velocity bool
	Pressure bool
}

// Condition is one registered boundary condition. Face-based conditions
// get their Ghost/Interior index pairs expanded at registration; custom
// conditions supply them directly. Interior may be left empty for a
// Dirichlet condition, but a Neumann or Outflow velocity application
// without pairs degrades to a warned no-op.
type Condition struct {
	Role    string
	Kind    Kind
	Face    Face
	ApplyTo FieldSet

	Velocity *[3]float64
	Pressure *float64

	Ghost    []Index
	Interior []Index
}

// Registry holds the validated conditions for one grid.
type Registry struct {
	g      *grid.Grid
	arena  *grid.Arena
	log    *log.Logger
	conds  []Condition
	warned map[string]bool
}

// NewRegistry returns an empty registry for g. Warnings go to logger.
func NewRegistry(g *grid.Grid, logger *log.Logger) *Registry {
	return &Registry{
		g: g, arena: grid.NewArena(g),
		log: logger, warned: map[string]bool{},
	}
}

// Register validates c and adds it to the registry. A condition whose type
// requires a value that is absent fails with a BoundaryConditionError.
func (r *Registry) Register(c Condition) error {
	if !c.ApplyTo.Velocity && !c.ApplyTo.Pressure {
		return &macflow.BoundaryConditionError{
			Role: c.Role, Reason: "applies to neither velocity nor pressure",
		}
	}
	if c.Kind == Dirichlet && c.ApplyTo.Velocity && c.Velocity == nil {
		return &macflow.BoundaryConditionError{
			Role: c.Role, Reason: "dirichlet velocity condition without a velocity value",
		}
	}
	if c.ApplyTo.Pressure && c.Kind != Neumann && c.Pressure == nil {
		return &macflow.BoundaryConditionError{
			Role: c.Role, Reason: "pressure condition without a pressure value",
		}
	}
	if len(c.Ghost) != 0 && len(c.Interior) != 0 &&
		len(c.Ghost) != len(c.Interior) {
		return &macflow.BoundaryConditionError{
			Role: c.Role, Reason: fmt.Sprintf(
				"%d ghost indices paired with %d interior indices",
				len(c.Ghost), len(c.Interior)),
		}
	}
	if len(c.Ghost) == 0 {
		if c.Face == FaceNone {
			return &macflow.BoundaryConditionError{
				Role: c.Role, Reason: "no face and no explicit ghost indices",
			}
		}
		c.Ghost, c.Interior = r.expandFace(c.Face)
	}
	r.conds = append(r.conds, c)
	return nil
}

// Conditions returns the registered conditions.
func (r *Registry) Conditions() []Condition { return r.conds }

// direction maps a face to its outward neighbor direction.
func (f Face) direction() grid.Direction {
	switch f {
	case XMin:
		return grid.XMinus
	case XMax:
		return grid.XPlus
	case YMin:
		return grid.YMinus
	case YMax:
		return grid.YPlus
	case ZMin:
		return grid.ZMinus
	}
	return grid.ZPlus
}

// expandFace lists every ghost cell of a face with its interior pair. The
// pairing is an arena neighbor lookup pointing inward from the ghost.
func (r *Registry) expandFace(f Face) (ghost, interior []Index) {
	g, a := r.g, r.arena
	dir := f.direction().Inward()
	add := func(gi Index) {
		ghost = append(ghost, gi)
		i, j, k := a.Coords(a.Neighbor(a.Idx(gi[0], gi[1], gi[2]), dir))
		interior = append(interior, Index{i, j, k})
	}
	switch f {
	case XMin, XMax:
		gi := 0
		if f == XMax {
			gi = g.Nx + 1
		}
		for k := 1; k <= g.Nz; k++ {
			for j := 1; j <= g.Ny; j++ {
				add(Index{gi, j, k})
			}
		}
	case YMin, YMax:
		gj := 0
		if f == YMax {
			gj = g.Ny + 1
		}
		for k := 1; k <= g.Nz; k++ {
			for i := 1; i <= g.Nx; i++ {
				add(Index{i, gj, k})
			}
		}
	case ZMin, ZMax:
		gk := 0
		if f == ZMax {
			gk = g.Nz + 1
		}
		for j := 1; j <= g.Ny; j++ {
			for i := 1; i <= g.Nx; i++ {
				add(Index{i, j, gk})
			}
		}
	}
	return ghost, interior
}

func (r *Registry) warnOnce(role, reason string) {
	key := role + "/" + reason
	if r.warned[key] {
		return
	}
	r.warned[key] = true
	if r.log != nil {
		r.log.Printf("boundary condition %q skipped: %s", role, reason)
	}
}

// Apply enforces every registered condition on the ghost layers. Pressure
// is only touched when final is set, so the tentative application after
// the prediction step cannot contaminate the projection's right hand side.
func (r *Registry) Apply(vel *grid.Velocity, p *grid.Scalar, final bool) {
	for i := range r.conds {
		c := &r.conds[i]
		if c.ApplyTo.Velocity {
			r.applyVelocity(c, vel)
		}
		if c.ApplyTo.Pressure && final {
			r.applyPressure(c, p)
		}
	}
}

func (r *Registry) applyVelocity(c *Condition, vel *grid.Velocity) {
	switch c.Kind {
	case Dirichlet:
		if c.Velocity == nil {
			r.warnOnce(c.Role, "missing velocity value")
			return
		}
		for _, gi := range c.Ghost {
			vel.U.Set(gi[0], gi[1], gi[2], c.Velocity[0])
			vel.V.Set(gi[0], gi[1], gi[2], c.Velocity[1])
			vel.W.Set(gi[0], gi[1], gi[2], c.Velocity[2])
		}
	case Neumann, Outflow:
		if len(c.Interior) != len(c.Ghost) {
			r.warnOnce(c.Role, "no interior pairing for zero-gradient copy")
			return
		}
		for n, gi := range c.Ghost {
			ii := c.Interior[n]
			vel.U.Set(gi[0], gi[1], gi[2], vel.U.At(ii[0], ii[1], ii[2]))
			vel.V.Set(gi[0], gi[1], gi[2], vel.V.At(ii[0], ii[1], ii[2]))
			vel.W.Set(gi[0], gi[1], gi[2], vel.W.At(ii[0], ii[1], ii[2]))
		}
	}
}

func (r *Registry) applyPressure(c *Condition, p *grid.Scalar) {
	switch c.Kind {
	case Dirichlet, Outflow:
		if c.Pressure == nil {
			r.warnOnce(c.Role, "missing pressure value")
			return
		}
		for _, gi := range c.Ghost {
			p.Set(gi[0], gi[1], gi[2], *c.Pressure)
		}
	case Neumann:
		if len(c.Interior) != len(c.Ghost) {
			r.warnOnce(c.Role, "no interior pairing for zero-gradient copy")
			return
		}
		for n, gi := range c.Ghost {
			ii := c.Interior[n]
			p.Set(gi[0], gi[1], gi[2], p.At(ii[0], ii[1], ii[2]))
		}
	}
}
