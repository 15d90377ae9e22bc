package bc

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/grid"
)

func testRegistry(t *testing.T) (*Registry, *grid.Grid, *bytes.Buffer) {
	g, err := grid.New(3, 3, 3, 1, 1, 1)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	buf := &bytes.Buffer{}
	return NewRegistry(g, log.New(buf, "", 0)), g, buf
}

func TestParseKind(t *testing.T) {
	table := []struct {
		s    string
		kind Kind
		ok   bool
	}{
		{"dirichlet", Dirichlet, true},
		{"neumann", Neumann, true},
		{"outflow", Outflow, true},
		{"pressure_outlet", Outflow, true},
		{"periodic", 0, false},
	}
	for i, tc := range table {
		kind, err := ParseKind(tc.s)
		if tc.ok && (err != nil || kind != tc.kind) {
			t.Errorf("%d) ParseKind(%q) = (%v, %v).", i, tc.s, kind, err)
		} else if !tc.ok && err == nil {
			t.Errorf("%d) ParseKind(%q) succeeded.", i, tc.s)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	table := []struct {
		name string
		c    Condition
	}{
		{"no fields", Condition{Role: "a", Kind: Neumann, Face: XMin}},
		{"dirichlet velocity without value", Condition{
			Role: "b", Kind: Dirichlet, Face: XMin,
			ApplyTo: FieldSet{Velocity: true},
		}},
		{"outflow pressure without value", Condition{
			Role: "c", Kind: Outflow, Face: XMax,
			ApplyTo: FieldSet{Pressure: true},
		}},
		{"no face, no indices", Condition{
			Role: "d", Kind: Neumann, Face: FaceNone,
			ApplyTo: FieldSet{Velocity: true},
		}},
		{"mismatched pairing", Condition{
			Role: "e", Kind: Neumann, Face: FaceNone,
			ApplyTo:  FieldSet{Velocity: true},
			Ghost:    []Index{{0, 1, 1}, {0, 2, 1}},
			Interior: []Index{{1, 1, 1}},
		}},
	}

	r, _, _ := testRegistry(t)
	for _, tc := range table {
		err := r.Register(tc.c)
		if err == nil {
			t.Errorf("%s: Register succeeded.", tc.name)
			continue
		}
		if _, ok := err.(*macflow.BoundaryConditionError); !ok {
			t.Errorf("%s: got error type %T.", tc.name, err)
		}
	}
	assert.Empty(t, r.Conditions())
}

func TestDirichletVelocityGhost(t *testing.T) {
	r, g, _ := testRegistry(t)
	val := [3]float64{5, 0, 0}
	err := r.Register(Condition{
		Role: "inlet", Kind: Dirichlet, Face: FaceNone,
		ApplyTo:  FieldSet{Velocity: true},
		Velocity: &val,
		Ghost:    []Index{{0, 1, 1}},
	})
	assert.NoError(t, err)

	vel := grid.NewVelocity(g)
	p := grid.NewScalar(g)
	p.Set(0, 1, 1, 7.0)
	r.Apply(vel, p, true)

	assert.Equal(t, 5.0, vel.U.At(0, 1, 1))
	assert.Equal(t, 0.0, vel.V.At(0, 1, 1))
	assert.Equal(t, 0.0, vel.W.At(0, 1, 1))
	assert.Equal(t, 7.0, p.At(0, 1, 1))
}

func TestNeumannFaceExpansion(t *testing.T) {
	r, g, _ := testRegistry(t)
	err := r.Register(Condition{
		Role: "wall", Kind: Neumann, Face: XMin,
		ApplyTo: FieldSet{Velocity: true, Pressure: true},
	})
	assert.NoError(t, err)

	vel := grid.NewVelocity(g)
	p := grid.NewScalar(g)
	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			vel.U.Set(1, j, k, float64(10*j+k))
			p.Set(1, j, k, float64(j-k))
		}
	}
	r.Apply(vel, p, true)

	for k := 1; k <= g.Nz; k++ {
		for j := 1; j <= g.Ny; j++ {
			assert.Equal(t, vel.U.At(1, j, k), vel.U.At(0, j, k))
			assert.Equal(t, p.At(1, j, k), p.At(0, j, k))
		}
	}
}

func TestPressureOnlyTouchedOnFinalPass(t *testing.T) {
	r, g, _ := testRegistry(t)
	pVal := 2.5
	err := r.Register(Condition{
		Role: "outlet", Kind: Outflow, Face: XMax,
		ApplyTo:  FieldSet{Velocity: true, Pressure: true},
		Pressure: &pVal,
	})
	assert.NoError(t, err)

	vel := grid.NewVelocity(g)
	vel.U.Set(g.Nx, 2, 2, 3.0)
	p := grid.NewScalar(g)

	r.Apply(vel, p, false)
	assert.Equal(t, 3.0, vel.U.At(g.Nx+1, 2, 2))
	assert.Equal(t, 0.0, p.At(g.Nx+1, 2, 2))

	r.Apply(vel, p, true)
	assert.Equal(t, pVal, p.At(g.Nx+1, 2, 2))
}

func TestBrokenConditionSkipsWithWarning(t *testing.T) {
	r, g, buf := testRegistry(t)
	err := r.Register(Condition{
		Role: "ragged", Kind: Neumann, Face: FaceNone,
		ApplyTo: FieldSet{Velocity: true},
		Ghost:   []Index{{0, 1, 1}},
	})
	assert.NoError(t, err)

	vel := grid.NewVelocity(g)
	vel.U.Set(1, 1, 1, 4.0)
	r.Apply(vel, grid.NewScalar(g), true)

	assert.Equal(t, 0.0, vel.U.At(0, 1, 1))
	assert.True(t, strings.Contains(buf.String(), "ragged"))

	// repeated applications warn once
	n := len(buf.String())
	r.Apply(vel, grid.NewScalar(g), true)
	assert.Equal(t, n, len(buf.String()))
}
