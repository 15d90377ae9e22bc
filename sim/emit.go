package sim

import (
	"fmt"
	"io"
	"os"

	macflow "github.com/fluidlab/macflow"
	"github.com/fluidlab/macflow/grid"
)

// Snapshot is one step's finalized output. Diag is always set; the field
// pointers are deep copies and are only populated on output-cadence steps,
// so mutating the live fields afterwards never changes an emitted snapshot.
type Snapshot struct {
	Step int
	Time float64
	Diag macflow.Diagnostics

	Velocity   *grid.Velocity
	Pressure   *grid.Scalar
	Divergence *grid.Scalar
}

// Emitter consumes snapshots. Emit is called from the driver's emission
// goroutine, never from the compute loop.
type Emitter interface {
	Emit(s *Snapshot) error
	Close() error
}

// MetricsWriter appends one whitespace-separated row per step to w, in the
// column layout plotmetrics reads. The header is a # comment line.
type MetricsWriter struct {
	w      io.Writer
	closer io.Closer
	wrote  bool
}

// MetricsColumns names the row layout, in order.
var MetricsColumns = []string{
	"step", "time", "dt", "passes",
	"max_div_pre", "max_div_post", "mean_div_post",
	"max_velocity", "global_cfl", "residual", "kinetic_energy",
	"damped", "overflow",
}

// NewMetricsWriter writes rows to w.
func NewMetricsWriter(w io.Writer) *MetricsWriter {
	return &MetricsWriter{w: w}
}

// CreateMetricsFile creates path and returns a writer that owns the file.
func CreateMetricsFile(path string) (*MetricsWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &MetricsWriter{w: f, closer: f}, nil
}

func (m *MetricsWriter) Emit(s *Snapshot) error {
	if !m.wrote {
		m.wrote = true
		fmt.Fprint(m.w, "#")
		for _, c := range MetricsColumns {
			fmt.Fprintf(m.w, " %s", c)
		}
		fmt.Fprintln(m.w)
	}

	d := &s.Diag
	b2i := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}
	_, err := fmt.Fprintf(m.w,
		"%d %.9g %.9g %d %.9g %.9g %.9g %.9g %.9g %.9g %.9g %d %d\n",
		s.Step, s.Time, d.Dt, d.ProjectionPasses,
		d.MaxDivPre, d.MaxDivPost, d.MeanDivPost,
		d.MaxVelocity, d.GlobalCFL, d.Residual, d.KineticEnergy,
		b2i(d.DampingApplied), b2i(d.OverflowDetected),
	)
	return err
}

func (m *MetricsWriter) Close() error {
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}

// MultiEmitter fans one snapshot out to several emitters, stopping at the
// first error.
type MultiEmitter []Emitter

func (me MultiEmitter) Emit(s *Snapshot) error {
	for _, e := range me {
		if err := e.Emit(s); err != nil {
			return err
		}
	}
	return nil
}

func (me MultiEmitter) Close() error {
	var first error
	for _, e := range me {
		if err := e.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
