package detectors

import (
	"github.com/ecmwf-labs/extreme-events/grid"
	"github.com/ecmwf-labs/extreme-events/healpix"
)

// constField is a grid.FieldView that returns the same value everywhere,
// enough to exercise the detectors without a full emulator grid.
type constField struct{ value float64 }

func (f constField) At(point, level int) float64 { return f.value }
func (f constField) Levels() int                 { return 1 }

// stubModelData is a minimal grid.ModelData for detector unit tests: fixed
// NSTEP/TSTEP scalars and a fixed value for every named field.
type stubModelData struct {
	nstep  int
	tstep  float64
	fields map[string]float64
}

func (m *stubModelData) GetInt(name string) (int, bool) {
	if name == "NSTEP" {
		return m.nstep, true
	}
	return 0, false
}

func (m *stubModelData) GetDouble(name string) (float64, bool) {
	if name == "TSTEP" {
		return m.tstep, true
	}
	return 0, false
}

func (m *stubModelData) Field(name string) (grid.FieldView, bool) {
	v, ok := m.fields[name]
	if !ok {
		return nil, false
	}
	return constField{value: v}, true
}

func (m *stubModelData) ListFields() []string {
	names := make([]string, 0, len(m.fields))
	for n := range m.fields {
		names = append(names, n)
	}
	return names
}

func (m *stubModelData) HasParameter(name string) bool {
	_, ok := m.fields[name]
	return ok
}

func (m *stubModelData) FunctionSpace() grid.FunctionSpace { return nil }

func mappingOfSize(n int) *healpix.Mapping {
	p2c := make([]int, n)
	for i := range p2c {
		p2c[i] = i % 3
	}
	return &healpix.Mapping{Resolution: 1, NumCells: 3, Point2Cell: p2c}
}
