// Package emulator is a synthetic NWP host: it builds a regular lat/lon
// grid, fills it with smooth time-varying test fields, and exposes them
// through the same grid.FunctionSpace/grid.ModelData interfaces a real
// host would, so the detection pipeline and the CLI can run end to end
// without a real model. Grounded on original_source/nwp_emulator's
// FieldGenerator/updateField, adapted from Atlas's distributed structured
// columns to a single-process regular grid.
package emulator

import (
	"math"

	"github.com/ecmwf-labs/extreme-events/ee"
	"github.com/ecmwf-labs/extreme-events/grid"
)

// Grid is a single-process synthetic model grid: nx longitude points per
// row, ny latitude rows, an outer ring of halo rows/columns marked as
// ghost points, and nLevels vertical levels for 3D fields.
type Grid struct {
	nx, ny, halo, levels int

	lonlat [][2]float64
	ghost  []uint8

	nstep int
	tstep float64
	step  int // index into the demo coordinate tables, wrapping at their length

	fields map[string]*gridField
}

type gridField struct {
	levels int
	data   []float64 // point-major: data[point*levels+level]
}

func (f *gridField) At(point, level int) float64 { return f.data[point*f.levels+level] }
func (f *gridField) Levels() int                 { return f.levels }

// New builds a Grid of nx x ny points with the given halo width (rows and
// columns at each edge marked as ghost) and nLevels vertical levels, and
// populates it with the step-0 synthetic fields.
func New(nx, ny, halo, levels int) (*Grid, error) {
	if nx <= 2*halo || ny <= 2*halo {
		return nil, &ee.BadValue{Field: "nx,ny", Value: [2]int{nx, ny}, Msg: "grid must be larger than twice the halo width"}
	}
	if levels < 1 {
		return nil, &ee.BadValue{Field: "levels", Value: levels, Msg: "must be at least 1"}
	}

	g := &Grid{nx: nx, ny: ny, halo: halo, levels: levels, tstep: 900, fields: map[string]*gridField{}}
	g.buildFunctionSpace()
	g.regenerate()
	return g, nil
}

func (g *Grid) buildFunctionSpace() {
	n := g.nx * g.ny
	g.lonlat = make([][2]float64, n)
	g.ghost = make([]uint8, n)

	for j := 0; j < g.ny; j++ {
		lat := 90.0 - (float64(j)+0.5)*(180.0/float64(g.ny))
		for i := 0; i < g.nx; i++ {
			lon := (float64(i) + 0.5) * (360.0 / float64(g.nx))
			idx := j*g.nx + i
			g.lonlat[idx] = [2]float64{lon, lat}
			if i < g.halo || i >= g.nx-g.halo || j < g.halo || j >= g.ny-g.halo {
				g.ghost[idx] = 1
			}
		}
	}
}

// Size, Ghost and LonLat implement grid.FunctionSpace.
func (g *Grid) Size() int            { return len(g.lonlat) }
func (g *Grid) Ghost() []uint8       { return g.ghost }
func (g *Grid) LonLat() [][2]float64 { return g.lonlat }

// GetInt implements grid.ModelData for the "NSTEP" scalar.
func (g *Grid) GetInt(name string) (int, bool) {
	if name == "NSTEP" {
		return g.nstep, true
	}
	return 0, false
}

// GetDouble implements grid.ModelData for the "TSTEP" scalar, in seconds.
func (g *Grid) GetDouble(name string) (float64, bool) {
	switch name {
	case "TSTEP":
		return g.tstep, true
	case "NFLEVG":
		return float64(g.levels), true
	}
	return 0, false
}

// Field implements grid.ModelData.
func (g *Grid) Field(name string) (grid.FieldView, bool) {
	f, ok := g.fields[name]
	if !ok {
		return nil, false
	}
	return f, true
}

// ListFields implements grid.ModelData.
func (g *Grid) ListFields() []string {
	names := make([]string, 0, len(g.fields))
	for n := range g.fields {
		names = append(names, n)
	}
	return names
}

// HasParameter implements grid.ModelData.
func (g *Grid) HasParameter(name string) bool {
	switch name {
	case "NSTEP", "TSTEP", "NFLEVG":
		return true
	}
	_, ok := g.fields[name]
	return ok
}

// FunctionSpace implements grid.ModelData.
func (g *Grid) FunctionSpace() grid.FunctionSpace { return g }

// Step advances the emulator by one model step: NSTEP increments, and
// every field is regenerated for the new step index.
func (g *Grid) Step() {
	g.nstep++
	g.step = (g.step + 1) % len(demoHighCoords)
	g.regenerate()
}

func (g *Grid) regenerate() {
	n := len(g.lonlat)
	t := float64(g.step) / float64(len(demoHighCoords))

	u := &gridField{levels: g.levels, data: make([]float64, n*g.levels)}
	v := &gridField{levels: g.levels, data: make([]float64, n*g.levels)}
	for p := 0; p < n; p++ {
		lon, lat := g.lonlat[p][0], g.lonlat[p][1]
		for lvl := 0; lvl < g.levels; lvl++ {
			lt := t + float64(lvl)/float64(g.levels)
			u.data[p*g.levels+lvl] = syntheticWind(lon, lat, lt)
			v.data[p*g.levels+lvl] = syntheticWind(lon+90, lat, lt)
		}
	}
	g.fields["u"] = u
	g.fields["v"] = v

	u100 := &gridField{levels: 1, data: make([]float64, n)}
	v100 := &gridField{levels: 1, data: make([]float64, n)}
	for p := 0; p < n; p++ {
		lon, lat := g.lonlat[p][0], g.lonlat[p][1]
		u100.data[p] = demoSurfaceSpeed(lon, lat, g.step)
		v100.data[p] = 0
	}
	g.fields["100u"] = u100
	g.fields["100v"] = v100
}

// syntheticWind approximates the shape of a rotating double-vortex test
// field in the spirit of the FieldGenerator's vortex-rollup based 3D
// fields, without reproducing Atlas's exact formula (not available in
// the reference material this module was built from). It is a smooth,
// time-varying function bounded in [-1, 1], sufficient to exercise
// threshold- and band-based detection without claiming bit-for-bit
// equivalence to the original test field.
func syntheticWind(lonDeg, latDeg, t float64) float64 {
	lon := lonDeg * math.Pi / 180
	lat := latDeg * math.Pi / 180
	phase := lon - 2*math.Pi*t
	return math.Sin(lat) * math.Cos(phase) * math.Exp(-math.Abs(lat))
}

// demoSurfaceSpeed reproduces updateField's scripted background-plus-spike
// demo pattern for the 2D 100u field: a flat background of 10 m/s, with
// a handful of scripted points bumped to 30 m/s (an "extreme wind" spike)
// or dropped to 0 m/s (a "wind drought" point) at each step, cycling
// through the demoHighCoords/demoLowCoords tables.
func demoSurfaceSpeed(lonDeg, latDeg float64, step int) float64 {
	const tol = 0.1
	for _, p := range demoHighCoords[step%len(demoHighCoords)] {
		if math.Abs(lonDeg-p[0]) < tol && math.Abs(latDeg-p[1]) < tol {
			return 30.0
		}
	}
	for _, p := range demoLowCoords[step%len(demoLowCoords)] {
		if math.Abs(lonDeg-p[0]) < tol && math.Abs(latDeg-p[1]) < tol {
			return 0.0
		}
	}
	return 10.0
}
