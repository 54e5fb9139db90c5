package detectors

import (
	"math"
	"sort"

	"github.com/ecmwf-labs/extreme-events/ee"
	"github.com/ecmwf-labs/extreme-events/grid"
	"github.com/ecmwf-labs/extreme-events/healpix"
	"github.com/ecmwf-labs/extreme-events/registry"
)

func init() {
	registry.Register("storm", newStorm)
}

var stormRequiredFields = []string{"100u", "100v"}

// stormDetector fires a cell when the summed wind-speed magnitude over the
// last T steps at any point mapped to that cell exceeds a cutout scaled by
// T, i.e. the average over the window strictly exceeds the cutout. Speeds
// are kept in the window as fixed-point q16 (round(m/s * 100)) the way the
// source's deque<uint16_t> does, to keep the sliding-window buffer small.
type stormDetector struct {
	mapping     *healpix.Mapping
	cutoutQ16   uint16
	windowMins  float64
	description string

	initialized bool
	t           int
	n           int
	buffer      []uint16 // newest slice first, T*N long
}

func newStorm(cfg registry.Config, md grid.ModelData, mapping *healpix.Mapping) (registry.Detector, error) {
	got := append([]string(nil), cfg.RequiredFields...)
	sort.Strings(got)
	want := append([]string(nil), stormRequiredFields...)
	sort.Strings(want)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		return nil, &ee.BadValue{Field: "required_fields", Value: cfg.RequiredFields, Msg: "storm requires exactly {100u, 100v}"}
	}

	cutout := toFloat(cfg.Raw["wind_speed_cutout"])
	if cutout < 0 || cutout > 655.35 {
		return nil, &ee.BadValue{Field: "wind_speed_cutout", Value: cutout, Msg: "must be in [0, 655.35]"}
	}
	windowMins := toFloat(cfg.Raw["time_window"])
	if windowMins < 0 {
		return nil, &ee.BadValue{Field: "time_window", Value: windowMins, Msg: "must be non-negative"}
	}
	description, _ := cfg.Raw["description"].(string)
	if description == "" {
		description = "storm"
	}

	return &stormDetector{
		mapping:     mapping,
		cutoutQ16:   uint16(math.Round(cutout * 100)),
		windowMins:  windowMins,
		description: description,
	}, nil
}

func (d *stormDetector) ensureInitialized(md grid.ModelData) {
	if d.initialized {
		return
	}
	tstep, _ := md.GetDouble("TSTEP")
	if tstep <= 0 {
		tstep = 1
	}
	d.n = len(d.mapping.Point2Cell)
	d.t = int(math.Ceil(d.windowMins * 60 / tstep))
	if d.t < 1 {
		d.t = 1
	}
	d.buffer = make([]uint16, d.t*d.n)
	d.initialized = true
}

func (d *stormDetector) Detect(md grid.ModelData) []registry.DetectionData {
	d.ensureInitialized(md)

	uView, uOK := md.Field("100u")
	vView, vOK := md.Field("100v")
	current := make([]uint16, d.n)
	for i := 0; i < d.n; i++ {
		var u, v float64
		if uOK {
			u = uView.At(i, 0)
		}
		if vOK {
			v = vView.At(i, 0)
		}
		current[i] = uint16(math.Round(math.Hypot(u, v) * 100))
	}

	// Drop the oldest slice, prepend the current one.
	shifted := make([]uint16, len(d.buffer))
	copy(shifted, current)
	copy(shifted[d.n:], d.buffer[:len(d.buffer)-d.n])
	d.buffer = shifted

	nstep, _ := md.GetInt("NSTEP")
	if nstep < d.t {
		return nil
	}

	cellMax := map[int]uint32{}
	for i := 0; i < d.n; i++ {
		cell := d.mapping.Point2Cell[i]
		if cell == healpix.NoCell {
			continue
		}
		var sum uint32
		for t := 0; t < d.t; t++ {
			sum += uint32(d.buffer[t*d.n+i])
		}
		if sum > cellMax[cell] {
			cellMax[cell] = sum
		}
	}

	cutoutSum := uint32(d.cutoutQ16) * uint32(d.t)
	fired := map[int]struct{}{}
	for cell, sum := range cellMax {
		if sum > cutoutSum {
			fired[cell] = struct{}{}
		}
	}
	if len(fired) == 0 {
		return nil
	}
	return []registry.DetectionData{{
		DetectedCells: fired,
		Description:   d.description,
		Param:         "100u/100v",
		Levtype:       "sfc",
		Levelist:      "0",
	}}
}
