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
	registry.Register("wind_drought", newWindDrought)
}

// windDroughtDetector fires a cell once its spatial-mean wind speed has
// stayed below the cutout for more than T consecutive steps; a single step
// at or above the cutout resets the cell's counter to zero.
type windDroughtDetector struct {
	mapping       *healpix.Mapping
	cutout        float64
	windowMins    float64
	description   string
	nPointsInCell map[int]int
	counter       map[int]uint16

	initialized bool
	t           int
}

func newWindDrought(cfg registry.Config, md grid.ModelData, mapping *healpix.Mapping) (registry.Detector, error) {
	got := append([]string(nil), cfg.RequiredFields...)
	sort.Strings(got)
	want := append([]string(nil), stormRequiredFields...)
	sort.Strings(want)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		return nil, &ee.BadValue{Field: "required_fields", Value: cfg.RequiredFields, Msg: "wind_drought requires exactly {100u, 100v}"}
	}

	cutout := toFloat(cfg.Raw["wind_speed_cutout"])
	if cutout < 0 {
		return nil, &ee.BadValue{Field: "wind_speed_cutout", Value: cutout, Msg: "must be non-negative"}
	}
	windowMins := toFloat(cfg.Raw["time_window"])
	if windowMins < 0 {
		return nil, &ee.BadValue{Field: "time_window", Value: windowMins, Msg: "must be non-negative"}
	}
	description, _ := cfg.Raw["description"].(string)
	if description == "" {
		description = "wind drought"
	}

	nPointsInCell := map[int]int{}
	for _, cell := range mapping.Point2Cell {
		if cell == healpix.NoCell {
			continue
		}
		nPointsInCell[cell]++
	}

	return &windDroughtDetector{
		mapping:       mapping,
		cutout:        cutout,
		windowMins:    windowMins,
		description:   description,
		nPointsInCell: nPointsInCell,
		counter:       map[int]uint16{},
	}, nil
}

func (d *windDroughtDetector) ensureInitialized(md grid.ModelData) {
	if d.initialized {
		return
	}
	tstep, _ := md.GetDouble("TSTEP")
	if tstep <= 0 {
		tstep = 1
	}
	d.t = int(math.Ceil(d.windowMins * 60 / tstep))
	d.initialized = true
}

func (d *windDroughtDetector) Detect(md grid.ModelData) []registry.DetectionData {
	d.ensureInitialized(md)

	uView, uOK := md.Field("100u")
	vView, vOK := md.Field("100v")

	avgs := map[int]float64{}
	for i, cell := range d.mapping.Point2Cell {
		if cell == healpix.NoCell {
			continue
		}
		n := d.nPointsInCell[cell]
		if n == 0 {
			continue
		}
		var u, v float64
		if uOK {
			u = uView.At(i, 0)
		}
		if vOK {
			v = vView.At(i, 0)
		}
		avgs[cell] += math.Hypot(u, v) / float64(n)
	}

	fired := map[int]struct{}{}
	for cell := range d.nPointsInCell {
		if avgs[cell] < d.cutout {
			d.counter[cell]++
		} else {
			d.counter[cell] = 0
		}
		if d.counter[cell] > uint16(d.t) {
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
