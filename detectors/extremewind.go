package detectors

import (
	"math"
	"strconv"

	"github.com/ecmwf-labs/extreme-events/ee"
	"github.com/ecmwf-labs/extreme-events/grid"
	"github.com/ecmwf-labs/extreme-events/healpix"
	"github.com/ecmwf-labs/extreme-events/registry"
)

func init() {
	registry.Register("extreme_wind", newExtremeWind)
}

var extremeWindSupportedFields = map[string]bool{
	"100u": true, "100v": true,
	"10u": true, "10v": true,
	"u": true, "v": true,
}

var extremeWindSurfacePairs = [][2]string{{"10u", "10v"}, {"100u", "100v"}}

// interval is one flattened (instance x level x surface pair) extreme-wind
// threshold or band check, with its own set of already-fired cells: a
// fired cell is not re-evaluated, and it stays in every later step's
// result for this interval for the life of the run.
type interval struct {
	lowerBound, upperBound float64
	modelLevel             int
	uName, vName           string
	description            string
	fired                  map[int]struct{}
}

func (iv *interval) magnitudeFires(mag float64) bool {
	if iv.lowerBound > iv.upperBound {
		return mag >= iv.lowerBound
	}
	return mag >= iv.lowerBound && mag < iv.upperBound
}

// param returns the MARS param key for this interval: the lone component
// name if only one of u/v is present, or "u_name/v_name" if both are,
// matching the original's interval.u.empty() ? interval.v : ... fallback.
func (iv *interval) param() string {
	switch {
	case iv.uName == "":
		return iv.vName
	case iv.vName == "":
		return iv.uName
	default:
		return iv.uName + "/" + iv.vName
	}
}

type extremeWindDetector struct {
	intervals []*interval
	mapping   *healpix.Mapping
}

func newExtremeWind(cfg registry.Config, md grid.ModelData, mapping *healpix.Mapping) (registry.Detector, error) {
	for _, f := range cfg.RequiredFields {
		if !extremeWindSupportedFields[f] {
			return nil, &ee.BadValue{Field: "required_fields", Value: f, Msg: "extreme_wind only supports 100u, 100v, 10u, 10v, u, v"}
		}
	}
	hasProfile := contains(cfg.RequiredFields, "u") || contains(cfg.RequiredFields, "v")

	instances := interfaceSlice(cfg.Raw["instances"])
	var intervals []*interval
	for _, raw := range instances {
		inst := stringMap(raw)
		lower := toFloat(inst["lower_bound"])
		upper := toFloat(inst["upper_bound"])
		description, _ := inst["description"].(string)

		if heights := interfaceSlice(inst["heights"]); len(heights) > 0 {
			return nil, &ee.BadParameter{Name: "heights", Msg: "detection at configurable physical heights is not supported"}
		}

		modelLevels := interfaceSlice(inst["model_levels"])
		switch {
		case len(modelLevels) > 0:
			if !hasProfile {
				return nil, &ee.BadParameter{Name: "model_levels", Msg: "model_levels was supplied but no u/v profile field is required"}
			}
			uName, vName := "", ""
			if contains(cfg.RequiredFields, "u") {
				uName = "u"
			}
			if contains(cfg.RequiredFields, "v") {
				vName = "v"
			}
			for _, lv := range modelLevels {
				intervals = append(intervals, &interval{
					lowerBound: lower, upperBound: upper,
					modelLevel:  toInt(lv),
					uName:       uName,
					vName:       vName,
					description: description,
					fired:       map[int]struct{}{},
				})
			}
		default:
			any := false
			for _, pair := range extremeWindSurfacePairs {
				uPresent := contains(cfg.RequiredFields, pair[0])
				vPresent := contains(cfg.RequiredFields, pair[1])
				if uPresent || vPresent {
					any = true
					uName, vName := "", ""
					if uPresent {
						uName = pair[0]
					}
					if vPresent {
						vName = pair[1]
					}
					intervals = append(intervals, &interval{
						lowerBound: lower, upperBound: upper,
						modelLevel:  0,
						uName:       uName,
						vName:       vName,
						description: description,
						fired:       map[int]struct{}{},
					})
				}
			}
			if !any && !hasProfile {
				return nil, &ee.BadParameter{Name: "instances", Msg: "neither profile nor surface wind fields are present"}
			}
		}
	}

	return &extremeWindDetector{intervals: intervals, mapping: mapping}, nil
}

func (d *extremeWindDetector) Detect(md grid.ModelData) []registry.DetectionData {
	out := make([]registry.DetectionData, 0, len(d.intervals))
	for _, iv := range d.intervals {
		uView, uOK := md.Field(iv.uName)
		vView, vOK := md.Field(iv.vName)

		levelIdx := 0
		if iv.modelLevel > 0 {
			levelIdx = iv.modelLevel - 1
		}

		for i, cell := range d.mapping.Point2Cell {
			if cell == healpix.NoCell {
				continue
			}
			if _, already := iv.fired[cell]; already {
				continue
			}
			var u, v float64
			if uOK {
				u = uView.At(i, levelIdx)
			}
			if vOK {
				v = vView.At(i, levelIdx)
			}
			mag := math.Hypot(u, v)
			if iv.magnitudeFires(mag) {
				iv.fired[cell] = struct{}{}
			}
		}

		levtype := "sfc"
		if iv.modelLevel > 0 {
			levtype = "ml"
		}
		out = append(out, registry.DetectionData{
			DetectedCells: copyCellSet(iv.fired),
			Description:   iv.description,
			Param:         iv.param(),
			Levtype:       levtype,
			Levelist:      strconv.Itoa(iv.modelLevel),
		})
	}
	return out
}

func copyCellSet(src map[int]struct{}) map[int]struct{} {
	dst := make(map[int]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
