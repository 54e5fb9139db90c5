package detectors

import (
	"testing"

	"github.com/ecmwf-labs/extreme-events/registry"
)

func TestExtremeWindThresholdMode(t *testing.T) {
	iv := &interval{lowerBound: 25, upperBound: 0, fired: map[int]struct{}{}}
	if !iv.magnitudeFires(30) {
		t.Error("threshold mode: magnitude 30 >= lBound 25 should fire")
	}
	if iv.magnitudeFires(20) {
		t.Error("threshold mode: magnitude 20 < lBound 25 should not fire")
	}
}

func TestExtremeWindBandMode(t *testing.T) {
	iv := &interval{lowerBound: 10, upperBound: 20, fired: map[int]struct{}{}}
	if !iv.magnitudeFires(15) {
		t.Error("band mode: magnitude 15 in [10,20) should fire")
	}
	if iv.magnitudeFires(25) {
		t.Error("band mode: magnitude 25 not in [10,20) should not fire")
	}
}

func TestExtremeWindBandModeWithEqualBoundsIsEmptyInterval(t *testing.T) {
	iv := &interval{lowerBound: 5, upperBound: 5, fired: map[int]struct{}{}}
	if iv.magnitudeFires(5) {
		t.Error("band mode with lowerBound == upperBound is the empty interval [L,L) and must never fire")
	}
	if iv.magnitudeFires(100) {
		t.Error("band mode with lowerBound == upperBound must never fire, regardless of magnitude")
	}
}

func TestExtremeWindParamDropsAbsentComponent(t *testing.T) {
	cases := []struct {
		uName, vName string
		want         string
	}{
		{"u", "v", "u/v"},
		{"u", "", "u"},
		{"", "v", "v"},
	}
	for _, c := range cases {
		iv := &interval{uName: c.uName, vName: c.vName}
		if got := iv.param(); got != c.want {
			t.Errorf("param() with uName=%q vName=%q = %q, want %q", c.uName, c.vName, got, c.want)
		}
	}
}

func TestExtremeWindDetectFiresOnlyOncePerCell(t *testing.T) {
	mapping := mappingOfSize(3)
	cfg := registry.Config{
		RequiredFields: []string{"10u", "10v"},
		Raw: map[string]interface{}{
			"instances": []interface{}{
				map[string]interface{}{"lower_bound": 10.0, "upper_bound": 20.0, "description": "moderate"},
			},
		},
	}
	dRaw, err := newExtremeWind(cfg, nil, mapping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md := &stubModelData{fields: map[string]float64{"10u": 15, "10v": 0}}

	first := dRaw.Detect(md)
	second := dRaw.Detect(md)
	if len(first) != 1 || len(first[0].DetectedCells) != 3 {
		t.Fatalf("expected all 3 cells to fire on first detect, got %+v", first)
	}
	if len(second[0].DetectedCells) != 3 {
		t.Fatalf("fired cells should remain sticky across steps, got %+v", second[0].DetectedCells)
	}
}

func TestExtremeWindRejectsUnsupportedField(t *testing.T) {
	_, err := newExtremeWind(registry.Config{RequiredFields: []string{"t2m"}}, nil, mappingOfSize(1))
	if err == nil {
		t.Fatal("expected an error for an unsupported required field")
	}
}

func TestExtremeWindModelLevelsWithoutProfileIsBadParameter(t *testing.T) {
	cfg := registry.Config{
		RequiredFields: []string{"10u", "10v"},
		Raw: map[string]interface{}{
			"instances": []interface{}{
				map[string]interface{}{"lower_bound": 1.0, "upper_bound": 2.0, "model_levels": []interface{}{1, 2}},
			},
		},
	}
	_, err := newExtremeWind(cfg, nil, mappingOfSize(1))
	if err == nil {
		t.Fatal("expected a BadParameter error when model_levels is given without a profile field")
	}
}
