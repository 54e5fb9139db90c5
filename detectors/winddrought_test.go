package detectors

import (
	"testing"

	"github.com/ecmwf-labs/extreme-events/registry"
)

func TestWindDroughtResetsOnNonDroughtStep(t *testing.T) {
	mapping := mappingOfSize(3)
	cfg := registry.Config{RequiredFields: []string{"100u", "100v"}, Raw: map[string]interface{}{
		"wind_speed_cutout": 5.0,
		"time_window":       1.0,
	}}
	dRaw, err := newWindDrought(cfg, nil, mapping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := dRaw.(*windDroughtDetector)

	low := &stubModelData{tstep: 60, fields: map[string]float64{"100u": 0, "100v": 0}}
	d.Detect(low)
	d.Detect(low)
	if d.counter[0] == 0 {
		t.Fatal("expected counter to be non-zero after consecutive low-wind steps")
	}

	high := &stubModelData{tstep: 60, fields: map[string]float64{"100u": 100, "100v": 100}}
	d.Detect(high)
	if d.counter[0] != 0 {
		t.Errorf("counter should reset to 0 after a step at/above cutout, got %d", d.counter[0])
	}
}

func TestWindDroughtFiresAfterSustainedLowWind(t *testing.T) {
	mapping := mappingOfSize(3)
	cfg := registry.Config{RequiredFields: []string{"100u", "100v"}, Raw: map[string]interface{}{
		"wind_speed_cutout": 5.0,
		"time_window":       1.0, // T = ceil(60/60) = 1
	}}
	dRaw, err := newWindDrought(cfg, nil, mapping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	low := &stubModelData{tstep: 60, fields: map[string]float64{"100u": 0, "100v": 0}}
	var last []registry.DetectionData
	for i := 0; i < 3; i++ {
		last = dRaw.Detect(low)
	}
	if len(last) != 1 || len(last[0].DetectedCells) == 0 {
		t.Fatalf("expected cells to fire after sustained low wind, got %+v", last)
	}
}
