package detectors

import (
	"testing"

	"github.com/ecmwf-labs/extreme-events/registry"
)

func TestStormWarmUpReturnsEmpty(t *testing.T) {
	mapping := mappingOfSize(3)
	cfg := registry.Config{
		RequiredFields: []string{"100u", "100v"},
		Raw: map[string]interface{}{
			"wind_speed_cutout": 5.0,
			"time_window":       5.0, // T = ceil(5*60/60) = 5
		},
	}
	dRaw, err := newStorm(cfg, nil, mapping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md := &stubModelData{tstep: 60, fields: map[string]float64{"100u": 50, "100v": 0}}
	for step := 0; step < 5; step++ {
		md.nstep = step
		if got := dRaw.Detect(md); got != nil {
			t.Fatalf("expected empty result during warm-up at step %d, got %+v", step, got)
		}
	}
}

func TestStormFiresAfterWarmUpWhenAboveCutout(t *testing.T) {
	mapping := mappingOfSize(3)
	cfg := registry.Config{
		RequiredFields: []string{"100u", "100v"},
		Raw: map[string]interface{}{
			"wind_speed_cutout": 5.0,
			"time_window":       5.0,
		},
	}
	dRaw, err := newStorm(cfg, nil, mapping)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md := &stubModelData{tstep: 60, fields: map[string]float64{"100u": 50, "100v": 0}}
	var last []registry.DetectionData
	for step := 0; step <= 5; step++ {
		md.nstep = step
		last = dRaw.Detect(md)
	}
	if len(last) != 1 || len(last[0].DetectedCells) == 0 {
		t.Fatalf("expected cells to fire once above the cutout for T steps, got %+v", last)
	}
}

func TestStormRejectsOutOfRangeCutout(t *testing.T) {
	_, err := newStorm(registry.Config{
		RequiredFields: []string{"100u", "100v"},
		Raw:            map[string]interface{}{"wind_speed_cutout": 1000.0, "time_window": 1.0},
	}, nil, mappingOfSize(1))
	if err == nil {
		t.Fatal("expected an error for a cutout above 655.35")
	}
}

func TestStormRejectsWrongRequiredFields(t *testing.T) {
	_, err := newStorm(registry.Config{RequiredFields: []string{"u", "v"}}, nil, mappingOfSize(1))
	if err == nil {
		t.Fatal("expected an error when required_fields is not exactly {100u, 100v}")
	}
}
