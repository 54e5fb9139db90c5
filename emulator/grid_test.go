package emulator

import "testing"

func TestNewRejectsGridSmallerThanHalo(t *testing.T) {
	if _, err := New(4, 4, 3, 1); err == nil {
		t.Fatal("expected an error for a grid not larger than twice the halo width")
	}
}

func TestNewMarksBorderRowsAndColumnsAsGhost(t *testing.T) {
	g, err := New(8, 8, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for j := 0; j < g.ny; j++ {
		for i := 0; i < g.nx; i++ {
			idx := j*g.nx + i
			wantGhost := i < 2 || i >= g.nx-2 || j < 2 || j >= g.ny-2
			if (g.ghost[idx] != 0) != wantGhost {
				t.Fatalf("ghost[%d,%d] = %v, want %v", i, j, g.ghost[idx] != 0, wantGhost)
			}
		}
	}
}

func TestStepAdvancesNSTEPAndRegeneratesFields(t *testing.T) {
	g, err := New(8, 8, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := g.GetInt("NSTEP"); n != 0 {
		t.Fatalf("initial NSTEP = %d, want 0", n)
	}
	g.Step()
	if n, _ := g.GetInt("NSTEP"); n != 1 {
		t.Fatalf("NSTEP after Step() = %d, want 1", n)
	}
	fv, ok := g.Field("u")
	if !ok {
		t.Fatal("expected field \"u\" to be present")
	}
	if fv.Levels() != 3 {
		t.Errorf("Levels() = %d, want 3", fv.Levels())
	}
}

func TestHasParameterCoversScalarsAndFields(t *testing.T) {
	g, err := New(8, 8, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"NSTEP", "TSTEP", "NFLEVG", "u", "v", "100u", "100v"} {
		if !g.HasParameter(name) {
			t.Errorf("HasParameter(%q) = false, want true", name)
		}
	}
	if g.HasParameter("not_a_field") {
		t.Error("HasParameter(\"not_a_field\") = true, want false")
	}
}

func TestDemoSurfaceSpeedMatchesScriptedSpikeAndDrought(t *testing.T) {
	if got := demoSurfaceSpeed(0, 41.5325, 0); got != 30.0 {
		t.Errorf("spike point at step 0 = %v, want 30", got)
	}
	if got := demoSurfaceSpeed(270, -19.3822, 0); got != 0.0 {
		t.Errorf("drought point at step 0 = %v, want 0", got)
	}
	if got := demoSurfaceSpeed(12, 12, 0); got != 10.0 {
		t.Errorf("background point at step 0 = %v, want 10", got)
	}
	if got := demoSurfaceSpeed(0, 41.5325, len(demoHighCoords)-1); got != 10.0 {
		t.Errorf("the last scripted step has no spikes, got %v, want 10", got)
	}
}
