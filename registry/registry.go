// Package registry implements the process-wide name→factory table that
// lets extreme-event detectors register themselves by side effect of
// being imported, mirroring the original plugin's static Registrar
// pattern with Go's idiomatic init()-based self-registration.
package registry

import (
	"sync"

	"github.com/ecmwf-labs/extreme-events/ee"
	"github.com/ecmwf-labs/extreme-events/grid"
	"github.com/ecmwf-labs/extreme-events/healpix"
)

// Detector is the interface every registered extreme-event detector must
// satisfy.
type Detector interface {
	// Detect inspects the current step's model data and returns this
	// step's DetectionData results. A result's DetectedCells may be empty;
	// a detector with nothing to report may also return nil.
	Detect(md grid.ModelData) []DetectionData
}

// DetectionData is one detector instance's output for the current step.
type DetectionData struct {
	DetectedCells map[int]struct{}
	Description   string
	Param         string
	Levtype       string
	Levelist      string
}

// Config is the configuration handed to a Factory: the event name, its
// required scalar and field names, and Raw, the event's whole YAML map
// (generic keys such as "name" and "required_params" included) from which
// the factory reads its detector-specific keys.
type Config struct {
	Name           string
	RequiredParams []string
	RequiredFields []string
	Raw            map[string]interface{}
}

// Factory constructs a Detector instance from its configuration, the
// host's model data (used to discover which fields/params are actually
// on offer), and the shared HEALPix mapping.
type Factory func(cfg Config, md grid.ModelData, mapping *healpix.Mapping) (Detector, error)

var (
	mu    sync.RWMutex
	table = map[string]Factory{}
)

// Register inserts a named factory into the table. It is idempotent: a
// second registration of the same name silently replaces the first, the
// same relaxed behaviour as the source's registerEvent.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	table[name] = f
}

// Create looks up name and invokes its factory. An unregistered name
// returns a *ee.RegistryMiss error; the source treats this as a hard
// assertion failure, and per the error taxonomy (SPEC_FULL.md D.5) this is
// the one error type the orchestrator panics on rather than returning to
// its own caller, so Create itself stays panic-free and easy to test.
func Create(cfg Config, md grid.ModelData, mapping *healpix.Mapping) (Detector, error) {
	mu.RLock()
	f, ok := table[cfg.Name]
	mu.RUnlock()
	if !ok {
		return nil, &ee.RegistryMiss{Name: cfg.Name}
	}
	return f(cfg, md, mapping)
}

// Lookup reports whether name has a registered factory, without
// constructing anything.
func Lookup(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := table[name]
	return ok
}
