// Package grid defines the narrow interfaces through which the detection
// pipeline reads host-owned model data. A real NWP host and the in-process
// emulator (package emulator) both implement these two interfaces; nothing
// else in this module depends on how the data is actually stored.
package grid

// FunctionSpace describes the local partition's grid points: how many there
// are, which are halo ("ghost") points not owned by this partition, and
// their geographic location.
type FunctionSpace interface {
	// Size returns the number of points, owned and ghost, in this partition.
	Size() int

	// Ghost returns a slice of length Size() where a non-zero value marks a
	// halo point excluded from detection.
	Ghost() []uint8

	// LonLat returns, for each point, its [longitude, latitude] in degrees.
	// Longitude may be in either the 0..360 or -180..180 convention; callers
	// must not assume one without checking.
	LonLat() [][2]float64
}

// FieldView is a typed, non-owning view of one named field's values across
// points and vertical levels. It is valid only for the duration of the
// Run() call that produced it.
type FieldView interface {
	// At returns the field value at the given point and level index.
	At(point, level int) float64

	// Levels returns the number of vertical levels in this view.
	Levels() int
}

// ModelData exposes the scalar parameters and named fields the host offers
// for the current step.
type ModelData interface {
	// GetInt returns an integer scalar parameter offered by the host.
	GetInt(name string) (int, bool)

	// GetDouble returns a floating-point scalar parameter offered by the
	// host.
	GetDouble(name string) (float64, bool)

	// Field returns a view of the named field, if the host currently
	// offers it.
	Field(name string) (FieldView, bool)

	// ListFields returns the names of all fields currently offered.
	ListFields() []string

	// HasParameter reports whether a named scalar or field is currently
	// offered by the host, independent of its eventual type.
	HasParameter(name string) bool

	// FunctionSpace returns the function space backing the model data's
	// fields, used once at setup to build the HEALPix mapping.
	FunctionSpace() FunctionSpace
}
