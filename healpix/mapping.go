// Package healpix builds the global coarsening mesh used to turn
// individual firing grid points into firing mesh cells, and the
// point→cell lookup table used to do so.
package healpix

import (
	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ecmwf-labs/extreme-events/grid"
)

// NoCell is the sentinel cell index for a point with no mapping, used for
// halo points.
const NoCell = -1

// Mapping is the immutable result of Build: a point→cell lookup (Point2Cell)
// and a cell→vertex-ring table (CellVertices), both indexed 0..N/M. It is
// built once at plugin setup from the host's function space and shared
// read-only by every detector.
type Mapping struct {
	Resolution   int
	NumCells     int
	Point2Cell   []int
	CellVertices [][]geom.Point
}

// Build generates a HEALPix-flavoured mesh at the given resolution and maps
// every non-ghost point in fs to the nearest cell centroid. Ghost points
// map to NoCell.
func Build(resolution int, fs grid.FunctionSpace) *Mapping {
	cells := buildMesh(resolution)

	centroids := make([]r3.Vec, len(cells))
	cellVertices := make([][]geom.Point, len(cells))
	for i, c := range cells {
		centroids[i] = toCartesian(c.centroidLon, c.centroidLat)
		cellVertices[i] = c.vertices
	}
	tree := newKDTree(centroids)

	n := fs.Size()
	ghost := fs.Ghost()
	lonlat := fs.LonLat()
	point2cell := make([]int, n)
	for i := 0; i < n; i++ {
		if ghost[i] != 0 {
			point2cell[i] = NoCell
			continue
		}
		p := toCartesian(lonlat[i][0], lonlat[i][1])
		point2cell[i] = tree.nearest(p)
	}

	return &Mapping{
		Resolution:   resolution,
		NumCells:     len(cells),
		Point2Cell:   point2cell,
		CellVertices: cellVertices,
	}
}
