package healpix

import (
	"math"

	"github.com/ctessum/geom"
)

// cell is one element of the generated mesh: a centroid (for nearest-
// neighbour point assignment) and an ordered vertex ring (for polygon
// extraction).
type cell struct {
	centroidLon, centroidLat float64
	vertices                 []geom.Point
}

// buildMesh lays out a HEALPix-flavoured global mesh at the given
// resolution: iso-latitude bands of equal angular thickness in sin(lat)
// (matching HEALPix's defining equal-area-by-latitude property), uniform
// pixel density per band, and a single pentagon element collapsing each
// pole's innermost ring into one cell (the same "pole_elements: pentagons"
// choice the original plugin's mesh generator config names). It does not
// reproduce the variable per-ring pixel count of a bit-exact HEALPix
// subdivision — see DESIGN.md for the rationale. It gives a global,
// partition-free index space, quads everywhere except two pentagon poles,
// and exact vertex sharing between adjacent quads, so the boundary walk in
// package polygon cancels the edges two fired quads have in common. The
// pole pentagons use only every (perBand/4)-th vertex of the first/last
// boundary ring, so for resolution > 1 they share no edge with the quads
// around them and those edges are never cancelled.
func buildMesh(resolution int) []cell {
	if resolution < 1 {
		resolution = 1
	}
	perBand := 4 * resolution
	nBands := 3 * resolution

	// zCap is the sine-of-latitude at which the polar pentagon's outer edge
	// sits; the remaining bands are spaced evenly in z between zCap and
	// -zCap, the same "linear in z" layout HEALPix uses across its
	// equatorial belt.
	zCap := 1.0 - 1.0/float64(3*resolution)

	boundaryRings := make([][]geom.Point, nBands+1)
	for k := 0; k <= nBands; k++ {
		z := zCap - float64(k)*(2*zCap)/float64(nBands)
		boundaryRings[k] = makeRing(z, perBand)
	}

	cells := make([]cell, 0, nBands*perBand+2)

	// North pole pentagon: the pole point plus four cardinal vertices of
	// the first boundary ring.
	cells = append(cells, cell{
		centroidLon: 0,
		centroidLat: 90,
		vertices: []geom.Point{
			{X: 0, Y: 90},
			boundaryRings[0][0],
			boundaryRings[0][perBand/4],
			boundaryRings[0][perBand/2],
			boundaryRings[0][3*perBand/4],
		},
	})

	for k := 0; k < nBands; k++ {
		top := boundaryRings[k]
		bottom := boundaryRings[k+1]
		zTop := zCap - float64(k)*(2*zCap)/float64(nBands)
		zBottom := zCap - float64(k+1)*(2*zCap)/float64(nBands)
		zCenter := (zTop + zBottom) / 2
		for j := 0; j < perBand; j++ {
			jn := (j + 1) % perBand
			phiCenter := (float64(j) + 0.5) * 2 * math.Pi / float64(perBand)
			cells = append(cells, cell{
				centroidLon: degrees(phiCenter),
				centroidLat: degrees(math.Asin(clamp(zCenter))),
				vertices: []geom.Point{
					top[j], top[jn], bottom[jn], bottom[j],
				},
			})
		}
	}

	// South pole pentagon, mirroring the north.
	last := boundaryRings[nBands]
	cells = append(cells, cell{
		centroidLon: 0,
		centroidLat: -90,
		vertices: []geom.Point{
			{X: 0, Y: -90},
			last[0],
			last[perBand/4],
			last[perBand/2],
			last[3*perBand/4],
		},
	})

	return cells
}

func makeRing(z float64, count int) []geom.Point {
	ring := make([]geom.Point, count)
	lat := degrees(math.Asin(clamp(z)))
	for j := 0; j < count; j++ {
		phi := float64(j) * 2 * math.Pi / float64(count)
		ring[j] = geom.Point{X: degrees(phi), Y: lat}
	}
	return ring
}

func degrees(radians float64) float64 { return radians * 180 / math.Pi }

func clamp(z float64) float64 {
	if z > 1 {
		return 1
	}
	if z < -1 {
		return -1
	}
	return z
}
