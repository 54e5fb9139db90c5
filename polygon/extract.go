// Package polygon turns a set of fired HEALPix cell indices into the
// outer boundary polygon(s) of the contiguous region(s) they cover, by
// discarding edges shared between two fired cells and walking what
// remains.
package polygon

import (
	"sort"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
)

// sentinel is returned, with a logged notice, when the fired region has no
// boundary at all -- i.e. the entire mesh fired. Handling this properly
// (it would require treating the sphere as having no exterior) is out of
// scope; see SPEC_FULL.md Non-goals.
var sentinel = geom.Polygon{{{X: 0, Y: 0}}}

type edgeKey struct {
	a, b geom.Point
}

func canonical(a, b geom.Point) edgeKey {
	if less(a, b) {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

func less(a, b geom.Point) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// Extract converts the set of fired cell indices into one or more closed
// polygons. The result depends only on the set of fired cells, not on the
// order they are supplied in. log may be nil, in which case the package
// standard logger is used.
func Extract(fired []int, cellVertices [][]geom.Point, log logrus.FieldLogger) []geom.Polygon {
	if log == nil {
		log = logrus.StandardLogger()
	}

	counts := map[edgeKey]int{}
	for _, c := range fired {
		ring := cellVertices[c]
		n := len(ring)
		for k := 0; k < n; k++ {
			a, b := ring[k], ring[(k+1)%n]
			counts[canonical(a, b)]++
		}
	}

	adj := map[geom.Point][]geom.Point{}
	for e, n := range counts {
		if n > 1 {
			continue // interior edge, shared by two fired cells
		}
		adj[e.a] = append(adj[e.a], e.b)
		adj[e.b] = append(adj[e.b], e.a)
	}

	if len(adj) == 0 {
		log.Warn("extreme event polygon extractor: fired region has no boundary (entire mesh fired); emitting sentinel polygon")
		return []geom.Polygon{sentinel}
	}

	for v, ns := range adj {
		sort.Slice(ns, func(i, j int) bool { return less(ns[i], ns[j]) })
		adj[v] = ns
	}

	vertices := make([]geom.Point, 0, len(adj))
	for v := range adj {
		vertices = append(vertices, v)
	}
	sort.Slice(vertices, func(i, j int) bool { return less(vertices[i], vertices[j]) })

	var polygons []geom.Polygon
	for {
		start, ok := nextStart(vertices, adj)
		if !ok {
			break
		}
		ring := walk(start, adj)
		polygons = append(polygons, geom.Polygon{ring})
	}
	return polygons
}

func nextStart(vertices []geom.Point, adj map[geom.Point][]geom.Point) (geom.Point, bool) {
	for _, v := range vertices {
		if len(adj[v]) > 0 {
			return v, true
		}
	}
	return geom.Point{}, false
}

// walk traces one closed ring starting at start, removing each edge from
// adj exactly once as it is consumed.
func walk(start geom.Point, adj map[geom.Point][]geom.Point) []geom.Point {
	var ring []geom.Point
	current := start
	for {
		ring = append(ring, current)
		next, ok := pickNext(current, adj)
		if !ok {
			break
		}
		removeEdge(adj, current, next)
		current = next
		if current == start {
			break
		}
	}
	return ring
}

// pickNext chooses the next vertex from current's remaining neighbours.
// When there are exactly two candidates, the walk prefers the second iff
// current's longitude is strictly greater than the first candidate's
// longitude -- a heuristic inherited unchanged from the source plugin to
// keep a consistent winding; it is known-approximate near the poles.
func pickNext(current geom.Point, adj map[geom.Point][]geom.Point) (geom.Point, bool) {
	ns := adj[current]
	if len(ns) == 0 {
		return geom.Point{}, false
	}
	if len(ns) == 1 {
		return ns[0], true
	}
	if current.X > ns[0].X {
		return ns[1], true
	}
	return ns[0], true
}

func removeEdge(adj map[geom.Point][]geom.Point, a, b geom.Point) {
	adj[a] = removeOne(adj[a], b)
	adj[b] = removeOne(adj[b], a)
}

func removeOne(ns []geom.Point, target geom.Point) []geom.Point {
	for i, n := range ns {
		if n == target {
			return append(ns[:i], ns[i+1:]...)
		}
	}
	return ns
}
