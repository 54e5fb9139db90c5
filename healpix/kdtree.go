package healpix

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// kdNode is one node of a hand-rolled, read-only 3D KD-tree used to find
// the nearest HEALPix cell centroid to a grid point. Centroids are
// converted to unit-sphere Cartesian coordinates (see toCartesian) before
// insertion so that Euclidean nearness approximates great-circle nearness
// without any longitude-wrap special-casing.
//
// This tree is written by hand rather than built on
// gonum.org/v1/gonum/spatial/kdtree: that package's Comparable/Interface
// contract could not be verified against its exact current signature
// without a network fetch, and silently guessing at a third-party
// interface risks code that looks plausible but does not actually satisfy
// it. A balanced, read-only 3D tree over a fixed point set is a small
// enough structure to write and reason about directly; see DESIGN.md.
type kdNode struct {
	point       r3.Vec
	index       int
	axis        int
	left, right *kdNode
}

type kdTree struct {
	root *kdNode
}

func toCartesian(lonDeg, latDeg float64) r3.Vec {
	lon := lonDeg * degToRad
	lat := latDeg * degToRad
	return r3.Vec{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

const degToRad = math.Pi / 180

// newKDTree builds a balanced KD-tree over the given points, where points[i]
// is associated with index i.
func newKDTree(points []r3.Vec) *kdTree {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	return &kdTree{root: buildKD(points, idx, 0)}
}

func buildKD(points []r3.Vec, idx []int, depth int) *kdNode {
	if len(idx) == 0 {
		return nil
	}
	axis := depth % 3
	sort.Slice(idx, func(a, b int) bool {
		return axisValue(points[idx[a]], axis) < axisValue(points[idx[b]], axis)
	})
	mid := len(idx) / 2
	node := &kdNode{
		point: points[idx[mid]],
		index: idx[mid],
		axis:  axis,
	}
	node.left = buildKD(points, idx[:mid], depth+1)
	node.right = buildKD(points, idx[mid+1:], depth+1)
	return node
}

func axisValue(v r3.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// nearest returns the index associated with the point in the tree closest
// to target, by squared Euclidean distance.
func (t *kdTree) nearest(target r3.Vec) int {
	if t.root == nil {
		return -1
	}
	bestIdx := -1
	bestDist := math.Inf(1)
	var search func(n *kdNode)
	search = func(n *kdNode) {
		if n == nil {
			return
		}
		d := sqDist(n.point, target)
		if d < bestDist {
			bestDist = d
			bestIdx = n.index
		}
		diff := axisValue(target, n.axis) - axisValue(n.point, n.axis)
		near, far := n.left, n.right
		if diff > 0 {
			near, far = n.right, n.left
		}
		search(near)
		if diff*diff < bestDist {
			search(far)
		}
	}
	search(t.root)
	return bestIdx
}

func sqDist(a, b r3.Vec) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return dx*dx + dy*dy + dz*dz
}
