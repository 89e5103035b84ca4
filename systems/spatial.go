// Package systems provides the per-tick simulation systems.
package systems

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
)

// IndexedPoint is one entry handed to SpatialIndex.Build.
type IndexedPoint struct {
	ID  uint32
	Pos r2.Vec
}

// Neighbor is a query result. DistSq is the squared Euclidean distance.
type Neighbor struct {
	ID     uint32
	DistSq float64
}

// point is the kd-tree representation of an IndexedPoint.
type point struct {
	id uint32
	x  [2]float64
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.x[d] - c.(point).x[d]
}

func (p point) Dims() int { return 2 }

// Distance returns the squared distance, as the kdtree package expects.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx, dy := p.x[0]-q.x[0], p.x[1]-q.x[1]
	return dx*dx + dy*dy
}

type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Pivot(d kdtree.Dim) int                { return plane{points: p, dim: d}.Pivot() }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// medianSamples bounds the points sampled when choosing a split.
const medianSamples = 100

// plane sorts points along one dimension for median selection.
type plane struct {
	points
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool { return p.points[i].x[p.dim] < p.points[j].x[p.dim] }
func (p plane) Swap(i, j int)      { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfRandoms(p, medianSamples)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}

// SpatialIndex answers nearest-k and radius queries over agent positions.
// It is rebuilt from scratch each tick and read-only in between.
type SpatialIndex struct {
	tree    *kdtree.Tree
	buf     points
	skipped int
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{}
}

// Build replaces the contents of the index. Entries with non-finite
// coordinates are excluded and counted in Skipped.
func (s *SpatialIndex) Build(entries []IndexedPoint) {
	s.buf = s.buf[:0]
	s.skipped = 0
	for _, e := range entries {
		if !isFinite(e.Pos) {
			s.skipped++
			continue
		}
		s.buf = append(s.buf, point{id: e.ID, x: [2]float64{e.Pos.X, e.Pos.Y}})
	}
	if len(s.buf) == 0 {
		s.tree = nil
		return
	}
	// kdtree.New reorders its input, so hand it a private copy.
	pts := make(points, len(s.buf))
	copy(pts, s.buf)
	s.tree = kdtree.New(pts, false)
}

// Len returns the number of indexed entries.
func (s *SpatialIndex) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// Skipped returns how many entries the last Build excluded.
func (s *SpatialIndex) Skipped() int {
	return s.skipped
}

// NearestK returns up to k entries closest to p, ascending by squared
// distance. An entry at p itself is included; callers filter self matches.
func (s *SpatialIndex) NearestK(p r2.Vec, k int) []Neighbor {
	if s.tree == nil || k <= 0 || !isFinite(p) {
		return nil
	}
	keep := kdtree.NewNKeeper(k)
	s.tree.NearestSet(keep, point{x: [2]float64{p.X, p.Y}})
	return collect(keep.Heap)
}

// WithinRadius returns every entry whose squared distance to p is at most r².
func (s *SpatialIndex) WithinRadius(p r2.Vec, r float64) []Neighbor {
	if s.tree == nil || r < 0 || !isFinite(p) {
		return nil
	}
	keep := kdtree.NewDistKeeper(r * r)
	s.tree.NearestSet(keep, point{x: [2]float64{p.X, p.Y}})
	return collect(keep.Heap)
}

// collect converts keeper results, dropping the keeper's sentinel, and
// orders them by distance then id.
func collect(h kdtree.Heap) []Neighbor {
	out := make([]Neighbor, 0, len(h))
	for _, c := range h {
		if c.Comparable == nil {
			continue
		}
		out = append(out, Neighbor{ID: c.Comparable.(point).id, DistSq: c.Dist})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistSq != out[j].DistSq {
			return out[i].DistSq < out[j].DistSq
		}
		return out[i].ID < out[j].ID
	})
	return out
}
