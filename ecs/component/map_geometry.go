package component

import (
	"math"
	"sort"
)

// Boundary is a static collision surface. Axis is the coordinate a mover's
// leading edge must cross; Lower/Upper is the extent on the other axis.
type Boundary struct {
	Axis    float64
	Lower   float64
	Upper   float64
	Surface SurfaceType
}

// Adjacency describes a map edge.
type Adjacency struct {
	Type   AdjacencyType
	Target string
}

// MapGeometry is the boundary index of the loaded map. Boundaries[d] holds the
// surfaces a body moving in direction d can run into, sorted ascending by Axis
// for Right/Down and descending for Left/Up.
type MapGeometry struct {
	Name       string
	Width      float64
	Height     float64
	Boundaries [4][]Boundary
	Edges      [4]Adjacency
}

// NewMapGeometry returns an empty index with map-edge adjacency boundaries
// installed for each direction.
func NewMapGeometry(name string, width, height float64, edges [4]Adjacency) *MapGeometry {
	m := &MapGeometry{Name: name, Width: width, Height: height, Edges: edges}
	inf := math.Inf(1)
	m.Boundaries[DirLeft] = append(m.Boundaries[DirLeft], Boundary{Axis: 0, Lower: -inf, Upper: inf, Surface: SurfaceAdjacency})
	m.Boundaries[DirRight] = append(m.Boundaries[DirRight], Boundary{Axis: width, Lower: -inf, Upper: inf, Surface: SurfaceAdjacency})
	m.Boundaries[DirUp] = append(m.Boundaries[DirUp], Boundary{Axis: 0, Lower: -inf, Upper: inf, Surface: SurfaceAdjacency})
	m.Boundaries[DirDown] = append(m.Boundaries[DirDown], Boundary{Axis: height, Lower: -inf, Upper: inf, Surface: SurfaceAdjacency})
	return m
}

// Add appends a boundary to direction d's list. Call Sort once all
// boundaries are in.
func (m *MapGeometry) Add(d Direction, b Boundary) {
	m.Boundaries[d] = append(m.Boundaries[d], b)
}

// Sort orders every list for its direction. Boundaries on the same axis keep
// insertion order.
func (m *MapGeometry) Sort() {
	for _, d := range Directions {
		list := m.Boundaries[d]
		if d.Ascending() {
			sort.SliceStable(list, func(i, j int) bool { return list[i].Axis < list[j].Axis })
		} else {
			sort.SliceStable(list, func(i, j int) bool { return list[i].Axis > list[j].Axis })
		}
	}
}

// LowerBound returns the index of the first boundary in d's list that is not
// behind coordinate x, i.e. Axis >= x for ascending lists and Axis <= x for
// descending ones.
func (m *MapGeometry) LowerBound(d Direction, x float64) int {
	list := m.Boundaries[d]
	if d.Ascending() {
		return sort.Search(len(list), func(i int) bool { return list[i].Axis >= x })
	}
	return sort.Search(len(list), func(i int) bool { return list[i].Axis <= x })
}

// Edge returns the adjacency descriptor of the map edge faced when moving in d.
func (m *MapGeometry) Edge(d Direction) Adjacency {
	return m.Edges[d]
}

var MapGeometryComponent = NewComponent[MapGeometry]()
