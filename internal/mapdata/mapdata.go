// Package mapdata holds the in-memory Lanelet2 map that checks run against.
package mapdata

import (
	"cmp"
	"maps"
	"slices"
)

// Well-known tag keys and values.
const (
	TypeKey    = "type"
	SubtypeKey = "subtype"
	AreaKey    = "area"

	LaneletType           = "lanelet"
	MultipolygonType      = "multipolygon"
	RegulatoryElementType = "regulatory_element"
)

// Member roles used by lanelets and regulatory elements.
const (
	LeftRole              = "left"
	RightRole             = "right"
	CenterlineRole        = "centerline"
	RegulatoryElementRole = "regulatory_element"
	RefersRole            = "refers"
	RefLineRole           = "ref_line"
	OuterRole             = "outer"
	InnerRole             = "inner"
)

// Tags are the key/value attributes of a primitive.
type Tags map[string]string

// Get returns the value of key and whether it was set.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Has reports whether key is set.
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Point is a map node.
type Point struct {
	ID   int64
	Lat  float64
	Lon  float64
	Tags Tags
}

// LineString is an ordered list of points. Polygons share the same shape.
// PointIDs keeps references to points the map does not declare.
type LineString struct {
	ID       int64
	PointIDs []int64
	Tags     Tags
}

// Member is one reference held by a relation.
type Member struct {
	Type string // node, way or relation
	Role string
	Ref  int64
}

// Relation is a lanelet, an area or a regulatory element.
type Relation struct {
	ID      int64
	Members []Member
	Tags    Tags
}

// MembersWithRole returns the members carrying role, in document order.
func (r *Relation) MembersWithRole(role string) []Member {
	var out []Member
	for _, m := range r.Members {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// Map is a read-only snapshot of a Lanelet2 map once loaded.
type Map struct {
	Source             string
	Points             map[int64]*Point
	LineStrings        map[int64]*LineString
	Polygons           map[int64]*LineString
	Lanelets           map[int64]*Relation
	Areas              map[int64]*Relation
	RegulatoryElements map[int64]*Relation
}

// New returns an empty map.
func New() *Map {
	return &Map{
		Points:             make(map[int64]*Point),
		LineStrings:        make(map[int64]*LineString),
		Polygons:           make(map[int64]*LineString),
		Lanelets:           make(map[int64]*Relation),
		Areas:              make(map[int64]*Relation),
		RegulatoryElements: make(map[int64]*Relation),
	}
}

// Size returns the number of primitives in the map.
func (m *Map) Size() int {
	return len(m.Points) + len(m.LineStrings) + len(m.Polygons) +
		len(m.Lanelets) + len(m.Areas) + len(m.RegulatoryElements)
}

// AddPoint inserts a point.
func (m *Map) AddPoint(id int64, tags Tags) *Point {
	p := &Point{ID: id, Tags: orEmpty(tags)}
	m.Points[id] = p
	return p
}

// AddLineString inserts a linestring.
func (m *Map) AddLineString(id int64, points []int64, tags Tags) *LineString {
	ls := &LineString{ID: id, PointIDs: points, Tags: orEmpty(tags)}
	m.LineStrings[id] = ls
	return ls
}

// AddPolygon inserts a polygon.
func (m *Map) AddPolygon(id int64, points []int64, tags Tags) *LineString {
	poly := &LineString{ID: id, PointIDs: points, Tags: orEmpty(tags)}
	m.Polygons[id] = poly
	return poly
}

// AddLanelet inserts a lanelet relation.
func (m *Map) AddLanelet(id int64, members []Member, tags Tags) *Relation {
	r := &Relation{ID: id, Members: members, Tags: orEmpty(tags)}
	m.Lanelets[id] = r
	return r
}

// AddArea inserts an area relation.
func (m *Map) AddArea(id int64, members []Member, tags Tags) *Relation {
	r := &Relation{ID: id, Members: members, Tags: orEmpty(tags)}
	m.Areas[id] = r
	return r
}

// AddRegulatoryElement inserts a regulatory element relation.
func (m *Map) AddRegulatoryElement(id int64, members []Member, tags Tags) *Relation {
	r := &Relation{ID: id, Members: members, Tags: orEmpty(tags)}
	m.RegulatoryElements[id] = r
	return r
}

// Way returns the linestring or polygon with the given id.
func (m *Map) Way(id int64) (*LineString, bool) {
	if ls, ok := m.LineStrings[id]; ok {
		return ls, true
	}
	poly, ok := m.Polygons[id]
	return poly, ok
}

// SortedIDs returns the keys of a primitive layer in ascending order.
func SortedIDs[V any](layer map[int64]V) []int64 {
	return slices.SortedFunc(maps.Keys(layer), cmp.Compare[int64])
}

func orEmpty(tags Tags) Tags {
	if tags == nil {
		return Tags{}
	}
	return tags
}
