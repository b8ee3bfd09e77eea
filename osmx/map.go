package osmx

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/bsm/hexkit/geo"
	osm "github.com/glaslos/go-osm"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	errNoRelations      = errors.New("osmx: map contains no relations")
	errNoValidRelations = errors.New("osmx: map contains no valid relations")
	errNoRings          = errors.New("osmx: relation contains no rings")
)

// Map wraps osm.Map.
type Map struct {
	*osm.Map
	rel osm.Relation
}

// Decode decodes OSM XML data and wraps the result.
func Decode(r io.Reader) (*Map, error) {
	m, err := osm.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("osmx: decode: %w", err)
	}
	return WrapMap(m)
}

// WrapMap initialises Map and sorts indexes
// for further processing.
func WrapMap(parent *osm.Map) (*Map, error) {
	if len(parent.Relations) == 0 {
		return nil, errNoRelations
	}

	// get first relation that has ways
	var m *Map
	for _, rel := range parent.Relations {
		if hasWays(rel) {
			m = &Map{Map: parent, rel: rel}
			break
		}
	}
	if m == nil {
		return nil, errNoValidRelations
	}

	sort.Slice(m.Nodes, func(i, j int) bool { return m.Nodes[i].ID < m.Nodes[j].ID })
	sort.Slice(m.Ways, func(i, j int) bool { return m.Ways[i].ID < m.Ways[j].ID })
	return m, nil
}

// Tag returns the tag value of the primary relation.
func (m *Map) Tag(key string) string {
	for _, tag := range m.rel.Tags {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

// Rel returns the primary relation in Map.
func (m *Map) Rel() *osm.Relation { return &m.rel }

// FindNode finds and returns a node by its ID.
func (m *Map) FindNode(id int64) (*osm.Node, error) {
	if pos := sort.Search(len(m.Nodes), func(i int) bool { return m.Nodes[i].ID >= id }); pos < len(m.Nodes) && m.Nodes[pos].ID == id {
		return &m.Nodes[pos], nil
	}
	return nil, fmt.Errorf("osmx: node #%d not found", id)
}

// FindWay finds and returns a way by its ID.
func (m *Map) FindWay(id int64) (*osm.Way, error) {
	if pos := sort.Search(len(m.Ways), func(i int) bool { return m.Ways[i].ID >= id }); pos < len(m.Ways) && m.Ways[pos].ID == id {
		if way := &m.Ways[pos]; len(way.Nds) != 0 {
			return way, nil
		}
	}
	return nil, fmt.Errorf("osmx: way #%d not found", id)
}

// Feature builds a GeoJSON feature from the primary relation. Outer and
// inner ways are joined into rings, holes are assigned to the outer ring
// containing them. The geometry is a Polygon if there is a single outer
// ring and a MultiPolygon otherwise. Relation tags become feature
// properties, the relation ID becomes the feature ID.
func (m *Map) Feature() (*geojson.Feature, error) {
	ways, err := m.wayPaths()
	if err != nil {
		return nil, err
	}

	rings, err := ways.Reduce().Rings()
	if err != nil {
		return nil, err
	}

	polys, err := geo.Normalize(rings)
	if err != nil {
		return nil, fmt.Errorf("osmx: relation #%d: %w", m.rel.ID, err)
	}

	var g orb.Geometry
	switch len(polys) {
	case 0:
		return nil, errNoRings
	case 1:
		g = polys[0]
	default:
		g = orb.MultiPolygon(polys)
	}

	f := geojson.NewFeature(g)
	f.ID = m.rel.ID
	for _, tag := range m.rel.Tags {
		f.Properties[tag.Key] = tag.Value
	}
	return f, nil
}

// --------------------------------------------------------------------

func (m *Map) wayPaths() (waySlice, error) {
	rel := m.Rel()
	res := make(waySlice, 0, len(rel.Members))

	for _, om := range rel.Members {
		if om.Type != "way" {
			continue
		}

		ow, err := m.FindWay(om.Ref)
		if err != nil {
			return nil, err
		}

		wp := &wayPath{Role: om.Role, Path: make([]*osm.Node, 0, len(ow.Nds))}
		for _, nd := range ow.Nds {
			on, err := m.FindNode(nd.ID)
			if err != nil {
				return nil, err
			}
			wp.Path = append(wp.Path, on)
		}

		if wp.IsValid() {
			res = append(res, wp)
		}
	}
	return res, nil
}

func hasWays(rel osm.Relation) bool {
	for _, mem := range rel.Members {
		if mem.Type == "way" {
			return true
		}
	}
	return false
}
