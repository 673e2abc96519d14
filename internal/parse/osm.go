package parse

import (
	"io"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/qedus/osmpbf"
)

// TagFilter selects the OSM ways read as polygons. A nil filter keeps every
// closed way.
type TagFilter func(tags map[string]string) bool

// MatchTag returns a filter for "key" (any value) or "key=value".
func MatchTag(expr string) TagFilter {
	key, value, hasValue := strings.Cut(strings.TrimSpace(expr), "=")
	return func(tags map[string]string) bool {
		v, ok := tags[key]
		if !ok {
			return false
		}
		return !hasValue || v == value
	}
}

// OSMPBF reads the closed ways of an OpenStreetMap PBF extract as polygons.
// Nodes must precede ways, as in every sorted extract.
func OSMPBF(r io.Reader, filter TagFilter) ([]orb.Polygon, error) {
	decoder := osmpbf.NewDecoder(r)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)
	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return nil, parseError(err, "osm pbf header")
	}

	a := newWayAssembler(filter)
	for {
		object, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(err, "osm pbf")
		}
		switch v := object.(type) {
		case *osmpbf.Node:
			a.addNode(v.ID, v.Lon, v.Lat)
		case *osmpbf.Way:
			a.addWay(v.NodeIDs, v.Tags)
		}
	}
	if len(a.polygons) == 0 {
		return nil, errors.Wrapf(ErrUnsupportedGeometry, "no closed ways in osm extract (%d skipped)", a.skipped)
	}
	return a.polygons, nil
}

// wayAssembler turns closed ways into single-ring polygons.
type wayAssembler struct {
	filter   TagFilter
	nodes    map[int64]orb.Point
	polygons []orb.Polygon
	skipped  int
}

func newWayAssembler(filter TagFilter) *wayAssembler {
	return &wayAssembler{filter: filter, nodes: make(map[int64]orb.Point)}
}

func (a *wayAssembler) addNode(id int64, lon, lat float64) {
	a.nodes[id] = orb.Point{lon, lat}
}

func (a *wayAssembler) addWay(nodeIDs []int64, tags map[string]string) {
	if len(nodeIDs) < 4 || nodeIDs[0] != nodeIDs[len(nodeIDs)-1] {
		return
	}
	if a.filter != nil && !a.filter(tags) {
		return
	}
	ring := make(orb.Ring, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		p, ok := a.nodes[id]
		if !ok {
			// clipped extract: the way leaves the area
			a.skipped++
			return
		}
		ring = append(ring, p)
	}
	a.polygons = append(a.polygons, orb.Polygon{ring})
}

// isOSMPBF reports whether data starts with an OSMHeader blob.
func isOSMPBF(data []byte) bool {
	return len(data) > 15 && string(data[6:15]) == "OSMHeader"
}
