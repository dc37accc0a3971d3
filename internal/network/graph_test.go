package network

import (
	"encoding/json"
	"strings"
	"testing"

	geom "github.com/twpayne/go-geom"
)

func TestGraphJSONRoundTrip(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: 1, Lat: 51.5, Lng: -0.1})
	g.AddNode(Node{ID: 2, Lat: 51.501, Lng: -0.099})
	g.AddNode(Node{ID: 3, Lat: 51.502, Lng: -0.098})
	for _, s := range []Segment{
		{ID: "9_0", StartNode: 1, EndNode: 2, LengthM: 140},
		{ID: "9_1", StartNode: 2, EndNode: 3, LengthM: 150},
	} {
		if err := g.AddSegment(s); err != nil {
			t.Fatal(err)
		}
	}

	blob, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := UnmarshalGraph(blob)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.NumNodes() != 3 || decoded.NumSegments() != 2 {
		t.Fatalf("decoded graph has %d nodes, %d segments; expected 3 and 2", decoded.NumNodes(), decoded.NumSegments())
	}
	s := decoded.SegmentByID("9_1")
	if s == nil || s.StartNode != 2 || s.EndNode != 3 || s.LengthM != 150 {
		t.Errorf("segment 9_1 = %+v; expected 2->3 length 150", s)
	}
	if len(decoded.Adjacent(2)) != 2 {
		t.Errorf("node 2 adjacency = %d; expected 2", len(decoded.Adjacent(2)))
	}
}

func TestFeatureCollectionJSONRoundTrip(t *testing.T) {
	fc := &FeatureCollection{Features: []*Feature{{
		SegmentID: "9_0",
		StartNode: 1,
		EndNode:   2,
		LengthM:   140,
		Line:      newLineString([]geom.Coord{{-0.1, 51.5}, {-0.099, 51.501}}),
	}}}

	blob, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(blob), `"FeatureCollection"`) {
		t.Errorf("artifact is not GeoJSON: %s", blob)
	}
	decoded, err := UnmarshalFeatureCollection(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded.Features) != 1 {
		t.Fatalf("features = %d; expected 1", len(decoded.Features))
	}
	f := decoded.Features[0]
	if f.SegmentID != "9_0" || f.StartNode != 1 || f.EndNode != 2 || f.LengthM != 140 {
		t.Errorf("feature = %+v; expected original properties", f)
	}
	first := f.Line.Coord(0)
	if first[0] != -0.1 || first[1] != 51.5 {
		t.Errorf("first coordinate = %v; expected (-0.1, 51.5)", first)
	}
}

func TestAddSegmentRejectsUnknownNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: 1, Lat: 51.5, Lng: -0.1})
	if err := g.AddSegment(Segment{ID: "9_0", StartNode: 1, EndNode: 99}); err == nil {
		t.Error("expected an error for a segment referencing an unknown node")
	}
}
