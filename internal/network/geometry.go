package network

import (
	"encoding/json"

	"github.com/pkg/errors"
	geom "github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
)

// Feature is the drawable geometry of one segment. Line coordinates are
// (lng, lat) ordered and run from the segment's start node to its end node
// once orientation has been normalized. SegmentID may be empty before
// identity assignment.
type Feature struct {
	SegmentID string
	StartNode int64
	EndNode   int64
	LengthM   float64
	Line      *geom.LineString
}

// FeatureCollection is the geometry artifact persisted per run area. Its
// features are one to one with the routable segments of the graph.
type FeatureCollection struct {
	Features []*Feature
}

type featureProperties struct {
	SegmentID string  `json:"segment_id,omitempty"`
	StartNode int64   `json:"start_node"`
	EndNode   int64   `json:"end_node"`
	LengthM   float64 `json:"length_m"`
}

type featureJSON struct {
	Type       string            `json:"type"`
	Geometry   json.RawMessage   `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

type featureCollectionJSON struct {
	Type     string        `json:"type"`
	Features []featureJSON `json:"features"`
}

// MarshalJSON encodes the collection as GeoJSON.
func (fc *FeatureCollection) MarshalJSON() ([]byte, error) {
	out := featureCollectionJSON{Type: "FeatureCollection", Features: make([]featureJSON, 0, len(fc.Features))}
	for _, f := range fc.Features {
		rawGeom, err := gjson.Marshal(f.Line)
		if err != nil {
			return nil, errors.Wrapf(err, "could not encode geometry for segment %q", f.SegmentID)
		}
		out.Features = append(out.Features, featureJSON{
			Type:     "Feature",
			Geometry: rawGeom,
			Properties: featureProperties{
				SegmentID: f.SegmentID,
				StartNode: f.StartNode,
				EndNode:   f.EndNode,
				LengthM:   f.LengthM,
			},
		})
	}
	return json.Marshal(out)
}

func (fc *FeatureCollection) UnmarshalJSON(data []byte) error {
	var in featureCollectionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "could not decode feature collection")
	}
	fc.Features = make([]*Feature, 0, len(in.Features))
	for _, f := range in.Features {
		var g geom.T
		if err := gjson.Unmarshal(f.Geometry, &g); err != nil {
			return errors.Wrapf(err, "could not decode geometry for segment %q", f.Properties.SegmentID)
		}
		line, ok := g.(*geom.LineString)
		if !ok {
			return errors.Errorf("segment %q geometry is %T, expected LineString", f.Properties.SegmentID, g)
		}
		fc.Features = append(fc.Features, &Feature{
			SegmentID: f.Properties.SegmentID,
			StartNode: f.Properties.StartNode,
			EndNode:   f.Properties.EndNode,
			LengthM:   f.Properties.LengthM,
			Line:      line,
		})
	}
	return nil
}

// UnmarshalFeatureCollection decodes a stored geometry artifact.
func UnmarshalFeatureCollection(data []byte) (*FeatureCollection, error) {
	fc := &FeatureCollection{}
	if err := fc.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return fc, nil
}

func newLineString(coords []geom.Coord) *geom.LineString {
	return geom.NewLineString(geom.XY).MustSetCoords(coords)
}

func reverseCoords(coords []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(coords))
	for i, c := range coords {
		out[len(coords)-1-i] = c
	}
	return out
}

func coordsEqual(a, b geom.Coord) bool {
	return a[0] == b[0] && a[1] == b[1]
}
