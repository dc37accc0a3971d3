// Package gps parses uploaded GPS exports. Current support is for .tcx
// files as produced by MapMyRun and Garmin devices.
package gps

import (
	"encoding/xml"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

type tcxFile struct {
	XMLName     xml.Name     `xml:"TrainingCenterDatabase"`
	Trackpoints []trackpoint `xml:"Activities>Activity>Lap>Track>Trackpoint"`
}

type trackpoint struct {
	Position *position `xml:"Position"`
}

type position struct {
	Lat float64 `xml:"LatitudeDegrees"`
	Lng float64 `xml:"LongitudeDegrees"`
}

// ParseTCX extracts trackpoint coordinates from a TCX export and returns
// them as a WKT linestring. Trackpoints without a position, such as
// heart-rate-only samples, are skipped. Points are emitted latitude first,
// the order the map frontend consumes.
func ParseTCX(data []byte) (string, error) {
	var file tcxFile
	if err := xml.Unmarshal(data, &file); err != nil {
		return "", errors.Wrap(err, "could not parse TCX file")
	}
	line := make(orb.LineString, 0, len(file.Trackpoints))
	for _, tp := range file.Trackpoints {
		if tp.Position == nil {
			continue
		}
		line = append(line, orb.Point{tp.Position.Lat, tp.Position.Lng})
	}
	if len(line) == 0 {
		return "", errors.New("no coordinates found in TCX file")
	}
	return wkt.MarshalString(line), nil
}
