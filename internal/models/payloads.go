package models

import (
	"time"

	"github.com/pkg/errors"
)

// LatLng is a map coordinate as sent by the frontend.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RunAreaGeometry is the payload for creating a run area from a drawn
// polygon.
type RunAreaGeometry struct {
	AreaName string   `json:"area_name" binding:"required"`
	Geometry []LatLng `json:"geometry"`
}

// SubRunAreaGeometry creates a sub area inside the active run area.
type SubRunAreaGeometry struct {
	SubAreaName string   `json:"sub_area_name" binding:"required"`
	Geometry    []LatLng `json:"geometry"`
}

// SubRunAreaName selects an existing sub area of the active run area.
type SubRunAreaName struct {
	Name string `json:"name" binding:"required"`
}

// RunAreaName selects an existing area, for activation or removal.
type RunAreaName struct {
	AreaName string `json:"area_name" binding:"required"`
}

// StoreRunInput is the payload for logging a run.
type StoreRunInput struct {
	Date              string         `json:"date" binding:"required"`
	DistanceMiles     float64        `json:"distance_miles"`
	Duration          *string        `json:"duration"`
	Comments          *string        `json:"comments"`
	Linestring        *string        `json:"linestring"`
	AllowMultiple     bool           `json:"allow_multiple"`
	SegmentTraversals map[string]int `json:"segment_traversals"`
}

// RouteRequest carries both snapped endpoints for route computation. The
// distances run along each segment's geometry from its start node.
type RouteRequest struct {
	FromSegmentID string  `json:"from_segment_id" binding:"required"`
	FromStartNode int64   `json:"from_segment_start_node"`
	FromEndNode   int64   `json:"from_segment_end_node"`
	FromDistanceM float64 `json:"from_segment_distance_along_segment_metres"`

	ToSegmentID string  `json:"to_segment_id" binding:"required"`
	ToStartNode int64   `json:"to_segment_start_node"`
	ToEndNode   int64   `json:"to_segment_end_node"`
	ToDistanceM float64 `json:"to_segment_distance_along_segment_metres"`

	// RespectIgnored defaults to true when omitted.
	RespectIgnored *bool `json:"respect_ignored_segments"`
}

// SegmentList is a set of segment ids whose ignored state should flip.
type SegmentList struct {
	SegmentIDs []string `json:"segment_ids"`
}

// ValidateDate checks the YYYY-MM-DD format used for run dates.
func ValidateDate(date string) error {
	if len(date) != 10 {
		return errors.Errorf("date %q is not in YYYY-MM-DD format", date)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.Errorf("date %q is not in YYYY-MM-DD format", date)
	}
	return nil
}
