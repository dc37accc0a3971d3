package models

import "time"

// RunArea is a named region a user runs in. The polygon is the user-drawn
// boundary as WKT; Graph and Geometry hold the built network artifacts and
// stay null until the background build finishes. Rows are hard deleted so an
// area name can be reused after removal.
type RunArea struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Username string `json:"username" gorm:"index:idx_run_areas_user_area,unique"`
	AreaName string `json:"area_name" gorm:"index:idx_run_areas_user_area,unique"`
	Polygon  string `json:"polygon"`
	Active   bool   `json:"active"`

	// Network artifacts, JSON blobs produced by the builder.
	Graph    []byte `json:"-" gorm:"type:bytea"`
	Geometry []byte `json:"-" gorm:"type:bytea"`
}

// HasArtifacts reports whether the background network build has completed
// for this area.
func (a *RunArea) HasArtifacts() bool {
	return len(a.Graph) > 0 && len(a.Geometry) > 0
}
