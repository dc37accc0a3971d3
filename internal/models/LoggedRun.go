package models

import "time"

// LoggedRun is one recorded run. The id is a UUID issued at insert time and
// the date is kept as YYYY-MM-DD text so range scans stay lexicographic.
type LoggedRun struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`

	Username string `json:"username" gorm:"index:idx_logged_runs_user_area"`
	AreaName string `json:"area_name" gorm:"index:idx_logged_runs_user_area"`
	Date     string `json:"date" gorm:"index"`

	DistanceMiles   float64  `json:"distance_miles"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Comments        *string  `json:"comments"`
	Linestring      *string  `json:"linestring"`
}
