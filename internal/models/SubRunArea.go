package models

import "time"

// SubRunArea is a named polygon inside a run area, used to slice stats by
// neighbourhood.
type SubRunArea struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	CreatedAt time.Time `json:"-"`

	Username    string `json:"username" gorm:"index:idx_sub_run_areas_key,unique"`
	AreaName    string `json:"area_name" gorm:"index:idx_sub_run_areas_key,unique"`
	SubAreaName string `json:"sub_area_name" gorm:"index:idx_sub_run_areas_key,unique"`
	Polygon     string `json:"polygon"`
}
