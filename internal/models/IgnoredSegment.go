package models

// IgnoredSegment marks a segment a user wants excluded from routing and
// coverage stats for one area.
type IgnoredSegment struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"index:idx_ignored_segments_key,unique"`
	AreaName  string `json:"area_name" gorm:"index:idx_ignored_segments_key,unique"`
	SegmentID string `json:"segment_id" gorm:"index:idx_ignored_segments_key,unique"`
}
