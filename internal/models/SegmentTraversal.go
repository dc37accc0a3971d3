package models

// SegmentTraversal counts how many times one run covered one segment.
type SegmentTraversal struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	RunID      string `json:"run_id" gorm:"index"`
	SegmentID  string `json:"segment_id" gorm:"index"`
	Traversals int    `json:"traversals"`
}
