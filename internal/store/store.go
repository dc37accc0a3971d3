package store

import "gorm.io/gorm"

// Store wraps the database handle with the queries the app needs. All run
// and traversal reads are scoped to one user and area; date bounds are
// inclusive and optional, with "" meaning unbounded.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func dateRange(q *gorm.DB, column, startDate, endDate string) *gorm.DB {
	if startDate != "" {
		q = q.Where(column+" >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where(column+" <= ?", endDate)
	}
	return q
}
