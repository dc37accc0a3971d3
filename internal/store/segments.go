package store

import (
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/minimav/running-app/internal/models"
)

// IgnoredSegments lists the segment ids the user has excluded for an area.
func (s *Store) IgnoredSegments(username, areaName string) ([]string, error) {
	ids := make([]string, 0)
	err := s.db.Model(&models.IgnoredSegment{}).
		Where("username = ? AND area_name = ?", username, areaName).
		Order("segment_id").Pluck("segment_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list ignored segments")
	}
	return ids, nil
}

// ToggleIgnoredSegments flips the ignored state of each given id in one
// transaction: ids already ignored become unignored, the rest become
// ignored. Duplicate ids in the input toggle once. Returns the resulting
// ignored set sorted by id.
func (s *Store) ToggleIgnoredSegments(username, areaName string, segmentIDs []string) ([]string, error) {
	var after []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var current []string
		err := tx.Model(&models.IgnoredSegment{}).
			Where("username = ? AND area_name = ?", username, areaName).
			Pluck("segment_id", &current).Error
		if err != nil {
			return errors.Wrap(err, "could not load ignored segments")
		}
		ignored := make(map[string]bool, len(current))
		for _, id := range current {
			ignored[id] = true
		}

		var toRemove, toAdd []string
		seen := make(map[string]bool, len(segmentIDs))
		for _, id := range segmentIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			if ignored[id] {
				toRemove = append(toRemove, id)
				delete(ignored, id)
			} else {
				toAdd = append(toAdd, id)
				ignored[id] = true
			}
		}
		if len(toRemove) > 0 {
			err := tx.Where("username = ? AND area_name = ? AND segment_id IN ?",
				username, areaName, toRemove).Delete(&models.IgnoredSegment{}).Error
			if err != nil {
				return errors.Wrap(err, "could not unignore segments")
			}
		}
		if len(toAdd) > 0 {
			rows := make([]models.IgnoredSegment, 0, len(toAdd))
			for _, id := range toAdd {
				rows = append(rows, models.IgnoredSegment{
					Username:  username,
					AreaName:  areaName,
					SegmentID: id,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return errors.Wrap(err, "could not ignore segments")
			}
		}

		after = make([]string, 0, len(ignored))
		for id := range ignored {
			after = append(after, id)
		}
		sort.Strings(after)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return after, nil
}
