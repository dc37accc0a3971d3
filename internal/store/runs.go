package store

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/minimav/running-app/internal/models"
)

// DatedTraversal is one traversal row joined with the date of its run.
type DatedTraversal struct {
	Date       string `json:"date"`
	SegmentID  string `json:"segment_id"`
	Traversals int    `json:"traversals"`
}

// SegmentTotal is the summed traversal count for one segment.
type SegmentTotal struct {
	SegmentID string `json:"segment_id"`
	Total     int    `json:"num_traversals"`
}

// FirstTraversal is the earliest date on which a segment was covered.
type FirstTraversal struct {
	SegmentID string `json:"segment_id"`
	Date      string `json:"date"`
}

// RunLinestring is a stored run geometry with the date it was logged.
type RunLinestring struct {
	Date       string `json:"date"`
	Linestring string `json:"linestring"`
}

// parseDurationMinutes converts a HH:MM:SS.cc duration into minutes. The
// centisecond part is optional.
func parseDurationMinutes(raw string) (float64, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0, errors.Errorf("duration %q is not in HH:MM:SS.cc format", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, errors.Errorf("duration %q has a bad hour component", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, errors.Errorf("duration %q has a bad minute component", raw)
	}
	secParts := strings.SplitN(parts[2], ".", 2)
	seconds, err := strconv.Atoi(secParts[0])
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, errors.Errorf("duration %q has a bad second component", raw)
	}
	centis := 0
	if len(secParts) == 2 {
		centis, err = strconv.Atoi(secParts[1])
		if err != nil || centis < 0 || centis > 99 {
			return 0, errors.Errorf("duration %q has a bad centisecond component", raw)
		}
	}
	return float64(hours)*60 + float64(minutes) + float64(seconds)/60 + float64(centis)/6000, nil
}

// StoreRun inserts a run and its traversal rows atomically and returns the
// new run id. A second run on the same date is rejected with ErrRunExists
// unless the input allows multiple runs per date.
func (s *Store) StoreRun(username, areaName string, input models.StoreRunInput) (string, error) {
	if err := models.ValidateDate(input.Date); err != nil {
		return "", errors.Wrap(ErrInvalidInput, err.Error())
	}
	var durationMinutes *float64
	if input.Duration != nil && *input.Duration != "" {
		mins, err := parseDurationMinutes(*input.Duration)
		if err != nil {
			return "", errors.Wrap(ErrInvalidInput, err.Error())
		}
		durationMinutes = &mins
	}
	linestring := input.Linestring
	if linestring != nil && *linestring == "" {
		linestring = nil
	}
	if linestring != nil {
		if _, err := wkt.UnmarshalLineString(*linestring); err != nil {
			return "", errors.Wrap(ErrInvalidInput, "run geometry must be a WKT LINESTRING")
		}
	}
	segmentIDs := make([]string, 0, len(input.SegmentTraversals))
	for segmentID, count := range input.SegmentTraversals {
		if count <= 0 {
			return "", errors.Wrapf(ErrInvalidInput, "segment %s has a non-positive traversal count", segmentID)
		}
		segmentIDs = append(segmentIDs, segmentID)
	}
	sort.Strings(segmentIDs)

	runID := uuid.NewString()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if !input.AllowMultiple {
			var n int64
			err := tx.Model(&models.LoggedRun{}).
				Where("username = ? AND area_name = ? AND date = ?", username, areaName, input.Date).
				Count(&n).Error
			if err != nil {
				return errors.Wrap(err, "could not check for runs on date")
			}
			if n > 0 {
				return ErrRunExists
			}
		}
		run := models.LoggedRun{
			ID:              runID,
			Username:        username,
			AreaName:        areaName,
			Date:            input.Date,
			DistanceMiles:   input.DistanceMiles,
			DurationMinutes: durationMinutes,
			Comments:        input.Comments,
			Linestring:      linestring,
		}
		if err := tx.Create(&run).Error; err != nil {
			return errors.Wrap(err, "could not store run")
		}
		if len(segmentIDs) == 0 {
			return nil
		}
		traversals := make([]models.SegmentTraversal, 0, len(segmentIDs))
		for _, segmentID := range segmentIDs {
			traversals = append(traversals, models.SegmentTraversal{
				RunID:      runID,
				SegmentID:  segmentID,
				Traversals: input.SegmentTraversals[segmentID],
			})
		}
		return errors.Wrap(tx.Create(&traversals).Error, "could not store segment traversals")
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) RunExistsOnDate(username, areaName, date string) (bool, error) {
	var n int64
	err := s.db.Model(&models.LoggedRun{}).
		Where("username = ? AND area_name = ? AND date = ?", username, areaName, date).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "could not count runs on date")
	}
	return n > 0, nil
}

// DeleteRun removes one run and its traversal rows.
func (s *Store) DeleteRun(username, runID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("username = ? AND id = ?", username, runID).Delete(&models.LoggedRun{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "could not delete run")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return errors.Wrap(tx.Where("run_id = ?", runID).Delete(&models.SegmentTraversal{}).Error,
			"could not delete segment traversals")
	})
}

// DeleteRunsOnDate removes every run logged on the date along with their
// traversal rows, returning how many runs went. Zero is not an error.
func (s *Store) DeleteRunsOnDate(username, areaName, date string) (int64, error) {
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var runIDs []string
		err := tx.Model(&models.LoggedRun{}).
			Where("username = ? AND area_name = ? AND date = ?", username, areaName, date).
			Pluck("id", &runIDs).Error
		if err != nil {
			return errors.Wrap(err, "could not collect run ids")
		}
		if len(runIDs) == 0 {
			return nil
		}
		if err := tx.Where("run_id IN ?", runIDs).Delete(&models.SegmentTraversal{}).Error; err != nil {
			return errors.Wrap(err, "could not delete segment traversals")
		}
		res := tx.Where("id IN ?", runIDs).Delete(&models.LoggedRun{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "could not delete runs")
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (s *Store) NumberOfRuns(username, areaName, startDate, endDate string) (int64, error) {
	q := s.db.Model(&models.LoggedRun{}).
		Where("username = ? AND area_name = ?", username, areaName)
	q = dateRange(q, "date", startDate, endDate)
	var n int64
	if err := q.Distinct("id").Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "could not count runs")
	}
	return n, nil
}

// RunsInRange lists runs ordered by date, oldest first.
func (s *Store) RunsInRange(username, areaName, startDate, endDate string) ([]models.LoggedRun, error) {
	q := s.db.Where("username = ? AND area_name = ?", username, areaName)
	q = dateRange(q, "date", startDate, endDate)
	runs := make([]models.LoggedRun, 0)
	if err := q.Order("date, created_at").Find(&runs).Error; err != nil {
		return nil, errors.Wrap(err, "could not list runs")
	}
	return runs, nil
}

// TraversalsByDate lists every traversal row with its run date, ordered by
// date then segment id. This feeds the per-date coverage animation.
func (s *Store) TraversalsByDate(username, areaName, startDate, endDate string) ([]DatedTraversal, error) {
	q := s.db.Table("segment_traversals").
		Select("logged_runs.date AS date, segment_traversals.segment_id AS segment_id, segment_traversals.traversals AS traversals").
		Joins("JOIN logged_runs ON logged_runs.id = segment_traversals.run_id").
		Where("logged_runs.username = ? AND logged_runs.area_name = ?", username, areaName)
	q = dateRange(q, "logged_runs.date", startDate, endDate)
	rows := make([]DatedTraversal, 0)
	err := q.Order("logged_runs.date, segment_traversals.segment_id").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list traversals by date")
	}
	return rows, nil
}

// TraversalTotals sums traversal counts per segment over the date range.
func (s *Store) TraversalTotals(username, areaName, startDate, endDate string) ([]SegmentTotal, error) {
	q := s.db.Table("segment_traversals").
		Select("segment_traversals.segment_id AS segment_id, SUM(segment_traversals.traversals) AS total").
		Joins("JOIN logged_runs ON logged_runs.id = segment_traversals.run_id").
		Where("logged_runs.username = ? AND logged_runs.area_name = ?", username, areaName)
	q = dateRange(q, "logged_runs.date", startDate, endDate)
	rows := make([]SegmentTotal, 0)
	err := q.Group("segment_traversals.segment_id").
		Order("segment_traversals.segment_id").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not sum traversals")
	}
	return rows, nil
}

// FirstTraversals reports, per segment, the earliest date in range on which
// it was covered, ordered by that date with segment id as tie break.
func (s *Store) FirstTraversals(username, areaName, startDate, endDate string) ([]FirstTraversal, error) {
	q := s.db.Table("segment_traversals").
		Select("segment_traversals.segment_id AS segment_id, MIN(logged_runs.date) AS date").
		Joins("JOIN logged_runs ON logged_runs.id = segment_traversals.run_id").
		Where("logged_runs.username = ? AND logged_runs.area_name = ?", username, areaName)
	q = dateRange(q, "logged_runs.date", startDate, endDate)
	rows := make([]FirstTraversal, 0)
	err := q.Group("segment_traversals.segment_id").
		Order("MIN(logged_runs.date), segment_traversals.segment_id").Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not compute first traversals")
	}
	return rows, nil
}

// RunLinestrings lists the stored WKT geometries of runs in range, skipping
// runs logged without one.
func (s *Store) RunLinestrings(username, areaName, startDate, endDate string) ([]RunLinestring, error) {
	q := s.db.Model(&models.LoggedRun{}).
		Select("date, linestring").
		Where("username = ? AND area_name = ?", username, areaName).
		Where("linestring IS NOT NULL")
	q = dateRange(q, "date", startDate, endDate)
	rows := make([]RunLinestring, 0)
	if err := q.Order("date, created_at").Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "could not list run linestrings")
	}
	return rows, nil
}
