package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/minimav/running-app/internal/models"
)

// CreateRunArea inserts a new area with no artifacts yet. The network build
// fills those in later via SaveArtifacts.
func (s *Store) CreateRunArea(username, areaName, polygonWKT string) error {
	if polygonWKT == "" {
		return ErrMissingPolygon
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.RunArea
		err := tx.Where("username = ? AND area_name = ?", username, areaName).First(&existing).Error
		if err == nil {
			return ErrAreaExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "could not check for existing run area")
		}
		return tx.Create(&models.RunArea{
			Username: username,
			AreaName: areaName,
			Polygon:  polygonWKT,
		}).Error
	})
	if err != nil && isDuplicate(err) {
		return ErrAreaExists
	}
	return err
}

func (s *Store) RunArea(username, areaName string) (*models.RunArea, error) {
	var area models.RunArea
	err := s.db.Where("username = ? AND area_name = ?", username, areaName).First(&area).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not load run area")
	}
	return &area, nil
}

// ActiveArea returns the user's currently selected area, or ErrNotFound when
// none is active yet.
func (s *Store) ActiveArea(username string) (*models.RunArea, error) {
	var area models.RunArea
	err := s.db.Where("username = ? AND active", username).First(&area).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not load active run area")
	}
	return &area, nil
}

// AreasForUser lists areas by name. With artifactsOnly set, areas whose
// network build has not completed are skipped.
func (s *Store) AreasForUser(username string, artifactsOnly bool) ([]models.RunArea, error) {
	q := s.db.Where("username = ?", username)
	if artifactsOnly {
		q = q.Where("graph IS NOT NULL AND geometry IS NOT NULL")
	}
	areas := make([]models.RunArea, 0)
	if err := q.Order("area_name").Find(&areas).Error; err != nil {
		return nil, errors.Wrap(err, "could not list run areas")
	}
	return areas, nil
}

// SetActiveArea makes one area active and every other area of the user
// inactive in a single statement.
func (s *Store) SetActiveArea(username, areaName string) error {
	if _, err := s.RunArea(username, areaName); err != nil {
		return err
	}
	return s.db.Model(&models.RunArea{}).
		Where("username = ?", username).
		Update("active", gorm.Expr("(area_name = ?)", areaName)).Error
}

// SaveArtifacts stores the built graph and geometry blobs for an area.
func (s *Store) SaveArtifacts(username, areaName string, graph, geometry []byte) error {
	res := s.db.Model(&models.RunArea{}).
		Where("username = ? AND area_name = ?", username, areaName).
		Updates(map[string]interface{}{"graph": graph, "geometry": geometry})
	if res.Error != nil {
		return errors.Wrap(res.Error, "could not save network artifacts")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GraphArtifact(username, areaName string) ([]byte, error) {
	area, err := s.RunArea(username, areaName)
	if err != nil {
		return nil, err
	}
	if len(area.Graph) == 0 {
		return nil, ErrNotFound
	}
	return area.Graph, nil
}

func (s *Store) GeometryArtifact(username, areaName string) ([]byte, error) {
	area, err := s.RunArea(username, areaName)
	if err != nil {
		return nil, err
	}
	if len(area.Geometry) == 0 {
		return nil, ErrNotFound
	}
	return area.Geometry, nil
}

// RemoveRunArea deletes an area and everything hanging off it: runs, their
// traversals, sub areas and ignored segments. When the removed area was
// active, the first remaining area by name becomes active instead.
func (s *Store) RemoveRunArea(username, areaName string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var area models.RunArea
		err := tx.Where("username = ? AND area_name = ?", username, areaName).First(&area).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return errors.Wrap(err, "could not load run area")
		}

		var runIDs []string
		err = tx.Model(&models.LoggedRun{}).
			Where("username = ? AND area_name = ?", username, areaName).
			Pluck("id", &runIDs).Error
		if err != nil {
			return errors.Wrap(err, "could not collect run ids")
		}
		if len(runIDs) > 0 {
			if err := tx.Where("run_id IN ?", runIDs).Delete(&models.SegmentTraversal{}).Error; err != nil {
				return errors.Wrap(err, "could not delete segment traversals")
			}
		}
		for _, target := range []interface{}{
			&models.LoggedRun{},
			&models.SubRunArea{},
			&models.IgnoredSegment{},
		} {
			if err := tx.Where("username = ? AND area_name = ?", username, areaName).Delete(target).Error; err != nil {
				return errors.Wrap(err, "could not delete run area dependants")
			}
		}
		if err := tx.Delete(&area).Error; err != nil {
			return errors.Wrap(err, "could not delete run area")
		}

		if !area.Active {
			return nil
		}
		var next models.RunArea
		err = tx.Where("username = ?", username).Order("area_name").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "could not pick replacement active area")
		}
		return tx.Model(&next).Update("active", true).Error
	})
}

// CreateSubRunArea adds a named polygon inside an existing area.
func (s *Store) CreateSubRunArea(username, areaName, subAreaName, polygonWKT string) error {
	if polygonWKT == "" {
		return ErrMissingPolygon
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.SubRunArea
		err := tx.Where("username = ? AND area_name = ? AND sub_area_name = ?",
			username, areaName, subAreaName).First(&existing).Error
		if err == nil {
			return ErrSubAreaExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "could not check for existing sub run area")
		}
		return tx.Create(&models.SubRunArea{
			Username:    username,
			AreaName:    areaName,
			SubAreaName: subAreaName,
			Polygon:     polygonWKT,
		}).Error
	})
	if err != nil && isDuplicate(err) {
		return ErrSubAreaExists
	}
	return err
}

func (s *Store) SubRunArea(username, areaName, subAreaName string) (*models.SubRunArea, error) {
	var sub models.SubRunArea
	err := s.db.Where("username = ? AND area_name = ? AND sub_area_name = ?",
		username, areaName, subAreaName).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not load sub run area")
	}
	return &sub, nil
}

func (s *Store) SubRunAreas(username, areaName string) ([]models.SubRunArea, error) {
	subs := make([]models.SubRunArea, 0)
	err := s.db.Where("username = ? AND area_name = ?", username, areaName).
		Order("sub_area_name").Find(&subs).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list sub run areas")
	}
	return subs, nil
}

func (s *Store) RemoveSubRunArea(username, areaName, subAreaName string) error {
	res := s.db.Where("username = ? AND area_name = ? AND sub_area_name = ?",
		username, areaName, subAreaName).Delete(&models.SubRunArea{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "could not delete sub run area")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
