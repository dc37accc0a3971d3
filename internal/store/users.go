package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/minimav/running-app/internal/models"
)

// CreateUser registers a user with an already-hashed password.
func (s *Store) CreateUser(username, passwordHash string) error {
	u := models.User{Username: username, Password: passwordHash}
	if err := s.db.Create(&u).Error; err != nil {
		if isDuplicate(err) {
			return ErrUsernameTaken
		}
		return errors.Wrap(err, "could not create user")
	}
	return nil
}

func (s *Store) UserByUsername(username string) (*models.User, error) {
	var u models.User
	err := s.db.Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not load user")
	}
	return &u, nil
}
