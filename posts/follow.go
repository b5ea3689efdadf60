package posts

import (
	"context"
	"errors"

	"postboard/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Service) countFollow(result string) {
	if s.Metrics != nil {
		s.Metrics.FollowRequests.WithLabelValues(result).Inc()
	}
}

func (s *Service) findUser(tx *gorm.DB, username string) (models.User, error) {
	user := models.User{}
	if err := tx.First(&user, "username = ?", username).Error; err != nil {
		return user, notFound(err, "user "+username)
	}
	return user, nil
}

// Follow makes viewer follow username. Following yourself or someone you
// already follow changes nothing.
func (s *Service) Follow(ctx context.Context, viewer *models.User, username string) (models.User, error) {
	if isAnonymous(viewer) {
		return models.User{}, ErrUnauthenticated
	}
	author, err := s.findUser(s.DB.WithContext(ctx), username)
	if err != nil {
		return author, err
	}
	if author.ID == viewer.ID {
		s.countFollow("self")
		return author, nil
	}
	result := "exists"
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var edges int64
		if err := tx.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", viewer.ID, author.ID).
			Count(&edges).Error; err != nil {
			return err
		}
		if edges > 0 {
			return nil
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{UserID: viewer.ID, AuthorID: author.ID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			result = "created"
		}
		return nil
	})
	if err != nil {
		return author, err
	}
	s.countFollow(result)
	return author, nil
}

// Unfollow removes the edge viewer -> username, ErrNotFound if there is none
func (s *Service) Unfollow(ctx context.Context, viewer *models.User, username string) (models.User, error) {
	if isAnonymous(viewer) {
		return models.User{}, ErrUnauthenticated
	}
	author, err := s.findUser(s.DB.WithContext(ctx), username)
	if err != nil {
		return author, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edge := models.Follow{}
		if err := tx.Where("user_id = ? AND author_id = ?", viewer.ID, author.ID).First(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(err, "follow "+username)
			}
			return err
		}
		return tx.Delete(&edge).Error
	})
	if err != nil {
		return author, err
	}
	if s.Metrics != nil {
		s.Metrics.Unfollows.Inc()
	}
	return author, nil
}
