// Package posts assembles feeds and applies the post, comment and follow
// mutations on top of the entity store.
package posts

import (
	"postboard/config"
	"postboard/metrics"
	"postboard/models"
	"postboard/storage"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"gorm.io/gorm"
)

type Service struct {
	DB            *gorm.DB
	Storage       storage.StorageAPI
	Metrics       *metrics.Metrics
	PerPage       int
	MaxImageBytes int64

	validate *validator.Validate
}

func NewService(db *gorm.DB, st storage.StorageAPI, m *metrics.Metrics) *Service {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &Service{
		DB:            db,
		Storage:       st,
		Metrics:       m,
		PerPage:       config.NUMBER_POSTS,
		MaxImageBytes: int64(config.MAX_IMAGE_MB) << 20,
		validate:      validate,
	}
}

func isAnonymous(viewer *models.User) bool {
	return viewer == nil || viewer.ID == 0
}
