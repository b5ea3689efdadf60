package posts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"postboard/models"
	"postboard/processing"
	"postboard/storage"
	"postboard/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type ImageUpload struct {
	Filename string
	Data     []byte
}

type PostInput struct {
	Text    string `validate:"notblank"`
	GroupID *uint64
	Image   *ImageUpload
}

type commentInput struct {
	Text string `validate:"notblank"`
}

type groupInput struct {
	Title string `validate:"notblank,max=200"`
	Slug  string `validate:"notblank,max=100"`
}

var (
	imageExtensions = map[string]string{
		"gif":  ".gif",
		"jpeg": ".jpg",
		"png":  ".png",
	}
	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// formErrors turns validator failures into one message per form field
func (s *Service) formErrors(input any) FormErrors {
	errs := FormErrors{}
	err := s.validate.Struct(input)
	if err == nil {
		return errs
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["__all__"] = err.Error()
		return errs
	}
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "max":
			errs[field] = fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		default:
			errs[field] = msgRequired
		}
	}
	return errs
}

// validatePost checks the input and returns the extension for the uploaded image
func (s *Service) validatePost(tx *gorm.DB, in PostInput) (string, error) {
	errs := s.formErrors(in)
	if in.GroupID != nil {
		var groups int64
		if err := tx.Model(&models.Group{}).Where("id = ?", *in.GroupID).Count(&groups).Error; err != nil {
			return "", err
		}
		if groups == 0 {
			errs["group"] = msgInvalidGroup
		}
	}
	ext := ""
	if in.Image != nil {
		format, err := utils.ImageFormat(in.Image.Data)
		ext = imageExtensions[format]
		switch {
		case err != nil || ext == "":
			errs["image"] = msgInvalidImage
		case s.MaxImageBytes > 0 && int64(len(in.Image.Data)) > s.MaxImageBytes:
			errs["image"] = msgImageTooBig
		}
	}
	return ext, errs.orNil()
}

func (s *Service) saveImage(img *ImageUpload, ext string) (string, error) {
	path := storage.NewImagePath(ext)
	if _, err := s.Storage.Save(path, bytes.NewReader(img.Data)); err != nil {
		return "", fmt.Errorf("save image %s: %w", img.Filename, err)
	}
	return path, nil
}

func (s *Service) dropImage(path string) {
	if err := s.Storage.Delete(path); err != nil {
		utils.Logger.WithError(err).WithField("path", path).Warn("cannot remove orphan image")
	}
}

// CreatePost publishes a new post of viewer
func (s *Service) CreatePost(ctx context.Context, viewer *models.User, in PostInput) (models.Post, error) {
	if isAnonymous(viewer) {
		return models.Post{}, ErrUnauthenticated
	}
	tx := s.DB.WithContext(ctx)
	ext, err := s.validatePost(tx, in)
	if err != nil {
		return models.Post{}, err
	}
	post := models.Post{
		AuthorID: viewer.ID,
		GroupID:  in.GroupID,
		Text:     strings.TrimSpace(in.Text),
	}
	if in.Image != nil {
		if post.Image, err = s.saveImage(in.Image, ext); err != nil {
			return models.Post{}, err
		}
	}
	if err = tx.Create(&post).Error; err != nil {
		if post.Image != "" {
			s.dropImage(post.Image)
		}
		return models.Post{}, err
	}
	post.Author = *viewer
	if s.Metrics != nil {
		s.Metrics.PostsCreated.Inc()
	}
	return post, nil
}

// EditPost changes text, group and image of a post. Only the author may do it,
// an omitted image keeps the current one.
func (s *Service) EditPost(ctx context.Context, viewer *models.User, postID uint64, in PostInput) (models.Post, error) {
	if isAnonymous(viewer) {
		return models.Post{}, ErrUnauthenticated
	}
	post := models.Post{}
	tx := s.DB.WithContext(ctx)
	if err := tx.First(&post, postID).Error; err != nil {
		return post, notFound(err, "post")
	}
	if post.AuthorID != viewer.ID {
		return post, ErrNotAuthor
	}
	ext, err := s.validatePost(tx, in)
	if err != nil {
		return post, err
	}
	updates := map[string]any{
		"text":     strings.TrimSpace(in.Text),
		"group_id": in.GroupID,
	}
	newImage := ""
	if in.Image != nil {
		if newImage, err = s.saveImage(in.Image, ext); err != nil {
			return post, err
		}
		updates["image"] = newImage
		updates["image_thumb"] = ""
		updates["image_width"] = 0
		updates["image_height"] = 0
	}
	err = tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post).Updates(updates).Error; err != nil {
			return err
		}
		if newImage != "" {
			return processing.Reset(tx, post.ID)
		}
		return nil
	})
	if err != nil {
		if newImage != "" {
			s.dropImage(newImage)
		}
		return post, err
	}
	if err = tx.Preload("Author").Preload("Group").First(&post, post.ID).Error; err != nil {
		return post, err
	}
	if s.Metrics != nil {
		s.Metrics.PostsEdited.Inc()
	}
	return post, nil
}

// AddComment adds a comment of viewer under the post
func (s *Service) AddComment(ctx context.Context, viewer *models.User, postID uint64, text string) (models.Comment, error) {
	if isAnonymous(viewer) {
		return models.Comment{}, ErrUnauthenticated
	}
	tx := s.DB.WithContext(ctx)
	post := models.Post{}
	if err := tx.Select("id").First(&post, postID).Error; err != nil {
		return models.Comment{}, notFound(err, "post")
	}
	if err := s.formErrors(commentInput{Text: text}).orNil(); err != nil {
		return models.Comment{}, err
	}
	comment := models.Comment{
		AuthorID: viewer.ID,
		PostID:   post.ID,
		Text:     strings.TrimSpace(text),
	}
	if err := tx.Create(&comment).Error; err != nil {
		return models.Comment{}, err
	}
	comment.Author = *viewer
	if s.Metrics != nil {
		s.Metrics.CommentsAdded.Inc()
	}
	return comment, nil
}

// CreateGroup adds a group, the slug must be unique
func (s *Service) CreateGroup(ctx context.Context, title, slug, description string) (models.Group, error) {
	slug = strings.TrimSpace(slug)
	errs := s.formErrors(groupInput{Title: title, Slug: slug})
	if _, ok := errs["slug"]; !ok && !slugPattern.MatchString(slug) {
		errs["slug"] = msgInvalidSlug
	}
	if err := errs.orNil(); err != nil {
		return models.Group{}, err
	}
	tx := s.DB.WithContext(ctx)
	var taken int64
	if err := tx.Model(&models.Group{}).Where("slug = ?", slug).Count(&taken).Error; err != nil {
		return models.Group{}, err
	}
	if taken > 0 {
		return models.Group{}, FormErrors{"slug": msgSlugTaken}
	}
	group, err := models.GroupCreate(tx, strings.TrimSpace(title), slug, description)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return group, FormErrors{"slug": msgSlugTaken}
	}
	return group, err
}
