package posts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrNotAuthor       = errors.New("only the author can edit a post")
	ErrUnauthenticated = errors.New("authentication required")
)

const (
	msgRequired     = "This field is required."
	msgInvalidGroup = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgImageTooBig  = "The uploaded image is too large."
	msgSlugTaken    = "Group with this slug already exists."
	msgInvalidSlug  = "Enter a valid slug consisting of letters, numbers, underscores or hyphens."
)

// FormErrors maps a form field to the message shown next to it
type FormErrors map[string]string

func (f FormErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+f[field])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

func (f FormErrors) orNil() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
