package storage

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"postboard/config"
	"postboard/utils"

	"github.com/google/uuid"
)

const ImageLocation = "posts"

var ErrInvalidPath = errors.New("invalid storage path")

type StorageAPI interface {
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	Delete(path string) error
	GetFreeSpace() uint64
}

// Init picks S3 when a bucket is configured, the media directory otherwise
func Init() StorageAPI {
	if config.S3_BUCKET != "" {
		bucket := BucketFromConfig()
		utils.Logger.WithField("bucket", bucket.Name).Info("using S3 storage")
		return NewS3Storage(&bucket)
	}
	disk := NewDiskStorage(config.MEDIA_DIR)
	utils.Logger.WithField("path", disk.BasePath).WithField("free_mb", disk.GetFreeSpace()>>20).Info("using disk storage")
	return disk
}

// NewImagePath returns a unique object name for an uploaded image, ext includes the dot
func NewImagePath(ext string) string {
	return ImageLocation + "/" + uuid.NewString() + strings.ToLower(ext)
}

// ThumbPath is where the processing worker stores the thumbnail of an image
func ThumbPath(imagePath string) string {
	ext := path.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + "_thumb.jpg"
}

// cleanPath makes a request path relative and rejects anything leaving the storage root
func cleanPath(p string) (string, error) {
	p = path.Clean("/" + strings.TrimSpace(p))
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." {
		return "", ErrInvalidPath
	}
	return p, nil
}
