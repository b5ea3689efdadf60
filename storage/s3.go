package storage

import (
	"io"
	"mime"
	"net/http"
	"path"
	"time"

	"postboard/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const presignExpiry = 15 * time.Minute

type S3Storage struct {
	Bucket   Bucket
	s3Client *s3.S3
}

func NewS3Storage(bucket *Bucket) *S3Storage {
	return &S3Storage{
		Bucket:   *bucket,
		s3Client: bucket.CreateSVC(),
	}
}

func (s *S3Storage) key(p string) (*string, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return nil, err
	}
	return aws.String(s.Bucket.GetRemotePath(clean)), nil
}

// Save uploads the object, content type is guessed from the extension
func (s *S3Storage) Save(p string, reader io.Reader) (int64, error) {
	key, err := s.key(p)
	if err != nil {
		return 0, err
	}
	counter := &countingReader{Reader: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	input := s3manager.UploadInput{
		Bucket: &s.Bucket.Name,
		Key:    key,
		Body:   counter,
	}
	if mimeType := mime.TypeByExtension(path.Ext(p)); mimeType != "" {
		input.ContentType = &mimeType
	}
	if s.Bucket.SSEEncryption != "" {
		input.ServerSideEncryption = &s.Bucket.SSEEncryption
	}
	_, err = uploader.Upload(&input)
	return counter.n, err
}

func (s *S3Storage) Load(p string, writer io.Writer) (int64, error) {
	key, err := s.key(p)
	if err != nil {
		return 0, err
	}
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    key,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

// Serve redirects the client to a short lived presigned URL
func (s *S3Storage) Serve(p string, request *http.Request, writer http.ResponseWriter) {
	key, err := s.key(p)
	if err != nil {
		http.NotFound(writer, request)
		return
	}
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    key,
	})
	url, err := req.Presign(presignExpiry)
	if err != nil {
		utils.Logger.WithError(err).WithField("path", p).Error("presign failed")
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(writer, request, url, http.StatusFound)
}

func (s *S3Storage) Delete(p string) error {
	key, err := s.key(p)
	if err != nil {
		return err
	}
	_, err = s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.Bucket.Name,
		Key:    key,
	})
	return err
}

// GetFreeSpace is unknown for S3, 0 is reported
func (s *S3Storage) GetFreeSpace() uint64 {
	return 0
}

type countingReader struct {
	io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.n += int64(n)
	return n, err
}
