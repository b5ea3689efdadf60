package storage

import (
	"strings"

	"postboard/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type Bucket struct {
	Name          string
	Path          string // Prefix inside the S3 bucket
	Region        string
	Endpoint      string // Custom endpoint for S3 compatible services
	Key           string
	Secret        string
	SSEEncryption string
}

func BucketFromConfig() Bucket {
	return Bucket{
		Name:          config.S3_BUCKET,
		Path:          config.S3_PREFIX,
		Region:        config.S3_REGION,
		Endpoint:      config.S3_ENDPOINT,
		Key:           config.S3_KEY,
		Secret:        config.S3_SECRET,
		SSEEncryption: config.S3_SSE,
	}
}

func (b *Bucket) GetRemotePath(path string) string {
	prefix := strings.Trim(b.Path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	cfg := aws.NewConfig().WithRegion(b.Region)
	if b.Key != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(b.Key, b.Secret, ""))
	}
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	sess := session.Must(session.NewSession(cfg))
	return s3.New(sess)
}
