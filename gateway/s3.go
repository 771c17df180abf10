// File: gateway/s3.go
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Config describes the bucket that holds feed images.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	// PublicBaseURL overrides the URL prefix of uploaded objects.
	PublicBaseURL string
}

// S3Objects implements Objects on S3 or an S3-compatible store.
type S3Objects struct {
	client  s3iface.S3API
	bucket  string
	baseURL string
}

// NewS3Objects builds a client from the default AWS credential chain.
func NewS3Objects(cfg S3Config) (*S3Objects, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewS3ObjectsWithClient(s3.New(sess), cfg), nil
}

// NewS3ObjectsWithClient uses the given client, which tests replace with a mock.
func NewS3ObjectsWithClient(client s3iface.S3API, cfg S3Config) *S3Objects {
	base := cfg.PublicBaseURL
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Objects{client: client, bucket: cfg.Bucket, baseURL: strings.TrimRight(base, "/")}
}

func (o *S3Objects) Upload(ctx context.Context, path, contentType string, data []byte) error {
	_, err := o.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func (o *S3Objects) PublicURL(path string) string {
	return o.baseURL + "/" + strings.TrimLeft(path, "/")
}
