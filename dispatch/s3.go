package dispatch

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Sink struct {
	client S3API
}

func NewS3Sink(client S3API) S3Sink {
	return S3Sink{client: client}
}

// NewS3Client builds a client from the default AWS credential chain. An empty
// region leaves the chain's choice untouched.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to create aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// ParseS3URL splits "s3://bucket/key".
func ParseS3URL(target string) (bucket, key string, err error) {
	bucket, key, _ = strings.Cut(strings.TrimPrefix(target, "s3://"), "/")
	if !IsS3(target) || bucket == "" || key == "" {
		return "", "", xerrors.Errorf("invalid S3 location %q: want s3://bucket/key", target)
	}
	return bucket, key, nil
}

func (s S3Sink) Put(ctx context.Context, target string, body []byte, contentType string) error {
	bucket, key, err := ParseS3URL(target)
	if err != nil {
		return &Error{Op: "upload report", Err: err}
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return &Error{Op: "upload report", Err: err}
	}
	log.Printf("Report uploaded to %s", target)
	return nil
}
