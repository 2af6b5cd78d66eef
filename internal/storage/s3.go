// Package storage provides the object store boundary used for uploaded
// images and synthesized audio: put bytes under a key, get a durable
// public URL back.
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore is the minimal surface the services need.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3Store stores objects in one S3 bucket. PublicBase overrides the
// default virtual-hosted URL when the bucket sits behind a CDN.
type S3Store struct {
	Bucket     string
	Region     string
	PublicBase string
	client     *s3.Client
}

func NewS3Store(ctx context.Context, bucket, region, publicBase string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}
	return &S3Store{
		Bucket:     bucket,
		Region:     region,
		PublicBase: strings.TrimSuffix(publicBase, "/"),
		client:     s3.NewFromConfig(cfg),
	}, nil
}

// Put uploads the object and returns its public URL.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key), nil
}

// RandomSuffix returns n random bytes as hex, used to build unique
// object keys.
func RandomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "0"
	}
	return hex.EncodeToString(buf)
}
