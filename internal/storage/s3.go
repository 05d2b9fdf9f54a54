package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/config"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// S3Store keeps recipe images in an S3 compatible bucket.
type S3Store struct {
	s3  *config.S3Config
	log *zap.SugaredLogger
}

var _ ImageStore = (*S3Store)(nil)

func NewS3Store(s3cfg *config.S3Config, log *zap.SugaredLogger) *S3Store {
	return &S3Store{s3: s3cfg, log: log}
}

func (s *S3Store) Save(ctx context.Context, ownerID uint, img *Image) (string, error) {
	key := fmt.Sprintf("recipes/%d/%s%s", ownerID, uuid.New().String(), img.Ext)

	obj, err := s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	s.log.Debugw("image uploaded", "key", key, "etag", aws.ToString(obj.ETag))

	return s.s3.PublicURL + "/" + key, nil
}

// Delete removes an object previously returned by Save. URLs that do not
// belong to this bucket are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.s3.PublicURL+"/")
	if !ok {
		return nil
	}
	_, err := s.s3.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3.BucketName),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "delete image")
}
