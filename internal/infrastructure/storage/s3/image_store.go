package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Config selects the bucket images are uploaded to
type Config struct {
	Region   string
	Bucket   string
	Prefix   string
	Endpoint string
}

// ImageStore uploads images to an S3 bucket. Credentials come from the
// default AWS chain (env, shared config, instance role).
type ImageStore struct {
	client   s3iface.S3API
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewImageStore creates an S3 backed store
func NewImageStore(cfg Config, tracer trace.Tracer, logger *slog.Logger) (*ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := awss3.New(sess)
	return &ImageStore{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		tracer:   tracer,
		logger:   logger,
	}, nil
}

// Save uploads content under prefix/name
func (s *ImageStore) Save(ctx context.Context, name string, content io.Reader) error {
	ctx, span := s.tracer.Start(ctx, "S3ImageStore.Save")
	defer span.End()

	key := s.Key(name)
	span.SetAttributes(
		attribute.String("s3.bucket", s.bucket),
		attribute.String("s3.key", key),
	)

	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   content,
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upload image")
		s.logger.ErrorContext(ctx, "Failed to upload image to S3",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	s.logger.InfoContext(ctx, "Image uploaded to S3", slog.String("key", key))
	return nil
}

// Remove deletes prefix/name from the bucket
func (s *ImageStore) Remove(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "S3ImageStore.Remove")
	defer span.End()

	key := s.Key(name)
	span.SetAttributes(attribute.String("s3.key", key))

	_, err := s.client.DeleteObjectWithContext(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete image")
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// Key returns the object key an image name is stored under
func (s *ImageStore) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}
