package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mrops-br/product-catalog-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxImageSize is 2 MiB; an image of exactly this size is accepted
const DefaultMaxImageSize int64 = 2 * 1024 * 1024

// AllowedImageExtensions lists the accepted extensions, lowercase
var AllowedImageExtensions = []string{".jpg", ".png", ".jpeg"}

// ImageUpload is one uploaded file as received from the client
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// ImageService validates uploaded images and hands them to an ImageStore
type ImageService struct {
	store    domain.ImageStore
	maxSize  int64
	tracer   trace.Tracer
	logger   *slog.Logger
	ingested metric.Int64Counter
}

// NewImageService creates an image service. maxSize <= 0 selects DefaultMaxImageSize.
func NewImageService(
	store domain.ImageStore,
	maxSize int64,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ImageService {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}

	ingested, _ := meter.Int64Counter(
		"catalog.images.ingested",
		metric.WithDescription("Number of uploaded images by result"),
	)

	return &ImageService{
		store:    store,
		maxSize:  maxSize,
		tracer:   tracer,
		logger:   logger,
		ingested: ingested,
	}
}

// Ingest validates upload and saves it under a freshly generated name that
// keeps the original extension. The returned name is what a product's
// Image field refers to.
func (s *ImageService) Ingest(ctx context.Context, upload *ImageUpload) (string, error) {
	ctx, span := s.tracer.Start(ctx, "ImageService.Ingest")
	defer span.End()

	span.SetAttributes(
		attribute.String("image.original_name", upload.Filename),
		attribute.Int64("image.size", upload.Size),
	)

	if upload.Size > s.maxSize {
		return "", s.reject(ctx, span, upload, domain.ErrImageTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedExtension(ext) {
		return "", s.reject(ctx, span, upload, domain.ErrInvalidImageType)
	}

	name := uuid.New().String() + ext
	span.SetAttributes(attribute.String("image.name", name))

	content := &cappedReader{r: upload.Content, remaining: s.maxSize}
	if err := s.store.Save(ctx, name, content); err != nil {
		if content.exceeded {
			return "", s.reject(ctx, span, upload, domain.ErrImageTooLarge)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save image")
		s.logger.ErrorContext(ctx, "Failed to save image",
			slog.String("image", name),
			slog.String("error", err.Error()),
		)
		s.record(ctx, "write_failed")
		return "", fmt.Errorf("%w: %w", domain.ErrImageWriteFailed, err)
	}

	s.record(ctx, "success")
	s.logger.InfoContext(ctx, "Image ingested",
		slog.String("image", name),
		slog.String("original_name", upload.Filename),
	)
	span.SetStatus(codes.Ok, "Image ingested")
	return name, nil
}

// Discard removes a previously ingested image
func (s *ImageService) Discard(ctx context.Context, name string) error {
	if err := s.store.Remove(ctx, name); err != nil {
		s.logger.WarnContext(ctx, "Failed to discard image",
			slog.String("image", name),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

func (s *ImageService) reject(ctx context.Context, span trace.Span, upload *ImageUpload, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.WarnContext(ctx, "Image rejected",
		slog.String("original_name", upload.Filename),
		slog.Int64("size", upload.Size),
		slog.String("reason", err.Error()),
	)
	s.record(ctx, "rejected")
	return err
}

func (s *ImageService) record(ctx context.Context, result string) {
	s.ingested.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func allowedExtension(ext string) bool {
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// cappedReader fails once more than remaining bytes have been read, so a
// client cannot exceed the size limit by understating the declared size.
type cappedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		c.exceeded = true
		return 0, domain.ErrImageTooLarge
	}
	// Read one byte past the cap so an oversize stream is detected
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		c.exceeded = true
		return 0, domain.ErrImageTooLarge
	}
	return n, err
}
