package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ImageStore writes images into a single directory on local disk
type ImageStore struct {
	dir    string
	tracer trace.Tracer
	logger *slog.Logger
}

// NewImageStore creates the directory if needed
func NewImageStore(dir string, tracer trace.Tracer, logger *slog.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{dir: dir, tracer: tracer, logger: logger}, nil
}

// Dir returns the directory images are stored in
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save streams content into dir/name. On failure the partial file is removed.
func (s *ImageStore) Save(ctx context.Context, name string, content io.Reader) (err error) {
	ctx, span := s.tracer.Start(ctx, "DiskImageStore.Save")
	defer span.End()
	span.SetAttributes(attribute.String("image.name", name))

	path, err := s.path(name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid image name")
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create image file")
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close image file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to write image")
			s.logger.ErrorContext(ctx, "Failed to write image",
				slog.String("image", name),
				slog.String("error", err.Error()),
			)
		}
	}()

	n, err := io.Copy(f, content)
	if err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	span.SetAttributes(attribute.Int64("image.size", n))
	s.logger.InfoContext(ctx, "Image written to disk",
		slog.String("image", name),
		slog.Int64("bytes", n),
	)
	return nil
}

// Remove deletes dir/name. A missing file is not an error.
func (s *ImageStore) Remove(ctx context.Context, name string) error {
	ctx, span := s.tracer.Start(ctx, "DiskImageStore.Remove")
	defer span.End()
	span.SetAttributes(attribute.String("image.name", name))

	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to remove image")
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	s.logger.InfoContext(ctx, "Image removed from disk", slog.String("image", name))
	return nil
}

func (s *ImageStore) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
