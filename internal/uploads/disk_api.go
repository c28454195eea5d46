package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/mirojov/clubhub/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const MaxImageSize = 10 << 20 // 10 MB

var (
	ErrImageNotFound        = errors.New("image not found")
	ErrImageTooBig          = errors.New("image too big")
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

// content type, as sniffed from the image bytes, to file extension
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DiskApi stores uploaded images on disk under a single root directory,
// each under a random uuid name. The original file name is thrown away.
type DiskApi struct {
	rootPath string
}

func NewDiskApi(rootPath string) (*DiskApi, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads root: %w", err)
	}
	return &DiskApi{
		rootPath: rootPath,
	}, nil
}

func (da *DiskApi) Save(ctx context.Context, content io.Reader) (name string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "uploadsDiskApi.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	imageBytes, err := io.ReadAll(io.LimitReader(content, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read image content: %w", err)
	}
	if len(imageBytes) > MaxImageSize {
		return "", ErrImageTooBig
	}

	contentType := http.DetectContentType(imageBytes)
	extension, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImageType, contentType)
	}

	name = uuid.NewString() + extension
	span.SetAttributes(attribute.String("image.name", name))

	filePath := path.Join(da.rootPath, name)
	if err := os.WriteFile(filePath, imageBytes, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	log.Debugf("image saved: %s [%d bytes]", name, len(imageBytes))
	return name, nil
}

func (da *DiskApi) Open(ctx context.Context, name string) (*os.File, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "uploadsDiskApi.open")
	defer span.End()

	// names are always server-generated uuids, anything else is foul play
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return nil, ErrImageNotFound
	}

	file, err := os.Open(path.Join(da.rootPath, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return file, nil
}

func (da *DiskApi) Delete(ctx context.Context, name string) error {
	_, span := tracing.GlobalTracer.Start(ctx, "uploadsDiskApi.delete")
	defer span.End()

	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return ErrImageNotFound
	}

	if err := os.Remove(path.Join(da.rootPath, name)); err != nil {
		if os.IsNotExist(err) {
			return ErrImageNotFound
		}
		return err
	}
	return nil
}
