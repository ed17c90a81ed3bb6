// Package disk keeps post images as files in a single directory.
// Files are written to a temp name, synced and renamed, so a reference
// never points at a partially written image.
package disk

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"feed-service/internal/custom_errors"
	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
)

const maxNameLen = 50

type Store struct {
	dir       string
	urlPrefix string
	log       ports.Logger
	metrics   ports.MetricsProvider
	now       func() time.Time
}

func New(dir, urlPrefix string, log ports.Logger, metrics ports.MetricsProvider) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create images directory %s: %w", dir, err)
	}
	return &Store{
		dir:       dir,
		urlPrefix: strings.Trim(urlPrefix, "/"),
		log:       log,
		metrics:   metrics,
		now:       time.Now,
	}, nil
}

func (s *Store) Store(ctx context.Context, upload *model.ImageUpload) (string, error) {
	name := s.storageName(upload.Filename)
	fullPath := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return s.writeFailed("Failed to create temp file", name, err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, upload.Content)
	if err == nil && upload.Size > 0 && written != upload.Size {
		err = fmt.Errorf("wrote %d of %d bytes", written, upload.Size)
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return s.writeFailed("Failed to write image data", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return s.writeFailed("Failed to sync image file", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return s.writeFailed("Failed to close image file", name, err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return s.writeFailed("Failed to rename image file", name, err)
	}

	ref := s.reference(name)
	s.metrics.IncrementAssetOperations("store", true)
	s.log.Debug("Image stored",
		slog.String("image_url", ref),
		slog.String("original_name", upload.Filename),
		slog.Int64("size", written))
	return ref, nil
}

func (s *Store) Delete(ctx context.Context, ref string) {
	fullPath, ok := s.resolve(ref)
	if !ok {
		s.log.Warn("Refusing to delete image outside images directory", slog.String("image_url", ref))
		s.metrics.IncrementAssetOperations("delete", false)
		return
	}

	err := os.Remove(fullPath)
	switch {
	case err == nil:
		s.metrics.IncrementAssetOperations("delete", true)
		s.log.Debug("Image deleted", slog.String("image_url", ref))
	case os.IsNotExist(err):
		s.metrics.IncrementAssetOperations("delete", true)
		s.log.Debug("Image already gone", slog.String("image_url", ref))
	default:
		s.metrics.IncrementAssetOperations("delete", false)
		s.log.Warn("Failed to delete image", slog.String("image_url", ref), slog.String("error", err.Error()))
	}
}

func (s *Store) Exists(ctx context.Context, ref string) bool {
	fullPath, ok := s.resolve(ref)
	if !ok {
		return false
	}
	info, err := os.Stat(fullPath)
	return err == nil && info.Mode().IsRegular()
}

// Dir is the directory served under the reference prefix.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

func (s *Store) writeFailed(msg, name string, err error) (string, error) {
	s.metrics.IncrementAssetOperations("store", false)
	s.log.Error(msg, slog.String("name", name), slog.String("error", err.Error()))
	return "", custom_errors.ErrAssetWrite
}

func (s *Store) reference(name string) string {
	if s.urlPrefix == "" {
		return name
	}
	return path.Join(s.urlPrefix, name)
}

// resolve maps a reference produced by Store back to a file path. Anything
// that does not name a plain file directly under the prefix is rejected.
func (s *Store) resolve(ref string) (string, bool) {
	name := ref
	if s.urlPrefix != "" {
		var found bool
		name, found = strings.CutPrefix(strings.TrimPrefix(ref, "/"), s.urlPrefix+"/")
		if !found {
			return "", false
		}
	}
	if name == "" || name != path.Base(name) || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// storageName follows <UTC timestamp>-<short uuid>-<original name>.
func (s *Store) storageName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := sanitize(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if len(base) > maxNameLen {
		base = base[:maxNameLen]
	}
	if ext != "" {
		ext = sanitize(ext)
	}
	ts := s.now().UTC().Format("20060102T150405.000Z")
	return fmt.Sprintf("%s-%s-%s%s", ts, uuid.New().String()[:8], base, ext)
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}
