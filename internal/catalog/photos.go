// AngelaMos | 2026
// photos.go

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var ErrUnsupportedPhoto = errors.New("unsupported photo format")

var photoTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

const maxSlugLen = 60

// PhotoStore writes car photos below a media root and returns the path
// relative to it, which is what the cars table stores.
type PhotoStore struct {
	root string
}

func NewPhotoStore(root string) *PhotoStore {
	return &PhotoStore{root: root}
}

func (s *PhotoStore) Save(title, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	want, ok := photoTypes[ext]
	if !ok {
		return "", fmt.Errorf("%s: %w", ext, ErrUnsupportedPhoto)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read photo: %w", err)
	}
	head = head[:n]

	if got := http.DetectContentType(head); got != want {
		return "", fmt.Errorf("content %s: %w", got, ErrUnsupportedPhoto)
	}

	base := slug.Make(title)
	if len(base) > maxSlugLen {
		base = strings.Trim(base[:maxSlugLen], "-")
	}
	if base == "" {
		base = "car"
	}

	rel := path.Join("cars", fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext))
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create photo dir: %w", err)
	}

	//nolint:gosec // G304: path is built from a slug and a random suffix
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create photo: %w", err)
	}

	if _, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		_ = f.Close()       //nolint:errcheck // already failing
		_ = os.Remove(full) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("write photo: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close photo: %w", err)
	}

	return rel, nil
}

// Ping reports whether the media root is a usable directory. It satisfies
// the readiness checker interface.
func (s *PhotoStore) Ping(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("media root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("media root %s is not a directory", s.root)
	}
	return nil
}
