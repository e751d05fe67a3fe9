// Package images stores room photos on local disk after normalising them to JPEG.
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Upload limits. MaxSourceEdge and MaxSourcePixels bound the decoded size of an upload.
const (
	MaxUploadBytes  = 10 << 20
	MaxDimension    = 1600
	MaxSourceEdge   = 10000
	MaxSourcePixels = 40_000_000
	jpegQuality     = 85
)

// Domain errors
var (
	ErrEmpty           = errors.New("uploaded image is empty")
	ErrTooLarge        = errors.New("image exceeds 10 MiB")
	ErrUnsupportedType = errors.New("image must be JPEG, PNG or WebP")
	ErrTooManyPixels   = errors.New("image dimensions exceed 10000 px per edge or 40 megapixels")
	ErrNotOwned        = errors.New("image url is not served by this store")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Store persists processed images and returns their public URL.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}

// LocalStore writes images into dir and serves them under urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates dir if needed.
// PRE: urlPrefix starts with "/"
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/") + "/"}, nil
}

// Dir returns the directory served under the URL prefix.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save processes data and writes it as name with a .jpg extension.
// POST: returns urlPrefix + stored file name
func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	out, err := Process(data)
	if err != nil {
		return "", err
	}
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, base), out, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	slog.Info("room_image_stored", "file", base, "bytes", len(out))
	return s.urlPrefix + base, nil
}

// Delete removes the file behind url. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix) {
		return ErrNotOwned
	}
	base := filepath.Base(strings.TrimPrefix(url, s.urlPrefix))
	err := os.Remove(filepath.Join(s.dir, base))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Process validates an upload and re-encodes it as JPEG, scaling the longest
// edge down to MaxDimension.
func Process(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}
	if !allowedTypes[http.DetectContentType(data)] {
		return nil, ErrUnsupportedType
	}
	cfg, err := decodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxSourceEdge || cfg.Height > MaxSourceEdge ||
		int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrTooManyPixels)
	}
	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	img = fit(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeConfig(data []byte) (image.Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		return cfg, nil
	}
	if webpCfg, webpErr := webp.DecodeConfig(bytes.NewReader(data)); webpErr == nil {
		return webpCfg, nil
	}
	return image.Config{}, err
}

func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := webp.Decode(bytes.NewReader(data)); webpErr == nil {
		return decoded, nil
	}
	return nil, err
}

// fit returns img unchanged when it already fits within limit on both edges.
func fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
