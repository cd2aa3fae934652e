package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/JaimeStill/perito-hub/pkg/storage"
	"github.com/disintegration/imaging"
)

// source resolves photo URLs to image bytes.
type source struct {
	storage  storage.System
	client   *http.Client
	maxBytes int64
}

func newSource(store storage.System, settings Settings) *source {
	return &source{
		storage:  store,
		client:   &http.Client{Timeout: settings.FetchTimeout},
		maxBytes: settings.MaxFetchBytes,
	}
}

func (s *source) load(ctx context.Context, ref string) ([]byte, error) {
	if key, ok := storage.KeyFromURL(ref); ok {
		data, err := s.storage.Retrieve(ctx, key)
		switch {
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidKey):
			return nil, fmt.Errorf("%w: photo %s: %v", reports.ErrExportInvalidInput, ref, err)
		case err != nil:
			return nil, fmt.Errorf("%w: photo %s: %v", reports.ErrExportUnavailable, ref, err)
		}
		return data, nil
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return s.fetch(ctx, ref)
	}

	return nil, fmt.Errorf("%w: unsupported photo url %q", reports.ErrExportInvalidInput, ref)
}

func (s *source) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reports.ErrExportInvalidInput, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", reports.ErrExportUnavailable, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: fetch %s: status %d", reports.ErrExportInvalidInput, url, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: fetch %s: status %d", reports.ErrExportUnavailable, url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", reports.ErrExportUnavailable, url, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", reports.ErrExportInvalidInput, url, s.maxBytes)
	}
	return data, nil
}

// normalize decodes a photo, applies its EXIF orientation, bounds its
// longest side to maxDim and re-encodes it as JPEG.
func normalize(data []byte, maxDim, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode photo: %v", reports.ErrExportInvalidInput, err)
	}

	img = fit(img, maxDim)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: encode photo: %v", reports.ErrExportUnavailable, err)
	}
	return buf.Bytes(), nil
}

func fit(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}
