package sessions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/pkg/storage"
	"github.com/facette/natsort"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
)

// Captions given to uploaded photos until the expert edits them.
const (
	DefaultCaption  = "Nova foto"
	DefaultLocation = "Local não especificado"
)

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/bmp"}

// Upload is one image file received from a client.
type Upload struct {
	Filename string
	Data     []byte
}

// ParseUploads reads the "files" field of a multipart request and returns
// the files in natural filename order (IMG_2 before IMG_10).
func ParseUploads(w http.ResponseWriter, r *http.Request, maxSize int64) ([]Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrUploadTooLarge
		}
		return nil, fmt.Errorf("%w: %v", ErrNoFiles, err)
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	files = slices.Clone(files)
	slices.SortStableFunc(files, func(a, b *multipart.FileHeader) int {
		switch {
		case natsort.Compare(a.Filename, b.Filename):
			return -1
		case natsort.Compare(b.Filename, a.Filename):
			return 1
		default:
			return 0
		}
	})

	uploads := make([]Upload, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, Upload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return data, nil
}

// Upload stores each file and appends it to the report in order. Photos
// added before a failure stay in the report.
func (s *Session) Upload(ctx context.Context, uploads []Upload) ([]photos.Record, error) {
	s.touch()

	for _, u := range uploads {
		if ct := http.DetectContentType(u.Data); !slices.Contains(imageTypes, ct) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrNotImage, u.Filename, ct)
		}
	}

	added := make([]photos.Record, 0, len(uploads))
	for _, u := range uploads {
		rec, err := s.addUpload(ctx, u)
		if err != nil {
			return added, err
		}
		added = append(added, rec)
	}
	return added, nil
}

func (s *Session) addUpload(ctx context.Context, u Upload) (photos.Record, error) {
	key := storage.BuildKey("photos", uuid.New(), u.Filename)
	if err := s.storage.Store(ctx, key, u.Data); err != nil {
		return photos.Record{}, fmt.Errorf("store %s: %w", u.Filename, err)
	}
	url := storage.URL(key)

	draft := draftFromImage(u)
	draft.URL = url

	rec, err := s.editor.AddPhoto(draft)
	if err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Error("cleanup failed after add error", "storage_key", key, "error", delErr)
		}
		return photos.Record{}, err
	}

	s.own(ctx, url)
	s.logger.Info("photo uploaded", "photo_id", rec.ID, "storage_key", key, "bytes", len(u.Data))
	return rec, nil
}

// draftFromImage fills date and location from EXIF when the camera recorded
// them. The date stays zero otherwise so the editor applies today's date.
func draftFromImage(u Upload) photos.Draft {
	d := photos.Draft{
		Caption:  captionFromFilename(u.Filename),
		Location: DefaultLocation,
	}

	x, err := exif.Decode(bytes.NewReader(u.Data))
	if err != nil {
		return d
	}

	if t, err := x.DateTime(); err == nil {
		d.Date = photos.NewDate(t)
	}
	if lat, long, err := x.LatLong(); err == nil {
		d.Location = fmt.Sprintf("%.5f, %.5f", lat, long)
	}
	return d
}

// captionFromFilename keeps descriptive filenames ("sala_rachadura.jpg")
// and falls back to DefaultCaption for camera names like "IMG_0042.jpg".
func captionFromFilename(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	upper := strings.ToUpper(base)
	for _, prefix := range []string{"IMG", "DSC", "PXL", "DCIM", "PHOTO", "WHATSAPP IMAGE"} {
		if strings.HasPrefix(upper, prefix) {
			return DefaultCaption
		}
	}

	caption := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(base))
	if caption == "" || caption == "." {
		return DefaultCaption
	}
	return caption
}
