package exports

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"io"
	"runtime"
	"sync"

	"github.com/JaimeStill/perito-hub/internal/reports"
	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

type loadTask struct {
	index int
	data  []byte
	err   error
}

// renderedPDF is the assembled report with its page count.
type renderedPDF struct {
	data  []byte
	pages int
}

// renderer turns a snapshot into a PDF: one photo per page, a caption band
// under each photo, a footer on every page and an optional cover.
type renderer struct {
	source   *source
	settings Settings
}

func (r *renderer) render(ctx context.Context, snap reports.Snapshot) (*renderedPDF, error) {
	imgs, err := r.loadPhotos(ctx, snap)
	if err != nil {
		return nil, err
	}

	offset := 0
	if r.settings.CoverPage {
		cover, err := blankPage(r.settings.JPEGQuality)
		if err != nil {
			return nil, err
		}
		imgs = append([][]byte{cover}, imgs...)
		offset = 1
	}

	conf := model.NewDefaultConfiguration()

	imp, err := api.Import(ImportDescription(snap.Options), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: import description: %v", reports.ErrExportInvalidInput, err)
	}

	readers := make([]io.Reader, len(imgs))
	for i, data := range imgs {
		readers[i] = bytes.NewReader(data)
	}

	var pages bytes.Buffer
	if err := api.ImportImages(nil, &pages, readers, imp, conf); err != nil {
		return nil, fmt.Errorf("%w: build pages: %v", reports.ErrExportUnavailable, err)
	}

	stamps := make(map[int]*model.Watermark, len(imgs))
	if offset == 1 {
		wm, err := api.TextWatermark(Cover(snap.Metadata, len(snap.Photos)), coverStamp, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("%w: cover stamp: %v", reports.ErrExportUnavailable, err)
		}
		stamps[1] = wm
	}
	for i, p := range snap.Photos {
		wm, err := api.TextWatermark(Caption(i+1, p), captionStamp, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("%w: caption stamp: %v", reports.ErrExportUnavailable, err)
		}
		stamps[i+1+offset] = wm
	}

	var captioned bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(pages.Bytes()), &captioned, stamps, conf); err != nil {
		return nil, fmt.Errorf("%w: stamp captions: %v", reports.ErrExportUnavailable, err)
	}

	footer, err := api.TextWatermark(Footer(snap.Options), footerStamp, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("%w: footer stamp: %v", reports.ErrExportUnavailable, err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(captioned.Bytes()), &out, nil, footer, conf); err != nil {
		return nil, fmt.Errorf("%w: stamp footer: %v", reports.ErrExportUnavailable, err)
	}

	count, err := api.PageCount(bytes.NewReader(out.Bytes()), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: page count: %v", reports.ErrExportUnavailable, err)
	}

	return &renderedPDF{data: out.Bytes(), pages: count}, nil
}

// loadPhotos fetches and normalizes every photo with a bounded worker pool,
// keeping sequence order.
func (r *renderer) loadPhotos(ctx context.Context, snap reports.Snapshot) ([][]byte, error) {
	n := len(snap.Photos)
	tasks := make(chan int, n)
	results := make(chan loadTask, n)

	var wg sync.WaitGroup
	for range r.workerCount(n) {
		wg.Go(func() {
			for i := range tasks {
				if err := ctx.Err(); err != nil {
					results <- loadTask{index: i, err: err}
					continue
				}
				data, err := r.loadPhoto(ctx, snap.Photos[i].URL)
				results <- loadTask{index: i, data: data, err: err}
			}
		})
	}

	for i := range n {
		tasks <- i
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	imgs := make([][]byte, n)
	var firstErr error
	for res := range results {
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("photo %d: %w", snap.Photos[res.index].ID, res.err)
		}
		imgs[res.index] = res.data
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return imgs, nil
}

func (r *renderer) loadPhoto(ctx context.Context, ref string) ([]byte, error) {
	raw, err := r.source.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return normalize(raw, r.settings.MaxImageDimension, r.settings.JPEGQuality)
}

func (r *renderer) workerCount(n int) int {
	workers := r.settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return max(1, min(workers, n))
}

// blankPage is a white image imported as the cover so it shares the page
// geometry of the photo pages.
func blankPage(quality int) ([]byte, error) {
	img := imaging.New(1240, 1754, color.White)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: cover page: %v", reports.ErrExportUnavailable, err)
	}
	return buf.Bytes(), nil
}
