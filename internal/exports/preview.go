package exports

import (
	"fmt"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
)

type previewer interface {
	render(path string, page int) ([]byte, error)
}

// imageMagickPreviewer rasterizes a single PDF page to PNG.
type imageMagickPreviewer struct {
	dpi int
}

func (p imageMagickPreviewer) render(path string, page int) ([]byte, error) {
	doc, err := document.Open(path, ContentTypePDF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}
	defer doc.Close()

	renderer, err := image.NewImageMagickRenderer(config.ImageConfig{
		Format: "png",
		DPI:    p.dpi,
		Options: map[string]any{
			"background": "white",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}

	pg, err := doc.ExtractPage(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}

	data, err := pg.ToImage(renderer, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreviewFailed, err)
	}
	return data, nil
}
