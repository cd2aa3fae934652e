package exports

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
)

const (
	imageScale = 0.78

	captionStamp = "font:Helvetica, points:10, pos:bc, off:0 42, sc:1 abs, rot:0, fillc:#202020, al:c"
	footerStamp  = "font:Helvetica, points:8, pos:bc, off:0 16, sc:1 abs, rot:0, fillc:#707070, al:c"
	coverStamp   = "font:Helvetica, points:16, pos:c, sc:1 abs, rot:0, fillc:#000000, al:c"
)

var paperNames = map[reports.PageSize]string{
	reports.PageA4:     "A4",
	reports.PageLetter: "Letter",
	reports.PageLegal:  "Legal",
}

// PaperFormat returns the pdfcpu paper name for o, with an "L" suffix for
// landscape.
func PaperFormat(o reports.Options) string {
	name, ok := paperNames[o.PageSize]
	if !ok {
		name = paperNames[reports.PageA4]
	}
	if o.Orientation == reports.Landscape {
		name += "L"
	}
	return name
}

// ImportDescription places one image per page, centered and lifted above
// the caption band.
func ImportDescription(o reports.Options) string {
	return fmt.Sprintf("f:%s, pos:c, off:0 24, sc:%.2f rel", PaperFormat(o), imageScale)
}

// Caption is the text stamped under a photo.
func Caption(position int, p photos.Record) string {
	title := fmt.Sprintf("Foto %d", position)
	if c := strings.TrimSpace(p.Caption); c != "" {
		title += ": " + c
	}

	var details []string
	if l := strings.TrimSpace(p.Location); l != "" {
		details = append(details, l)
	}
	if !p.Date.IsZero() {
		details = append(details, p.Date.Format("02/01/2006"))
	}

	if len(details) == 0 {
		return escapeStamp(title)
	}
	return escapeStamp(title + "\n" + strings.Join(details, " - "))
}

// Footer is the text stamped on every page.
func Footer(o reports.Options) string {
	pages := "Página %p de %P"
	if f := strings.TrimSpace(o.FooterText); f != "" {
		return escapeStamp(f) + "\n" + pages
	}
	return pages
}

// Cover is the text of the optional first page.
func Cover(m reports.Metadata, photoCount int) string {
	lines := []string{m.Title}
	if m.ProcessRef != "" {
		lines = append(lines, "Processo nº "+m.ProcessRef)
	}
	if m.RelatedReportRef != nil && *m.RelatedReportRef != "" {
		lines = append(lines, "Laudo de referência: "+*m.RelatedReportRef)
	}
	if d := strings.TrimSpace(m.Description); d != "" {
		lines = append(lines, "", d)
	}
	lines = append(lines, "", fmt.Sprintf("%d fotografia(s)", photoCount))
	return escapeStamp(strings.Join(lines, "\n"))
}

var placeholderBreaker = strings.NewReplacer("%p", "% p", "%P", "% P")

// escapeStamp keeps user text from being read as the %p and %P page-number
// placeholders.
func escapeStamp(s string) string {
	return placeholderBreaker.Replace(s)
}
