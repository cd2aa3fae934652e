package exports_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/perito-hub/internal/exports"
	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/JaimeStill/perito-hub/internal/reports"
)

func TestImportDescription(t *testing.T) {
	tests := []struct {
		name string
		opts reports.Options
		want string
	}{
		{"a4 portrait", reports.Options{PageSize: reports.PageA4, Orientation: reports.Portrait}, "f:A4, pos:c, off:0 24, sc:0.78 rel"},
		{"a4 landscape", reports.Options{PageSize: reports.PageA4, Orientation: reports.Landscape}, "f:A4L, pos:c, off:0 24, sc:0.78 rel"},
		{"letter portrait", reports.Options{PageSize: reports.PageLetter, Orientation: reports.Portrait}, "f:Letter, pos:c, off:0 24, sc:0.78 rel"},
		{"legal landscape", reports.Options{PageSize: reports.PageLegal, Orientation: reports.Landscape}, "f:LegalL, pos:c, off:0 24, sc:0.78 rel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exports.ImportDescription(tt.opts); got != tt.want {
				t.Errorf("ImportDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCaption(t *testing.T) {
	date := photos.NewDate(time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name   string
		pos    int
		record photos.Record
		want   string
	}{
		{
			name:   "full",
			pos:    1,
			record: photos.Record{Caption: "Fachada do imóvel", Location: "Rua das Flores, 123", Date: date},
			want:   "Foto 1: Fachada do imóvel\nRua das Flores, 123 - 10/05/2023",
		},
		{
			name:   "caption only",
			pos:    2,
			record: photos.Record{Caption: "Detalhe"},
			want:   "Foto 2: Detalhe",
		},
		{
			name:   "date only",
			pos:    3,
			record: photos.Record{Date: date},
			want:   "Foto 3\n10/05/2023",
		},
		{
			name:   "placeholder text",
			pos:    4,
			record: photos.Record{Caption: "100%perda"},
			want:   "Foto 4: 100% perda",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exports.Caption(tt.pos, tt.record); got != tt.want {
				t.Errorf("Caption() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFooter(t *testing.T) {
	got := exports.Footer(reports.DefaultOptions(""))
	if !strings.HasPrefix(got, reports.DefaultFooter) {
		t.Errorf("Footer() = %q, want prefix %q", got, reports.DefaultFooter)
	}
	if !strings.HasSuffix(got, "Página %p de %P") {
		t.Errorf("Footer() = %q, want page numbering suffix", got)
	}

	if got := exports.Footer(reports.Options{}); got != "Página %p de %P" {
		t.Errorf("Footer(empty) = %q, want page numbering only", got)
	}
}

func TestCover(t *testing.T) {
	ref := "LAU-2023-002"
	got := exports.Cover(reports.Metadata{
		Title:            "Relatório Fotográfico",
		ProcessRef:       "0001234-56.2023.8.26.0100",
		RelatedReportRef: &ref,
		Description:      "Vistoria realizada no imóvel",
	}, 3)

	for _, want := range []string{
		"Relatório Fotográfico",
		"Processo nº 0001234-56.2023.8.26.0100",
		"Laudo de referência: LAU-2023-002",
		"Vistoria realizada no imóvel",
		"3 fotografia(s)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Cover() missing %q in %q", want, got)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Relatório Fotográfico", "relatorio-fotografico.pdf"},
		{"Relatório Fotográfico - Processo nº 2023.01.001", "relatorio-fotografico-processo-n-2023-01-001.pdf"},
		{"  Perícia   Técnica!! ", "pericia-tecnica.pdf"},
		{"", "relatorio.pdf"},
		{"ção", "cao.pdf"},
		{"日本", "relatorio.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := exports.Filename(tt.title); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
