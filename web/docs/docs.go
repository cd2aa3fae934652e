// Package docs serves the interactive API reference rendered by Scalar
// from the generated OpenAPI document.
package docs

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/perito-hub/pkg/module"
)

//go:embed index.html
var indexHTML string

var index = template.Must(template.New("index").Parse(indexHTML))

// NewModule mounts the reference page at prefix, pointing it at specURL.
func NewModule(prefix, specURL string) *module.Module {
	var buf bytes.Buffer
	if err := index.Execute(&buf, struct{ SpecURL string }{specURL}); err != nil {
		panic(err)
	}
	page := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page)
	})

	return module.New(prefix, mux)
}
