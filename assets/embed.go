// Package assets embeds the page template and stylesheet served by the
// browser surface.
package assets

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html static/*
var FS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(FS, "templates/*.html"))
}

// Static returns the /static file system.
func Static() http.FileSystem {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		return http.FS(embed.FS{})
	}
	return http.FS(sub)
}
