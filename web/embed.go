// Package web embeds the game page templates and static assets and renders
// the page from a session view.
package web

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
)

//go:embed static templates
var assets embed.FS

// StaticHandler serves the embedded static assets. Mount it under /static/.
func StaticHandler() http.Handler {
	subFS, err := fs.Sub(assets, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}

	fileServer := http.FileServer(http.FS(subFS))

	return http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		f, err := subFS.Open(path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if closeErr := f.Close(); closeErr != nil {
			slog.Debug("web: failed to close embedded file", "path", path, "error", closeErr)
		}
		fileServer.ServeHTTP(w, r)
	}))
}
