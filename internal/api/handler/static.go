package handler

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/Rrens/storefront-assistant/internal/api/response"
	"github.com/rs/zerolog/log"
)

const indexFile = "index.html"

// StaticHandler serves the built frontend. Paths that do not name a file
// fall back to index.html so client-side routes resolve.
func StaticHandler(fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			name = indexFile
		}

		if isFile(fsys, name) {
			http.ServeFileFS(w, r, fsys, name)
			return
		}

		if !isFile(fsys, indexFile) {
			log.Warn().Str("path", r.URL.Path).Msg("index.html missing from static dir")
			response.NotFound(w, "index.html not found")
			return
		}

		http.ServeFileFS(w, r, fsys, indexFile)
	})
}

func isFile(fsys fs.FS, name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}
