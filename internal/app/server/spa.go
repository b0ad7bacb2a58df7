package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// spaHandler serves the built frontend and falls back to index.html for
// client-side routes. Unknown API paths get a plain 404.
type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	clean := path.Clean("/" + r.URL.Path)
	info, err := os.Stat(filepath.Join(h.staticPath, filepath.FromSlash(clean)))
	switch {
	case err == nil && !info.IsDir():
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
	case err == nil || os.IsNotExist(err):
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
	default:
		http.NotFound(w, r)
	}
}
