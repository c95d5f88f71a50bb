// Package static embeds the dashboard's browser assets.
package static

import (
	"embed"
	"net/http"
)

//go:embed *.js *.css
var files embed.FS

// Handler serves the assets under the given URL prefix.
func Handler(prefix string) http.Handler {
	return http.StripPrefix(prefix, http.FileServerFS(files))
}
