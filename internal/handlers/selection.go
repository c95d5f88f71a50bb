package handlers

import (
	"net/http"
	"strings"

	"season-dashboard/internal/services"
)

// selectionFromQuery reads repeated season parameters. Without any season
// parameter the default selection applies; "season=" alone selects nothing.
func selectionFromQuery(r *http.Request, analytics *services.Analytics) []string {
	query := r.URL.Query()
	if !query.Has("season") {
		return analytics.DefaultSelection()
	}

	selection := make([]string, 0, len(query["season"]))
	for _, s := range query["season"] {
		if s = strings.TrimSpace(s); s != "" {
			selection = append(selection, s)
		}
	}
	return selection
}
