package templates

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"season-dashboard/internal/models"
)

type signals struct {
	Seasons []string         `json:"seasons"`
	Charts  *models.ChartSet `json:"charts"`
}

// initialSignals seeds the datastar store; charts arrive on the first SSE patch.
func initialSignals(selected []string) string {
	if selected == nil {
		selected = []string{}
	}
	b, err := json.Marshal(signals{Seasons: selected})
	if err != nil {
		return `{"seasons":[],"charts":null}`
	}
	return string(b)
}

func isSelected(selected []string, season string) bool {
	return slices.Contains(selected, season)
}

func chartElementID(kind models.ChartKind) string {
	return "chart-" + string(kind)
}

func svgURL(kind models.ChartKind) string {
	return "/charts/" + string(kind) + ".svg"
}

func chartInfo() map[models.ChartKind]models.ChartInfo {
	infos := make(map[models.ChartKind]models.ChartInfo, len(models.ChartKinds))
	for _, kind := range models.ChartKinds {
		infos[kind] = kind.Info()
	}
	return infos
}

func rowsLabel(rows int) string {
	if rows == 1 {
		return "1 produto"
	}
	return fmt.Sprintf("%d produtos", rows)
}

func selectionLabel(selection []string) string {
	return strings.Join(selection, ", ")
}
