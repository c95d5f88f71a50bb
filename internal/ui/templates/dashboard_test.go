package templates

import (
	"context"
	"strings"
	"testing"

	"season-dashboard/internal/models"
)

func TestDashboard(t *testing.T) {
	var b strings.Builder
	err := Dashboard([]string{"primavera/verão", "outono/inverno"}, []string{"primavera/verão"}).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := b.String()

	expected := []string{
		"<!doctype html>",
		"Dashboard Interativo com base na Temporada da Coleção",
		`value="primavera/verão" data-bind="seasons" checked>`,
		`value="outono/inverno" data-bind="seasons">`,
		`data-on:change="@get(&#39;/sse/charts&#39;`,
		`id="chart-status"`,
		`id="chart-info"`,
		`/static/charts.js`,
	}
	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}

	for _, kind := range models.ChartKinds {
		if !strings.Contains(html, `id="chart-`+string(kind)+`"`) {
			t.Errorf("missing container for %s", kind)
		}
		if !strings.Contains(html, `href="/charts/`+string(kind)+`.svg"`) {
			t.Errorf("missing SVG link for %s", kind)
		}
	}

	if !strings.Contains(html, "&#34;seasons&#34;:[&#34;primavera/verão&#34;]") {
		t.Error("initial signals should carry the default selection")
	}
}

func TestDashboard_EscapesSeasons(t *testing.T) {
	var b strings.Builder
	err := Dashboard([]string{`<script>alert(1)</script>`}, nil).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(b.String(), "<script>alert(1)</script>") {
		t.Error("season names must be escaped")
	}
}

func TestChartSummary(t *testing.T) {
	tests := []struct {
		name string
		set  *models.ChartSet
		want []string
	}{
		{
			name: "selection",
			set:  &models.ChartSet{Selection: []string{"Summer", "Winter"}, Rows: 3},
			want: []string{`id="chart-status"`, "3 produtos", "Summer, Winter"},
		},
		{
			name: "single row",
			set:  &models.ChartSet{Selection: []string{"Summer"}, Rows: 1},
			want: []string{"1 produto<"},
		},
		{
			name: "empty selection",
			set:  &models.ChartSet{Selection: []string{}},
			want: []string{"0 produtos", "nenhuma temporada selecionada"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := ChartSummary(tt.set).Render(context.Background(), &b); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(b.String(), want) {
					t.Errorf("expected %q in %q", want, b.String())
				}
			}
		})
	}
}

func TestFilterError(t *testing.T) {
	var b strings.Builder
	if err := FilterError(`unknown season "x<y"`).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := b.String()

	if !strings.Contains(html, `class="status error"`) {
		t.Error("expected error class")
	}
	if !strings.Contains(html, "x&lt;y") {
		t.Errorf("message should be escaped, got %q", html)
	}
}

func TestInitialSignals(t *testing.T) {
	if got := initialSignals(nil); got != `{"seasons":[],"charts":null}` {
		t.Errorf("initialSignals(nil) = %s", got)
	}
	if got := initialSignals([]string{"a"}); got != `{"seasons":["a"],"charts":null}` {
		t.Errorf("initialSignals([a]) = %s", got)
	}
}
