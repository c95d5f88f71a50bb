// Package charts derives the dashboard's chart data from the in-memory dataset.
// Everything here is pure: inputs are never modified and empty inputs produce
// empty aggregates rather than errors.
package charts

import "season-dashboard/internal/models"

// DistinctCategories returns the seasons present in dataset in first-seen order.
func DistinctCategories(dataset []models.Record) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, r := range dataset {
		if _, ok := seen[r.Season]; ok {
			continue
		}
		seen[r.Season] = struct{}{}
		categories = append(categories, r.Season)
	}
	return categories
}

// Filter returns the rows whose season is in selection, in dataset order.
func Filter(dataset []models.Record, selection []string) []models.Record {
	view := make([]models.Record, 0)
	if len(selection) == 0 {
		return view
	}

	want := make(map[string]struct{}, len(selection))
	for _, s := range selection {
		want[s] = struct{}{}
	}

	for _, r := range dataset {
		if _, ok := want[r.Season]; ok {
			view = append(view, r)
		}
	}
	return view
}
