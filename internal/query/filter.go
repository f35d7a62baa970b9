package query

import (
	"strings"
	"time"
)

// Package query implements the shared listing pipeline: an ad-hoc filter
// spec applied to an in-memory record sequence, a comparator-table ordering
// engine, an always-accurate total count, and toggleable pagination for the
// paged UI path versus the unpaged export path.

// DateLayout is the only accepted format for the date-range bounds.
const DateLayout = "2006-01-02"

// DefaultPageSize is applied when the caller sends no or invalid paging.
const DefaultPageSize = 10

// SortByID is the identity sort key every entity supports and defaults to.
const SortByID = "id"

// Spec describes one listing request. Zero values mean "filter not active".
type Spec struct {
	// TextField selects which searchable column Text matches against,
	// using the per-entity selector codes registered in Fields.Text.
	TextField int
	Text      string
	// State filters by exact status-code equality when non-nil.
	State *int
	// StartDate and EndDate bound the creation timestamp inclusively;
	// the end bound is extended by one day so the whole final day counts.
	// Both must be present and parseable or the predicate is skipped.
	StartDate string
	EndDate   string
	Sort      string
	Desc      bool
	Page      int
	PageSize  int
	// Export disables pagination so the entire filtered, ordered set is
	// returned in one batch for spreadsheet/document consumers.
	Export bool
}

// Comparator orders two records: negative when a sorts before b.
type Comparator[T any] func(a, b T) int

// Fields is the per-entity table that binds a Spec to a concrete record
// type. Sort is an explicit enumerated set; an unknown sort key is a
// validation failure, never a silent fallback.
type Fields[T any] struct {
	ID        func(T) int
	Text      map[int]func(T) string
	State     func(T) int
	CreatedAt func(T) time.Time
	Sort      map[string]Comparator[T]
}

// filter applies all active predicates, AND-combined, preserving input order.
func (f Fields[T]) filter(spec Spec, in []T) []T {
	preds := f.predicates(spec)
	if len(preds) == 0 {
		// Copy so the ordering step never reorders the caller's slice.
		return append([]T(nil), in...)
	}
	out := make([]T, 0, len(in))
next:
	for _, r := range in {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

func (f Fields[T]) predicates(spec Spec) []func(T) bool {
	var preds []func(T) bool

	if spec.Text != "" {
		if get, ok := f.Text[spec.TextField]; ok {
			needle := strings.ToLower(spec.Text)
			preds = append(preds, func(r T) bool {
				return strings.Contains(strings.ToLower(get(r)), needle)
			})
		}
		// An unregistered selector is a deliberate no-op, not an error:
		// listings stay usable for clients sending future field codes.
	}

	if spec.State != nil && f.State != nil {
		want := *spec.State
		preds = append(preds, func(r T) bool { return f.State(r) == want })
	}

	if from, to, ok := spec.dateRange(); ok && f.CreatedAt != nil {
		preds = append(preds, func(r T) bool {
			ts := f.CreatedAt(r)
			return !ts.Before(from) && ts.Before(to)
		})
	}

	return preds
}

// dateRange resolves the [start, end+1d) window. Missing or unparsable
// input disables the predicate rather than failing the request.
func (s Spec) dateRange() (time.Time, time.Time, bool) {
	if s.StartDate == "" || s.EndDate == "" {
		return time.Time{}, time.Time{}, false
	}
	from, err := time.Parse(DateLayout, s.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(DateLayout, s.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, end.AddDate(0, 0, 1), true
}
