package query

// Page is the result of one pipeline run. Total counts the filtered set
// before pagination, so Total >= len(Items) always, with equality whenever
// Spec.Export was set.
type Page[D any] struct {
	Items []D `json:"items"`
	Total int `json:"total"`
}

// Execute runs the full pipeline: filter, order, count, paginate-or-export,
// then map each surviving record through the pure DTO mapper. The count and
// the returned items come from the same filtered slice, so the two can
// never drift apart.
func Execute[T, D any](spec Spec, records []T, fields Fields[T], mapFn func(T) D) (*Page[D], error) {
	filtered := fields.filter(spec, records)
	if err := fields.order(spec, filtered); err != nil {
		return nil, err
	}

	total := len(filtered)

	window := filtered
	if !spec.Export {
		page := spec.Page
		if page < 1 {
			page = 1
		}
		size := spec.PageSize
		if size < 1 {
			size = DefaultPageSize
		}
		start := (page - 1) * size
		if start > total {
			start = total
		}
		end := start + size
		if end > total {
			end = total
		}
		window = filtered[start:end]
	}

	items := make([]D, 0, len(window))
	for _, r := range window {
		items = append(items, mapFn(r))
	}
	return &Page[D]{Items: items, Total: total}, nil
}
