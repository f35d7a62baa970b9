package query

import (
	"sort"
	"strings"

	"posadmin/internal/apperr"
)

// comparator resolves the sort key to an entry of the enumerated comparator
// table, case-insensitively. Empty means the identity default. An unknown
// key fails loudly: silently falling back would make exported data order
// unpredictable.
func (f Fields[T]) comparator(name string) (Comparator[T], error) {
	if name == "" || strings.EqualFold(name, SortByID) {
		return func(a, b T) int { return f.ID(a) - f.ID(b) }, nil
	}
	for key, cmp := range f.Sort {
		if strings.EqualFold(key, name) {
			return cmp, nil
		}
	}
	return nil, apperr.Errorf(apperr.Validation, "query.order", "unknown sort field %q", name)
}

// order sorts items in place. Desc reverses the primary comparator only;
// ties always break by identity ascending so pagination stays stable
// across repeated calls.
func (f Fields[T]) order(spec Spec, items []T) error {
	cmp, err := f.comparator(spec.Sort)
	if err != nil {
		return err
	}
	sort.Slice(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if spec.Desc {
			c = -c
		}
		if c == 0 {
			return f.ID(items[i]) < f.ID(items[j])
		}
		return c < 0
	})
	return nil
}
