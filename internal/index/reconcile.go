package index

import (
	"sort"

	"github.com/Adda-Baaj/flyerboard/internal/domain"
)

// Outcome is the result of merging candidates into a store index.
type Outcome struct {
	// Records is the new index, newest valid_from first, URLs unique.
	Records []domain.Flyer
	// Added lists candidate URLs that were not in the previous index.
	Added []string
	// Superseded lists previous URLs replaced by a candidate with the same URL.
	Superseded []string
	// Dropped lists previous records removed because their validity window was incomplete
	// or their URL already appeared earlier in the previous index.
	Dropped []string
}

// Reconcile merges candidates into existing. A candidate replaces any previous record with
// the same URL. Previous records with an incomplete validity window, or whose URL repeats an
// earlier previous record, are dropped; everything else survives. The result is sorted by
// valid_from descending. Candidates are appended verbatim and are expected to be valid.
func Reconcile(existing, candidates []domain.Flyer) Outcome {
	incoming := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		incoming[c.URL] = struct{}{}
	}

	var out Outcome
	previous := make(map[string]struct{}, len(existing))
	kept := make(map[string]struct{}, len(existing))
	records := make([]domain.Flyer, 0, len(existing)+len(candidates))

	for _, rec := range existing {
		previous[rec.URL] = struct{}{}
		_, replaced := incoming[rec.URL]
		_, duplicate := kept[rec.URL]

		switch {
		case !rec.HasValidity():
			out.Dropped = append(out.Dropped, rec.URL)
		case replaced:
			out.Superseded = append(out.Superseded, rec.URL)
		case duplicate:
			out.Dropped = append(out.Dropped, rec.URL)
		default:
			kept[rec.URL] = struct{}{}
			records = append(records, rec)
		}
	}

	for _, c := range candidates {
		if _, known := previous[c.URL]; !known {
			out.Added = append(out.Added, c.URL)
		}
		records = append(records, c)
	}

	sortNewestFirst(records)
	out.Records = records
	return out
}

// sortNewestFirst orders by valid_from descending. A missing valid_from sorts as the earliest
// possible date; ties keep their relative order.
func sortNewestFirst(records []domain.Flyer) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ValidFrom.After(records[j].ValidFrom)
	})
}
