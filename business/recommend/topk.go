package recommend

import (
	"sort"

	"veginReco/domain"
)

// TopKPerCategory keeps the best k items of each category and concatenates
// them in category declaration order. Each category is re-sorted on its own;
// a global stable order is not relied upon.
func TopKPerCategory(ranked []domain.RankedItem, k int) []domain.RankedItem {
	if k <= 0 {
		return []domain.RankedItem{}
	}

	out := make([]domain.RankedItem, 0, k*len(domain.Categories))
	for _, cat := range domain.Categories {
		items := make([]domain.RankedItem, 0, k)
		for _, it := range ranked {
			if it.Category == cat {
				items = append(items, it)
			}
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ScoreLTR > items[j].ScoreLTR
		})
		if len(items) > k {
			items = items[:k]
		}
		out = append(out, items...)
	}
	return out
}
