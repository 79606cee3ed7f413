package service

import (
	"sort"
	"strings"

	"restaurant-ordering/internal/domain"
)

// TopCount is how many items carry the bestseller tag.
const TopCount = 5

// Aggregate counts the quantities sold per menu item across completed
// orders. Entries follow menu order before the stable sort, so ties keep it.
// An order item is matched by name when it has one and by id otherwise;
// items not on the menu are skipped. processed counts matched items.
func Aggregate(menu domain.Menu, completed []domain.Order) (entries []domain.BestsellerEntry, processed int) {
	byName := make(map[string]string, len(menu.Items))
	index := make(map[string]int, len(menu.Items))
	entries = make([]domain.BestsellerEntry, 0, len(menu.Items))
	for _, it := range menu.Items {
		byName[it.Name] = it.ID
		if _, dup := index[it.ID]; dup {
			continue
		}
		index[it.ID] = len(entries)
		entries = append(entries, domain.BestsellerEntry{ID: it.ID, Name: it.Name, Category: it.Category})
	}

	for _, o := range completed {
		for _, item := range o.Items {
			var (
				id string
				ok bool
			)
			if item.Name != "" {
				id, ok = byName[item.Name]
			} else if item.ID != "" {
				id, ok = item.ID, true
			}
			if !ok {
				continue
			}
			i, ok := index[id]
			if !ok {
				continue
			}
			entries[i].Quantity += item.Quantity
			processed++
		}
	}

	sort.SliceStable(entries, func(a, b int) bool { return entries[a].Quantity > entries[b].Quantity })
	return entries, processed
}

// Top returns up to n leading entries that sold at least once, skipping
// drinks in any letter case. entries must already be sorted.
func Top(entries []domain.BestsellerEntry, n int) []domain.BestsellerEntry {
	out := make([]domain.BestsellerEntry, 0, n)
	for _, e := range entries {
		if len(out) == n {
			break
		}
		if strings.EqualFold(e.Category, domain.DrinksCategory) || e.Quantity <= 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Flag rewrites isBestseller on every menu item.
func Flag(menu *domain.Menu, top []domain.BestsellerEntry) {
	ids := make(map[string]bool, len(top))
	for _, e := range top {
		ids[e.ID] = true
	}
	for i := range menu.Items {
		menu.Items[i].IsBestseller = ids[menu.Items[i].ID]
	}
}
