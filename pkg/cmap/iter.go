package cmap

import "sort"

// Range calls fn for every occupied slot in slot order.
//
// The callback returns false to stop iteration. Counts are read one slot at a
// time, so under concurrent updates the view is not a consistent snapshot.
func (t *Table[K]) Range(fn func(e Element[K]) bool) {
	t.RangeSlots(func(_ int, e Element[K]) bool { return fn(e) })
}

// RangeSlots is like Range but also passes the slot index.
func (t *Table[K]) RangeSlots(fn func(index int, e Element[K]) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if settle(s) != slotOccupied {
			continue
		}
		if !fn(i, Element[K]{Key: s.key, Count: s.count.Load()}) {
			return
		}
	}
}

// Keys returns all stored keys.
func (t *Table[K]) Keys() []K {
	keys := make([]K, 0, t.Len())
	t.Range(func(e Element[K]) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}

// Items returns all stored elements.
func (t *Table[K]) Items() []Element[K] {
	items := make([]Element[K], 0, t.Len())
	t.Range(func(e Element[K]) bool {
		items = append(items, e)
		return true
	})
	return items
}

// Sum returns the total of all counts.
func (t *Table[K]) Sum() int64 {
	var total int64
	t.Range(func(e Element[K]) bool {
		total += e.Count
		return true
	})
	return total
}

// SortByCount orders items by descending count. Equal counts keep their
// relative order.
func SortByCount[K Hashable](items []Element[K]) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
}

// Top returns the n elements with the highest counts.
func Top[K Hashable](items []Element[K], n int) []Element[K] {
	sorted := make([]Element[K], len(items))
	copy(sorted, items)
	SortByCount(sorted)
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
