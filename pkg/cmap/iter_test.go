package cmap

import "testing"

func fillTable(t *testing.T) *Table[Key] {
	t.Helper()
	tbl, err := New[Key](6, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for word, n := range map[string]int64{"to": 4, "be": 2, "or": 1, "not": 3} {
		if _, err := tbl.InsertOrUpdate(MustKey(word), n, Increment); err != nil {
			t.Fatalf("InsertOrUpdate(%s): %v", word, err)
		}
	}
	return tbl
}

func TestRange(t *testing.T) {
	tbl := fillTable(t)

	count := 0
	tbl.Range(func(e Element[Key]) bool {
		if e.IsEmpty() {
			t.Error("Range yielded an empty slot")
		}
		count++
		return true
	})
	if count != 4 {
		t.Errorf("Range visited %d elements, want 4", count)
	}
}

func TestRange_EarlyStop(t *testing.T) {
	tbl := fillTable(t)

	count := 0
	tbl.Range(func(Element[Key]) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Range visited %d elements after stop, want 1", count)
	}
}

func TestKeysItemsSum(t *testing.T) {
	tbl := fillTable(t)

	if len(tbl.Keys()) != 4 {
		t.Errorf("len(Keys()) = %d, want 4", len(tbl.Keys()))
	}
	if len(tbl.Items()) != 4 {
		t.Errorf("len(Items()) = %d, want 4", len(tbl.Items()))
	}
	if tbl.Sum() != 10 {
		t.Errorf("Sum() = %d, want 10", tbl.Sum())
	}
}

func TestTop(t *testing.T) {
	tbl := fillTable(t)

	top := Top(tbl.Items(), 2)
	if len(top) != 2 {
		t.Fatalf("len(Top) = %d, want 2", len(top))
	}
	if top[0].Key.String() != "to" || top[1].Key.String() != "not" {
		t.Errorf("Top = [%s %s], want [to not]", top[0].Key, top[1].Key)
	}

	all := Top(tbl.Items(), -1)
	if len(all) != 4 {
		t.Errorf("Top(-1) returned %d elements, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Count < all[i].Count {
			t.Errorf("Top not sorted at %d: %d < %d", i, all[i-1].Count, all[i].Count)
		}
	}
}

func TestRangeSlots_IndexMatchesLocate(t *testing.T) {
	tbl := fillTable(t)

	tbl.RangeSlots(func(index int, e Element[Key]) bool {
		idx, ok := tbl.Locate(e.Key)
		if !ok || idx != index {
			t.Errorf("RangeSlots index %d for %s, Locate = (%d, %v)", index, e.Key, idx, ok)
		}
		return true
	})
}
