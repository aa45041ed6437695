package snapshot

import (
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/scmdash/backend-go/internal/domain"
)

func record(date time.Time, item string) domain.InventoryRecord {
	return domain.InventoryRecord{Item: item, Warehouse: "W1", Date: date}
}

func TestSet_GroupsAndOrdersDates(t *testing.T) {
	late := time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	set := NewSet([]domain.InventoryRecord{
		record(late, "A"),
		record(early, "B"),
		record(late.Add(-2*time.Hour), "C"),
	})

	if got := set.DateStrings(); len(got) != 2 || got[0] != "2024-01-01" || got[1] != "2024-03-01" {
		t.Fatalf("Expected two ascending dates, got %v", got)
	}
	if len(set.Current()) != 2 {
		t.Errorf("Expected 2 current records, got %d", len(set.Current()))
	}
	if !set.Has(early.Add(3*time.Hour)) {
		t.Error("Expected Has to match by calendar day")
	}
	if set.Len() != 3 || len(set.All()) != 3 || set.All()[0].Item != "B" {
		t.Errorf("Expected all records oldest first, got %+v", set.All())
	}
}

func TestSet_NilIsEmpty(t *testing.T) {
	var set *Set
	if !set.Empty() || set.Current() != nil || set.Len() != 0 || len(set.DateStrings()) != 0 {
		t.Error("Expected nil set to behave as empty")
	}
	if _, ok := set.CurrentDate(); ok {
		t.Error("Expected no current date")
	}
}

func TestStore_ReplaceGetEvict(t *testing.T) {
	store := NewStore()
	id := NewSessionID()

	if _, _, ok := store.Get(id); ok {
		t.Fatal("Expected unknown session")
	}

	first := NewSet([]domain.InventoryRecord{record(time.Now(), "A")})
	if gen := store.Replace(id, first); gen != 1 {
		t.Errorf("Expected generation 1, got %d", gen)
	}
	second := NewSet(nil)
	if gen := store.Replace(id, second); gen != 2 {
		t.Errorf("Expected generation 2, got %d", gen)
	}

	got, gen, ok := store.Get(id)
	if !ok || got != second || gen != 2 {
		t.Errorf("Expected latest set at generation 2, got %v %d %v", got, gen, ok)
	}

	if n := store.Evict(time.Now().Add(time.Minute)); n != 1 {
		t.Errorf("Expected 1 evicted session, got %d", n)
	}
	if _, _, ok := store.Get(id); ok {
		t.Error("Expected session to be evicted")
	}
}

func TestStore_ConcurrentReplace(t *testing.T) {
	store := NewStore()
	id := NewSessionID()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Replace(id, NewSet(nil))
			store.Get(id)
		}()
	}
	wg.Wait()

	if _, gen, _ := store.Get(id); gen != 50 {
		t.Errorf("Expected generation 50, got %d", gen)
	}
}
