package registry

import (
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnRegistryEvent(e Event) {
	o.events = append(o.events, e)
}

type dropCounter struct {
	drops *int
}

func (d dropCounter) Drop() { *d.drops++ }

func TestTable_Basic(t *testing.T) {
	table := NewTable[string]()

	h, err := table.Insert("test")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	val, ok = table.Remove(h)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}

	if _, ok := table.Remove(h); ok {
		t.Fatal("second Remove should fail")
	}
}

func TestTable_ZeroHandleInvalid(t *testing.T) {
	table := NewTable[int]()
	if _, err := table.Insert(1); err != nil {
		t.Fatal(err)
	}
	if _, ok := table.Get(0); ok {
		t.Fatal("handle 0 must never resolve")
	}
	if _, ok := table.Remove(0); ok {
		t.Fatal("handle 0 must never remove")
	}
}

func TestTable_StaleHandleAfterReuse(t *testing.T) {
	table := NewTable[string]()

	old, _ := table.Insert("first")
	table.Remove(old)

	fresh, _ := table.Insert("second")
	if fresh == old {
		t.Fatal("reused slot must carry a new generation")
	}
	if fresh.index() != old.index() {
		t.Fatalf("expected slot reuse, got index %d vs %d", fresh.index(), old.index())
	}

	if _, ok := table.Get(old); ok {
		t.Fatal("stale handle must not resolve to the new occupant")
	}
	val, ok := table.Get(fresh)
	if !ok || val != "second" {
		t.Fatalf("Get(fresh) = %q, %v", val, ok)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable[string]()
	obs := &testObserver{}
	unsubscribe := table.Subscribe(obs)

	h, _ := table.Insert("test")
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventInserted {
		t.Fatal("Expected EventInserted")
	}
	if obs.events[0].Handle != h {
		t.Fatal("Wrong handle in event")
	}

	table.Remove(h)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	if obs.events[1].Type != EventRemoved {
		t.Fatal("Expected EventRemoved")
	}

	unsubscribe()
	table.Insert("test2")
	if len(obs.events) != 2 {
		t.Fatal("Should not receive events after unsubscribe")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable[int]()
	var seen []EventType
	table.Subscribe(ObserverFunc(func(e Event) { seen = append(seen, e.Type) }))

	h, _ := table.Insert(1)
	table.Remove(h)
	table.Insert(2)
	table.Close()

	want := []EventType{EventInserted, EventRemoved, EventInserted, EventReclaimed}
	if len(seen) != len(want) {
		t.Fatalf("events = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestTable_Close(t *testing.T) {
	drops := 0
	table := NewTable[dropCounter]()

	h, _ := table.Insert(dropCounter{&drops})
	table.Insert(dropCounter{&drops})

	if n := table.Close(); n != 2 {
		t.Fatalf("Close reclaimed %d, want 2", n)
	}
	if drops != 2 {
		t.Fatalf("Drop called %d times, want 2", drops)
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("Get after Close should fail")
	}
	if _, err := table.Insert(dropCounter{&drops}); err != ErrClosed {
		t.Fatalf("Insert after Close = %v, want ErrClosed", err)
	}
	if n := table.Close(); n != 0 {
		t.Fatalf("second Close reclaimed %d", n)
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable[int]()
	for i := 1; i <= 5; i++ {
		table.Insert(i)
	}

	sum := 0
	table.Each(func(_ Handle, v int) bool {
		sum += v
		return true
	})
	if sum != 15 {
		t.Fatalf("sum = %d, want 15", sum)
	}

	visited := 0
	table.Each(func(Handle, int) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Fatalf("Each should stop early, visited %d", visited)
	}
}
