package mlq

import "testing"

func TestPushChildVisibleAtParentHead(t *testing.T) {
	parent := NewParent(nil, nil)
	child := NewChild(parent)

	child.Put(Event{Argv: []interface{}{"a"}})

	if parent.Size() != 1 || child.Size() != 1 {
		t.Fatalf("parent.Size()=%d child.Size()=%d, want 1,1", parent.Size(), child.Size())
	}

	ev, ok := parent.Get()
	if !ok {
		t.Fatal("expected an event at the parent head")
	}
	if ev.Argv[0] != "a" {
		t.Fatalf("got %v, want a", ev.Argv)
	}
	if parent.Size() != 0 || child.Size() != 0 {
		t.Fatalf("after removal parent.Size()=%d child.Size()=%d, want 0,0", parent.Size(), child.Size())
	}
}

func TestRemovingFromChildAlsoClearsParentLink(t *testing.T) {
	parent := NewParent(nil, nil)
	child := NewChild(parent)

	child.Put(Event{Argv: []interface{}{1}})
	child.Put(Event{Argv: []interface{}{2}})

	ev, ok := child.Get()
	if !ok || ev.Argv[0] != 1 {
		t.Fatalf("child.Get() = %v, %v", ev, ok)
	}
	if parent.Size() != 1 {
		t.Fatalf("parent.Size() = %d, want 1 after removing one child item directly", parent.Size())
	}

	ev, ok = parent.Get()
	if !ok || ev.Argv[0] != 2 {
		t.Fatalf("parent.Get() = %v, %v, want the remaining item", ev, ok)
	}
}

func TestParentSizeEqualsSumOfChildren(t *testing.T) {
	parent := NewParent(nil, nil)
	a := NewChild(parent)
	b := NewChild(parent)

	a.Put(Event{})
	b.Put(Event{})
	b.Put(Event{})
	a.Put(Event{})

	if got, want := parent.Size(), a.Size()+b.Size(); got != want {
		t.Fatalf("parent.Size() = %d, want sum of children %d", got, want)
	}

	parent.Get()
	if got, want := parent.Size(), a.Size()+b.Size(); got != want {
		t.Fatalf("after one parent.Get(), parent.Size() = %d, want sum of children %d", got, want)
	}
}

func TestFIFOOrderPreservedAcrossInterleavedChildren(t *testing.T) {
	parent := NewParent(nil, nil)
	a := NewChild(parent)
	b := NewChild(parent)

	a.Put(Event{Argv: []interface{}{"a1"}})
	b.Put(Event{Argv: []interface{}{"b1"}})
	a.Put(Event{Argv: []interface{}{"a2"}})

	var order []string
	for i := 0; i < 3; i++ {
		ev, ok := parent.Get()
		if !ok {
			t.Fatal("expected an event")
		}
		order = append(order, ev.Argv[0].(string))
	}
	want := []string{"a1", "b1", "a2"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestPutCbInvokedOnPush(t *testing.T) {
	var calls int
	parent := NewParent(func(q *Queue) { calls++ }, nil)
	child := NewChild(parent)

	child.Put(Event{})
	child.Put(Event{})

	if calls != 2 {
		t.Fatalf("putCb called %d times, want 2", calls)
	}
}

func TestProcessInvokesHandlersInOrder(t *testing.T) {
	q := NewParent(nil, nil)
	var seen []int
	q.Put(Event{Handler: func(argv []interface{}) { seen = append(seen, argv[0].(int)) }, Argv: []interface{}{1}})
	q.Put(Event{Handler: func(argv []interface{}) { seen = append(seen, argv[0].(int)) }, Argv: []interface{}{2}})

	q.Process()

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("seen = %v, want [1 2]", seen)
	}
	if !q.Empty() {
		t.Fatal("expected queue to be empty after Process")
	}
}

func TestPurgeDropsWithoutInvokingHandlers(t *testing.T) {
	q := NewParent(nil, nil)
	called := false
	q.Put(Event{Handler: func([]interface{}) { called = true }})

	q.Purge()

	if called {
		t.Fatal("Purge must not invoke handlers")
	}
	if !q.Empty() {
		t.Fatal("expected queue to be empty after Purge")
	}
}

func TestReplaceParentRequiresEmptyQueue(t *testing.T) {
	q := NewParent(nil, nil)
	q.Put(Event{})

	defer func() {
		if recover() == nil {
			t.Fatal("expected ReplaceParent on a non-empty queue to panic")
		}
	}()
	q.ReplaceParent(NewParent(nil, nil))
}
