// Package mlq is the Multi-level Queue: a direct port of nvim's
// event/multiqueue.c, used by internal/bridge to couple the UI
// thread's single dispatch loop to one queue per event source while
// keeping a consolidated FIFO order across all of them.
//
// Queue is not goroutine-safe, exactly like the original: callers must
// serialize access externally (internal/bridge does this with its own
// mutex around enqueue/dequeue).
package mlq

import "container/list"

// Event is one scheduled unit of work: a handler plus its arguments.
type Event struct {
	Handler func(argv []interface{})
	Argv    []interface{}
}

// node is the tagged union multiqueue_item_s represents in the
// original: a link node only ever lives in a parent's list and points
// at the child queue it draws from; a value node holds an event and,
// if its queue has a parent, the list.Element of its corresponding
// link node in the parent so the two can be removed together.
type node struct {
	link  bool
	event Event

	// valid when link
	child *Queue

	// valid when !link && queue.parent != nil: this value node's
	// corresponding link node in the parent's list.
	linkElem *list.Element
}

// Queue is a FIFO of Events, optionally chained to a parent queue so
// that every push here also becomes visible at the parent's head.
type Queue struct {
	parent *Queue
	items  *list.List
	putCb  func(q *Queue)
	data   interface{}
	size   int
}

// NewParent creates a root queue. putCb, if non-nil, is invoked every
// time any of its children (or itself) receives a Put — the hook the
// bridge uses to wake a blocked select loop (spec.md §8 testable
// property 8).
func NewParent(putCb func(q *Queue), data interface{}) *Queue {
	return &Queue{items: list.New(), putCb: putCb, data: data}
}

// NewChild creates a queue whose pushes are also linked into parent's
// list. parent must itself be a root (it cannot have a parent).
func NewChild(parent *Queue) *Queue {
	if parent.parent != nil {
		panic("mlq: parent queue already has a parent")
	}
	return &Queue{items: list.New(), parent: parent}
}

// Data returns the opaque pointer passed to NewParent.
func (q *Queue) Data() interface{} { return q.data }

// Size reports the number of events currently reachable through this
// queue: its own plus, transitively, every child's.
func (q *Queue) Size() int { return q.size }

// Put enqueues ev, pushing a matching link node to the parent (if any)
// and invoking the parent's put callback.
func (q *Queue) Put(ev Event) {
	n := &node{event: ev}
	q.items.PushBack(n)
	q.size++

	if q.parent != nil {
		link := &node{link: true, child: q}
		n.linkElem = q.parent.items.PushBack(link)
		q.parent.size++

		if q.parent.putCb != nil {
			q.parent.putCb(q.parent)
		}
	} else if q.putCb != nil {
		q.putCb(q)
	}
}

// Get removes and returns the head event. ok is false on an empty
// queue.
func (q *Queue) Get() (Event, bool) {
	front := q.items.Front()
	if front == nil {
		return Event{}, false
	}
	q.items.Remove(front)
	n := front.Value.(*node)

	if n.link {
		// Link nodes only ever live in a parent's list; only a parent
		// queue has parent == nil.
		childFront := n.child.items.Front()
		child := childFront.Value.(*node)
		n.child.items.Remove(childFront)
		n.child.size--
		q.size--
		return child.event, true
	}

	if n.linkElem != nil && q.parent != nil {
		q.parent.items.Remove(n.linkElem)
		q.parent.size--
	}
	q.size--
	return n.event, true
}

// Process drains the queue, invoking each event's handler in FIFO
// order.
func (q *Queue) Process() {
	for {
		ev, ok := q.Get()
		if !ok {
			return
		}
		if ev.Handler != nil {
			ev.Handler(ev.Argv)
		}
	}
}

// Purge discards every pending event without invoking its handler —
// the backpressure mechanism spec.md §4.3 describes.
func (q *Queue) Purge() {
	for {
		if _, ok := q.Get(); !ok {
			return
		}
	}
}

// Empty reports whether the queue currently has no events.
func (q *Queue) Empty() bool { return q.items.Len() == 0 }

// ReplaceParent re-parents an empty queue, mirroring
// multiqueue_replace_parent's precondition.
func (q *Queue) ReplaceParent(p *Queue) {
	if !q.Empty() {
		panic("mlq: ReplaceParent requires an empty queue")
	}
	q.parent = p
}
