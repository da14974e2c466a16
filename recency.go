package tempuscache

import "container/list"

/*
recencyIndex is C3: an insertion-ordered map from key to its position
in a doubly linked list, most-recently-touched at the front (spec.md
§3). It is a superset of C5 during pending-evict windows and may
transiently hold keys already removed from the store — spec §3 calls
those stragglers tolerated, and §9's open question 4 confirms a
straggler access simply re-inserts the key with no backing value; this
implementation does not special-case that, by design.

The teacher's cache.go fused this directly into its map-of-values
(container/list + map[string]*list.Element holding the entry itself).
Spec §9 explicitly asks the rewrite to resist that fusion: "A rewrite
must resist the temptation to fuse them into one intrusive data
structure." recencyIndex therefore only ever stores keys, never values,
and trimTo is an explicit step the drainer calls after a drain batch —
not a callback fired synchronously from inside touch, which is the
other redesign spec §9 calls for ("express this as an explicit,
separate step").

recencyIndex is single-owner: only the drainer goroutine (C6) ever
calls touch/trimTo, so it needs no internal lock of its own.
*/
type recencyIndex struct {
	order    *list.List
	elements map[string]*list.Element
	capacity int
}

func newRecencyIndex(capacity int) *recencyIndex {
	return &recencyIndex{
		order:    list.New(),
		elements: make(map[string]*list.Element),
		capacity: capacity,
	}
}

// touch moves key to the most-recent (front) position, inserting it if
// it isn't already tracked.
func (r *recencyIndex) touch(key string) {
	if elem, ok := r.elements[key]; ok {
		r.order.MoveToFront(elem)
		return
	}
	elem := r.order.PushFront(key)
	r.elements[key] = elem
}

// trimTo pops least-recent entries until the index holds at most
// r.capacity keys, appending each evicted key to victims. This is the
// explicit post-drain step §9 calls for, replacing the "remove eldest"
// callback Krishna8167-tempuscache embeds directly in insert.
func (r *recencyIndex) trimTo(victims []string) []string {
	for r.order.Len() > r.capacity {
		back := r.order.Back()
		if back == nil {
			break
		}
		key := back.Value.(string)
		r.order.Remove(back)
		delete(r.elements, key)
		victims = append(victims, key)
	}
	return victims
}

func (r *recencyIndex) len() int {
	return r.order.Len()
}
