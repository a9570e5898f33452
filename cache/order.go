package cache

import (
	list "github.com/bahlo/generic-list-go"
)

// order keeps keys from the least recently used (front) to the most
// recently used (back). Elements handed out by pushBack stay valid until
// they are removed.
type order[K any] struct {
	l *list.List[K]
}

func newOrder[K any]() order[K] {
	return order[K]{l: list.New[K]()}
}

func (o order[K]) pushBack(key K) *list.Element[K] {
	return o.l.PushBack(key)
}

// touch marks e as the most recently used.
func (o order[K]) touch(e *list.Element[K]) {
	o.l.MoveToBack(e)
}

func (o order[K]) oldest() *list.Element[K] {
	return o.l.Front()
}

// recycle stores key in e and moves it to the back, so an evicted slot
// can be reused for the incoming key.
func (o order[K]) recycle(e *list.Element[K], key K) {
	e.Value = key
	o.l.MoveToBack(e)
}

func (o order[K]) remove(e *list.Element[K]) {
	o.l.Remove(e)
}

func (o order[K]) len() int {
	return o.l.Len()
}

func (o order[K]) keys() []K {
	keys := make([]K, 0, o.l.Len())
	for e := o.l.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value)
	}
	return keys
}

func (o order[K]) reset() {
	o.l.Init()
}
