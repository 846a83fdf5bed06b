package cache

// lruNode is one key in the recency list.
type lruNode[K comparable, V any] struct {
	key        K
	prev, next *lruNode[K, V]
}

// lruList orders keys by recency: head is the most recently used, tail the
// least. It is not synchronized; Cache holds its lock around every call.
type lruList[K comparable, V any] struct {
	head, tail *lruNode[K, V]
	len        int
}

func (l *lruList[K, V]) PushFront(key K) *lruNode[K, V] {
	n := &lruNode[K, V]{key: key}
	l.linkFront(n)
	return n
}

func (l *lruList[K, V]) MoveToFront(n *lruNode[K, V]) {
	if n == nil || n == l.head {
		return
	}
	l.unlink(n)
	l.linkFront(n)
}

func (l *lruList[K, V]) Remove(n *lruNode[K, V]) {
	if n != nil {
		l.unlink(n)
	}
}

// RemoveOldest unlinks the tail and returns its key.
func (l *lruList[K, V]) RemoveOldest() (K, bool) {
	n := l.tail
	if n == nil {
		var zero K
		return zero, false
	}
	l.unlink(n)
	return n.key, true
}

func (l *lruList[K, V]) Clear() {
	l.head, l.tail, l.len = nil, nil, 0
}

func (l *lruList[K, V]) linkFront(n *lruNode[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

func (l *lruList[K, V]) unlink(n *lruNode[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
	l.len--
}
