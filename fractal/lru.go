package fractal

// lruNode is a node in a doubly-linked LRU list. It keeps its key so the
// owning map entry can be deleted on eviction.
type lruNode struct {
	key  CacheKey
	prev *lruNode
	next *lruNode
}

// lruList is a doubly-linked list, most recently used at the head.
// Not thread-safe; the owning shard holds the lock.
type lruList struct {
	head *lruNode
	tail *lruNode
	len  int
}

func (l *lruList) Len() int { return l.len }

// PushFront adds key as the most recently used entry.
func (l *lruList) PushFront(key CacheKey) *lruNode {
	node := &lruNode{key: key}
	l.linkFront(node)
	return node
}

// MoveToFront marks node as the most recently used entry.
func (l *lruList) MoveToFront(node *lruNode) {
	if node == nil || node == l.head {
		return
	}
	l.unlink(node)
	l.linkFront(node)
}

func (l *lruList) Remove(node *lruNode) {
	if node != nil {
		l.unlink(node)
	}
}

// RemoveOldest unlinks the least recently used entry and returns its key.
func (l *lruList) RemoveOldest() (CacheKey, bool) {
	if l.tail == nil {
		return CacheKey{}, false
	}
	node := l.tail
	l.unlink(node)
	return node.key, true
}

func (l *lruList) Clear() {
	l.head, l.tail, l.len = nil, nil, 0
}

func (l *lruList) linkFront(node *lruNode) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList) unlink(node *lruNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev, node.next = nil, nil
	l.len--
}
