package minefield

// cellQueue is the FIFO work queue for flood fill.
//
// It holds arena indices. The backing slice is reused across reveals, so a
// long game allocates it once. Not safe for concurrent use; a Grid owns
// exactly one.
type cellQueue struct {
	items []int
	head  int
}

func newCellQueue() cellQueue {
	return cellQueue{items: make([]int, 0, 64)}
}

// push appends an index to the back of the queue.
func (q *cellQueue) push(i int) {
	q.items = append(q.items, i)
}

// pop removes and returns the front index.
// Returns (0, false) if the queue is empty.
func (q *cellQueue) pop() (int, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	i := q.items[q.head]
	q.head++

	// Last element consumed - rewind so the capacity is reused.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return i, true
}

// len returns the number of queued indices.
func (q *cellQueue) len() int {
	return len(q.items) - q.head
}
