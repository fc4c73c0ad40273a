package ownership

import "sync"

// queueItem is either a pathItem to attribute or a stopItem telling one
// worker to finish.
type queueItem interface {
	isQueueItem()
}

type pathItem string

type stopItem struct{}

func (pathItem) isQueueItem() {}
func (stopItem) isQueueItem() {}

// workQueue is an unbounded FIFO. Push never blocks; Pop blocks while the
// queue is empty.
type workQueue struct {
	mu    sync.Mutex
	ready *sync.Cond
	items []queueItem
}

func newWorkQueue() *workQueue {
	q := &workQueue{}
	q.ready = sync.NewCond(&q.mu)

	return q
}

func (q *workQueue) Push(item queueItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()

	q.ready.Signal()
}

func (q *workQueue) Pop() queueItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.ready.Wait()
	}

	item := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]

	return item
}

func (q *workQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}
