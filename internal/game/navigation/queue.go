package navigation

import "container/heap"

type queueItem struct {
	id       int
	cost     float64
	priority float64
	seq      int
}

// priorityQueue is a min-heap on priority; equal priorities pop in push order
type priorityQueue struct {
	items []queueItem
	seq   int
}

func (pq *priorityQueue) Len() int { return len(pq.items) }

func (pq *priorityQueue) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (pq *priorityQueue) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *priorityQueue) Push(x interface{}) { pq.items = append(pq.items, x.(queueItem)) }

func (pq *priorityQueue) Pop() interface{} {
	old := pq.items
	n := len(old)
	item := old[n-1]
	pq.items = old[:n-1]
	return item
}

func (pq *priorityQueue) push(id int, cost, priority float64) {
	pq.seq++
	heap.Push(pq, queueItem{id: id, cost: cost, priority: priority, seq: pq.seq})
}

func (pq *priorityQueue) pop() queueItem {
	return heap.Pop(pq).(queueItem)
}
