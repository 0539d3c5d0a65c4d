package attack

import (
	"math"

	"github.com/mitchelldurbincs/TerritorialConquest/internal/common"
	"github.com/mitchelldurbincs/TerritorialConquest/internal/game/core"
)

type entry struct {
	tile  core.TileIndex
	delay float64
}

type bucket struct {
	entries []entry
	head    int
}

func (b *bucket) len() int { return len(b.entries) - b.head }

// CalendarQueue is a ring of time buckets used as an approximate priority
// queue. Insert is O(1); popping only looks at the bucket under the cursor.
// Entries sharing an integer delay come out in insertion order.
type CalendarQueue struct {
	buckets   []bucket
	cursor    int
	scheduled int
}

func NewCalendarQueue(size int) *CalendarQueue {
	if size < 2 {
		panic("attack: calendar queue needs at least two buckets")
	}
	return &CalendarQueue{buckets: make([]bucket, size)}
}

// Insert schedules tile floor(delay) slots after the cursor
func (q *CalendarQueue) Insert(tile core.TileIndex, delay float64) {
	offset := common.Clamp(int(math.Floor(delay)), 0, len(q.buckets)-1)
	b := &q.buckets[(q.cursor+offset)%len(q.buckets)]
	b.entries = append(b.entries, entry{tile: tile, delay: delay})
	q.scheduled++
}

// Peek returns the oldest entry of the current bucket
func (q *CalendarQueue) Peek() (core.TileIndex, bool) {
	b := &q.buckets[q.cursor%len(q.buckets)]
	if b.len() == 0 {
		return core.NoTile, false
	}
	return b.entries[b.head].tile, true
}

// Pop removes the entry returned by Peek
func (q *CalendarQueue) Pop() {
	b := &q.buckets[q.cursor%len(q.buckets)]
	if b.len() == 0 {
		return
	}
	b.head++
	q.scheduled--
	if b.head == len(b.entries) {
		b.entries = b.entries[:0]
		b.head = 0
	}
}

// CurrentLen returns the entries left in the bucket under the cursor
func (q *CalendarQueue) CurrentLen() int {
	return q.buckets[q.cursor%len(q.buckets)].len()
}

// Advance moves the cursor to the next slot
func (q *CalendarQueue) Advance() { q.cursor++ }

// Len returns the number of scheduled entries
func (q *CalendarQueue) Len() int { return q.scheduled }

// Slot returns the current cursor position
func (q *CalendarQueue) Slot() int { return q.cursor }

// Size returns the number of buckets in the ring
func (q *CalendarQueue) Size() int { return len(q.buckets) }
