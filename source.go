package tetris

import (
	"math/rand"
)

// Source picks uniformly among n choices.
type Source interface {
	Intn(n int) int
}

func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// QueueSource replays pushed choices in order. Each value is reduced
// modulo n, so a shape index and a color index can be pushed as is.
type QueueSource struct {
	queue []int
}

func NewQueueSource(choices ...int) *QueueSource {
	q := &QueueSource{queue: make([]int, 0, len(choices))}
	q.Push(choices...)
	return q
}

func (q *QueueSource) Intn(n int) int {
	if len(q.queue) == 0 {
		return 0
	}
	v := q.queue[0]
	q.queue = q.queue[1:]
	return v % n
}

func (q *QueueSource) Push(choices ...int) {
	q.queue = append(q.queue, choices...)
}

// PushPiece queues the choices that make NewPiece build a piece of the
// given shape and color.
func (q *QueueSource) PushPiece(shape Shape, color Tile) {
	q.Push(int(shape), int(color)-1)
}

func (q *QueueSource) Len() int {
	return len(q.queue)
}
