package queue

// Queue represents a basic FIFO queue.
type Queue interface {
	Enqueue(item interface{}) error
	DrainAll() []interface{}
	Size() int
	Clear()
}
