package queue

// Queue is a bounded FIFO shared between producers and a draining worker.
type Queue[T any] interface {
	// Enqueue adds an item to the back of the queue. It reports false when the queue is full.
	Enqueue(item T) bool
	Size() int
	// ReadAllMessages removes and returns every pending item in order.
	ReadAllMessages() []T
	ClearQueue()
}
