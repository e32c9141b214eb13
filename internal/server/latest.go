package server

// latest is a one-slot mailbox that keeps only the newest value. Publishers
// never block; a slow reader just skips intermediate frames.
type latest[T any] struct {
	ch chan T
}

func newLatest[T any]() *latest[T] {
	return &latest[T]{ch: make(chan T, 1)}
}

func (l *latest[T]) offer(v T) {
	for {
		select {
		case l.ch <- v:
			return
		default:
		}
		select {
		case <-l.ch:
		default:
		}
	}
}

func (l *latest[T]) C() <-chan T {
	return l.ch
}
