package reports

import "context"

// Task is the eventual result of an asynchronous save or export.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newTask[T any]() *Task[T] {
	return &Task[T]{done: make(chan struct{})}
}

func failedTask[T any](err error) *Task[T] {
	t := newTask[T]()
	var zero T
	t.resolve(zero, err)
	return t
}

func (t *Task[T]) resolve(value T, err error) {
	t.value = value
	t.err = err
	close(t.done)
}

// Done is closed once the task has a result.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves or ctx ends. Abandoning a wait does
// not cancel the underlying work.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
