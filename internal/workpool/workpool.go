package workpool

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Func processes a single item.
type Func[T, R any] func(ctx context.Context, item T) (R, error)

// Result pairs an input item with the outcome of processing it.
type Result[T, R any] struct {
	Index int
	Item  T
	Value R
	Err   error
}

// PanicError is the Result error of an item whose Func panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func run[T, R any](ctx context.Context, index int, item T, fn Func[T, R]) (res Result[T, R]) {
	res.Index = index
	res.Item = item

	defer func() {
		if r := recover(); r != nil {
			res.Err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	res.Value, res.Err = fn(ctx, item)

	return res
}

func limit(workers int) int {
	return max(workers, 1)
}

// next receives the next item unless ctx is done first.
func next[T any](ctx context.Context, in <-chan T) (T, bool) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, false
	case item, ok := <-in:
		if !ok || ctx.Err() != nil {
			return item, false
		}
		return item, true
	}
}

// Unordered applies fn to items from in using at most workers goroutines
// and emits each result as soon as it is ready. Items received after ctx
// is cancelled are not processed.
func Unordered[T, R any](ctx context.Context, workers int, in <-chan T, fn Func[T, R]) <-chan Result[T, R] {
	out := make(chan Result[T, R])

	go func() {
		defer close(out)

		var g errgroup.Group
		g.SetLimit(limit(workers))

		for index := 0; ; index++ {
			item, ok := next(ctx, in)
			if !ok {
				break
			}

			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				out <- run(ctx, index, item, fn)
				return nil
			})
		}

		_ = g.Wait()
	}()

	return out
}

// Ordered applies fn to items from in using at most workers goroutines
// and emits results in the order the items were received. At most
// workers results are buffered ahead of the consumer.
func Ordered[T, R any](ctx context.Context, workers int, in <-chan T, fn Func[T, R]) <-chan Result[T, R] {
	n := limit(workers)
	out := make(chan Result[T, R])
	pending := make(chan chan Result[T, R], n)

	go func() {
		defer close(pending)

		var g errgroup.Group
		g.SetLimit(n)

		for index := 0; ; index++ {
			item, ok := next(ctx, in)
			if !ok {
				break
			}

			slot := make(chan Result[T, R], 1)
			pending <- slot

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					slot <- Result[T, R]{Index: index, Item: item, Err: err}
					return nil
				}
				slot <- run(ctx, index, item, fn)
				return nil
			})
		}

		_ = g.Wait()
	}()

	go func() {
		defer close(out)

		for slot := range pending {
			out <- <-slot
		}
	}()

	return out
}

// Feed sends items on a new channel and closes it when done or when ctx is
// cancelled.
func Feed[T any](ctx context.Context, items []T) <-chan T {
	ch := make(chan T)

	go func() {
		defer close(ch)

		for _, item := range items {
			select {
			case ch <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch
}
