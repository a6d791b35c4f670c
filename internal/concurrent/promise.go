package concurrent

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

type Promise[T any] struct {
	IsValid bool
	Error   error
	Value   T
	wg      *sync.WaitGroup
}

func NewPromise[T any](effect func() (T, error)) *Promise[T] {
	return NewPromiseGroup(&errgroup.Group{}, effect)
}

func NewPromiseGroup[T any](group *errgroup.Group, effect func() (T, error)) *Promise[T] {
	wg := &sync.WaitGroup{}
	wg.Add(1)
	promise := &Promise[T]{wg: wg}
	group.Go(func() error {
		defer promise.wg.Done()

		value, err := effect()
		promise.IsValid = true
		if err != nil {
			promise.Error = err
			return err
		}

		promise.Value = value
		return nil
	})

	return promise
}

func (promise *Promise[T]) Wait() (T, error) {
	promise.wg.Wait()
	return promise.Value, promise.Error
}
