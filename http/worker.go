package http

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// WorkerPoolSize is the largest concurrency ceiling a WorkerPool supports.
// Must be a power of 2.
const WorkerPoolSize = 1024

// WorkerPool bounds the number of connections handled at once. It owns a
// fixed set of request contexts; a connection may only be accepted once one
// of them is free.
type WorkerPool struct {
	Pool  [WorkerPoolSize]RequestCtx
	Ready RingBuffer[*RequestCtx]

	size int
	busy atomic.Int64
	wake chan struct{}
}

func NewWorkerPool(size int) (*WorkerPool, error) {
	if size <= 0 || size > WorkerPoolSize {
		return nil, fmt.Errorf("http: worker pool size %d out of range [1, %d]", size, WorkerPoolSize)
	}

	wp := &WorkerPool{
		size: size,
		wake: make(chan struct{}, 1),
	}
	wp.Ready = NewRingBuffer[*RequestCtx]()
	for i := range size {
		if err := wp.Ready.Enqueue(&wp.Pool[i]); err != nil {
			return nil, err
		}
	}
	return wp, nil
}

func (wp *WorkerPool) Size() int {
	return wp.size
}

// Busy is the number of request contexts currently handed out.
func (wp *WorkerPool) Busy() int {
	return int(wp.busy.Load())
}

// Acquire blocks until a request context is free or ctx is done.
func (wp *WorkerPool) Acquire(ctx context.Context) (*RequestCtx, error) {
	for {
		reqCtx, err := wp.Ready.Dequeue()
		if err == nil {
			wp.busy.Add(1)
			// Pass the wakeup on in case more contexts were released.
			wp.notify()
			return reqCtx, nil
		}

		select {
		case <-wp.wake:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Release hands reqCtx back. It must have come from Acquire on the same pool
// and must not be used afterwards.
func (wp *WorkerPool) Release(reqCtx *RequestCtx) {
	reqCtx.release()
	if err := wp.Ready.Enqueue(reqCtx); err != nil {
		// Only possible when releasing more than was acquired.
		panic(err)
	}
	wp.busy.Add(-1)
	wp.notify()
}

func (wp *WorkerPool) notify() {
	select {
	case wp.wake <- struct{}{}:
	default:
	}
}

var (
	ErrFull  = errors.New("ring buffer is full")
	ErrEmpty = errors.New("ring buffer is empty")
)

// RingBuffer is a bounded lock-free queue that is safe for any number of
// concurrent producers and consumers. Every finishing handler goroutine
// enqueues its slot, and every Serve loop sharing the pool dequeues.
type RingBuffer[T any] struct {
	buffer [WorkerPoolSize]slot[T]
	mask   uint64
	enqPos uint64
	deqPos uint64
}

type slot[T any] struct {
	sequence uint64
	value    T
}

// NewRingBuffer creates a new ring buffer of size WorkerPoolSize
func NewRingBuffer[T any]() RingBuffer[T] {
	var buf [WorkerPoolSize]slot[T]
	for i := range buf {
		buf[i].sequence = uint64(i)
	}
	return RingBuffer[T]{
		buffer: buf,
		mask:   WorkerPoolSize - 1,
	}
}

// Enqueue adds an item to the ring buffer
func (q *RingBuffer[T]) Enqueue(val T) error {
	for {
		pos := atomic.LoadUint64(&q.enqPos)
		slot := &q.buffer[pos&q.mask]

		seq := atomic.LoadUint64(&slot.sequence)
		delta := int64(seq) - int64(pos)

		if delta == 0 {
			if atomic.CompareAndSwapUint64(&q.enqPos, pos, pos+1) {
				slot.value = val
				atomic.StoreUint64(&slot.sequence, pos+1)
				return nil
			}
		} else if delta < 0 {
			return ErrFull
		} else {
			runtime.Gosched()
		}
	}
}

// Dequeue removes and returns the oldest item
func (q *RingBuffer[T]) Dequeue() (T, error) {
	var zero T
	for {
		pos := atomic.LoadUint64(&q.deqPos)
		slot := &q.buffer[pos&q.mask]

		seq := atomic.LoadUint64(&slot.sequence)
		delta := int64(seq) - int64(pos+1)

		if delta == 0 {
			if atomic.CompareAndSwapUint64(&q.deqPos, pos, pos+1) {
				val := slot.value
				slot.value = zero
				atomic.StoreUint64(&slot.sequence, pos+q.mask+1)
				return val, nil
			}
		} else if delta < 0 {
			return zero, ErrEmpty
		} else {
			runtime.Gosched()
		}
	}
}
