// Copyright 2020 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package future

// Promise is the producer side of a one-shot channel: exactly one of
// Fulfill or FulfillErr may be called on it, exactly once. Zero-value
// Promise[T] is not usable; build one with NewPromise.
//
// A Promise must not be copied after ExtractFuture, Fulfill, FulfillErr, or
// Discard has been called on it.
type Promise[T any] struct {
	noCopy noCopy

	state     *sharedState[T]
	allocator Allocator
}

// NewPromise creates a Promise and the root stage of a new chain. Every
// stage later attached to its Future through Then or ThenExecutor shares
// this root stage's mutex and condition variable (see state.go).
func NewPromise[T any](opts ...PromiseOption) Promise[T] {
	cfg := newPromiseConfig(opts)

	var st *sharedState[T]
	if cfg.allocator != nil {
		if v := cfg.allocator.Get(); v != nil {
			if reused, ok := v.(*sharedState[T]); ok {
				*reused = sharedState[T]{}
				st = reused
			}
		}
	}
	if st == nil {
		st = &sharedState[T]{}
	}

	st.sharedStateBase = newSharedStateBase()
	st.self = st
	st.traceID = newTraceID(cfg.traced)

	return Promise[T]{state: st, allocator: cfg.allocator}
}

// ExtractFuture returns the Future paired with this Promise. It fails with
// ErrNoState if the Promise is the zero value, and with
// ErrFutureAlreadyRetrieved if a Future was already extracted from it.
func (p *Promise[T]) ExtractFuture() (Future[T], error) {
	if p.state == nil {
		return Future[T]{}, ErrNoState
	}

	s := p.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.retrieved {
		return Future[T]{}, ErrFutureAlreadyRetrieved
	}
	s.retrieved = true

	return Future[T]{state: s}, nil
}

// Fulfill records val as this chain's result, waking every current or
// future waiter on it and running any continuation attached with an eager
// policy. It fails with ErrPromiseAlreadySatisfied if the Promise was
// already fulfilled, by either Fulfill or FulfillErr.
func (p *Promise[T]) Fulfill(val T) error {
	if p.state == nil {
		return ErrNoState
	}

	s := p.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return ErrPromiseAlreadySatisfied
	}

	s.finishValueLocked(val)
	trace(&s.sharedStateBase, eventFulfilled)
	s.propagateLocked()
	return nil
}

// FulfillErr records err as this chain's failure. err must not be nil.
func (p *Promise[T]) FulfillErr(err error) error {
	if err == nil {
		panic("future: FulfillErr called with a nil error")
	}
	if p.state == nil {
		return ErrNoState
	}

	s := p.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return ErrPromiseAlreadySatisfied
	}

	s.finishFailureLocked(err)
	trace(&s.sharedStateBase, eventRejected)
	s.propagateLocked()
	return nil
}

// Discard gives up on this Promise. If a Future was extracted and the chain
// never finished, every waiter on it wakes up with ErrBrokenPromise, the Go
// substitute for the source's destructor-driven broken-promise detection
// (there is no deterministic point a Go value goes out of scope to hook
// into). Discard on an already-finished or zero-value Promise is a no-op
// beyond the bookkeeping below.
//
// If an Allocator was supplied to NewPromise, the root stage is returned to
// it for reuse, but only when nothing could still be waiting to read a
// broken-promise result from it: either no Future was ever extracted, or
// the one that was has already fully consumed its result through Get. A
// Future extracted but not yet read is left alive, uncollected, so the
// eventual Get still sees ErrBrokenPromise instead of racing a reused slot.
func (p *Promise[T]) Discard() error {
	if p.state == nil {
		return nil
	}

	s := p.state
	s.mu.Lock()
	if !s.finished {
		s.finishFailureLocked(ErrBrokenPromise)
		trace(&s.sharedStateBase, eventRejected)
		s.propagateLocked()
	}
	safeToRecycle := !s.retrieved || !s.valid
	s.mu.Unlock()

	if p.allocator != nil && safeToRecycle {
		p.allocator.Put(s)
	}
	p.state = nil
	return nil
}
