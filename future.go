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

import "time"

// WaitStatus is the outcome of a bounded wait (Future.WaitFor / WaitUntil).
type WaitStatus int

const (
	// Ready means the chain finished before the deadline.
	Ready WaitStatus = iota
	// Timeout means the deadline passed before the chain finished.
	Timeout
)

func (w WaitStatus) String() string {
	if w == Ready {
		return "ready"
	}
	return "timeout"
}

// Future is the consumer side of a one-shot channel. Get, Then, and
// ThenExecutor each consume the Future: only one of them may be called on a
// given Future, and calling a second one returns ErrFutureConsumed (Get) or
// panics (Then/ThenExecutor, since they return a new Future rather than an
// error and a caller ignoring that Future would otherwise silently lose the
// chain). Wait, WaitFor, and WaitUntil do not consume the Future.
//
// A Future must not be copied after any of those methods, or the package-
// level Then/ThenExecutor functions, have been called on it.
type Future[T any] struct {
	noCopy noCopy

	state *sharedState[T]
}

// Valid reports whether this Future still has an outstanding result to
// withdraw: false for the zero value, after Get has been called, or after
// Then/ThenExecutor have consumed it.
func (f *Future[T]) Valid() bool {
	if f.state == nil {
		return false
	}
	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid && !s.consumed
}

// IsReady reports whether the chain has already finished, without blocking.
func (f *Future[T]) IsReady() bool {
	if f.state == nil {
		return false
	}
	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// HasValue reports whether the chain has already finished successfully,
// without blocking. False both before the chain finishes and if it finished
// with a failure.
func (f *Future[T]) HasValue() bool {
	if f.state == nil {
		return false
	}
	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished && s.err == nil
}

// HasFailure is the complement of HasValue: true only once the chain has
// finished with a failure, without blocking.
func (f *Future[T]) HasFailure() bool {
	if f.state == nil {
		return false
	}
	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished && s.err != nil
}

// Get blocks until the chain finishes, then withdraws its result. It fails
// with ErrNoState on the zero value, and with ErrFutureConsumed if this
// Future's value was already withdrawn or handed to Then/ThenExecutor.
func (f *Future[T]) Get() (T, error) {
	var zero T
	if f.state == nil {
		return zero, ErrNoState
	}

	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.claimForUse(); err != nil {
		return zero, err
	}

	s.waitUntilFinished()
	return s.withdrawLocked()
}

// Wait blocks until the chain finishes, without consuming the result; a
// later Get on the same Future still succeeds.
func (f *Future[T]) Wait() error {
	if f.state == nil {
		return ErrNoState
	}
	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waitUntilFinished()
	return nil
}

// WaitFor blocks until the chain finishes or d elapses, whichever comes
// first. It does not consume the Future.
func (f *Future[T]) WaitFor(d time.Duration) (WaitStatus, error) {
	return f.WaitUntil(time.Now().Add(d))
}

// WaitUntil blocks until the chain finishes or deadline passes, whichever
// comes first. It does not consume the Future.
func (f *Future[T]) WaitUntil(deadline time.Time) (WaitStatus, error) {
	if f.state == nil {
		return Timeout, ErrNoState
	}
	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waitBounded(deadline) {
		return Ready, nil
	}
	return Timeout, nil
}

// Then attaches a continuation to f, running fn(v) once f's chain finishes
// with a value v, per the placement policy WithPolicy selects (PolicyAny by
// default). If f's chain finishes with a failure, fn never runs and that
// failure propagates to the returned Future instead.
//
// This is a package-level function, not a method, because Go does not allow
// a method to introduce type parameters beyond its receiver's.
func Then[P, T any](f *Future[P], fn func(P) (T, error), opts ...ThenOption) Future[T] {
	if f.state == nil {
		panic("future: Then called on a Future with no state")
	}

	cfg := newThenConfig(opts)

	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.claimForUse(); err != nil {
		panic(err)
	}

	c := newContinuationState[P, T](s, cfg.policy, cfg.allocator, fn)
	s.next = c

	if s.finished {
		c.onResultReady()
	}

	return Future[T]{state: &c.sharedState}
}

// ThenExecutor attaches a continuation to f like Then, but hands the
// continuation's execution to ex instead of running it on whichever
// goroutine observes f's result. tag picks how ex is asked to run it.
func ThenExecutor[P, T any](f *Future[P], tag DispatchTag, ex Executor, fn func(P) (T, error), opts ...ThenOption) Future[T] {
	if f.state == nil {
		panic("future: ThenExecutor called on a Future with no state")
	}
	if ex == nil {
		panic("future: ThenExecutor called with a nil Executor")
	}

	cfg := newThenConfig(opts)

	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.claimForUse(); err != nil {
		panic(err)
	}

	c := newExecutorContinuationState[P, T](s, tag, ex, cfg.allocator, fn)
	s.next = c

	if s.finished {
		c.onResultReady()
	}

	return Future[T]{state: &c.sharedState}
}
