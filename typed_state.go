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

// sharedState is the typed storage for one stage: the base synchronization
// fields plus a slot for the result value. It plays the role of C++'s
// future_shared_state<Result>; the T/T&/void specializations of the source
// collapse into this single generic shape (a pointer-typed T already stands
// in for T&, and Unit stands in for void — see unit.go).
type sharedState[T any] struct {
	sharedStateBase
	val T
}

// newRootState creates the shared state a Promise owns: a fresh mutex/cond
// pair, and self pointing at itself, since a root state has no continuation
// override.
func newRootState[T any]() *sharedState[T] {
	st := &sharedState[T]{sharedStateBase: newSharedStateBase()}
	st.self = st
	return st
}

// onResultReady is the base (non-continuation) handler: it does nothing.
// Nothing calls this on a root state in ordinary use, since a root state
// has no upstream; it exists to satisfy the stage interface.
func (s *sharedState[T]) onResultReady() {}

// onResultRequested is the base handler used by root states and by any
// stage that hasn't overridden it: block on the shared condition variable
// until finished. This mirrors daily::future_shared_state_base's default
// handle_continuation_result_requested.
func (s *sharedState[T]) onResultRequested() {
	for !s.finished && !s.deadlineExpired {
		s.cond.Wait()
	}
}

// withdrawLocked marks this stage invalid and returns its stored value and
// failure. Must be called with the stage-mutex held, and only once finished
// is true.
func (s *sharedState[T]) withdrawLocked() (T, error) {
	s.valid = false
	return s.val, s.err
}

// finishValueLocked records a successful result and wakes every waiter on
// the chain's shared condition variable. Must be called with the
// stage-mutex held, and only once.
func (s *sharedState[T]) finishValueLocked(v T) {
	s.val = v
	s.finished = true
	s.cond.Broadcast()
}

// finishFailureLocked records a failure and wakes every waiter. Must be
// called with the stage-mutex held, and only once.
func (s *sharedState[T]) finishFailureLocked(err error) {
	s.err = err
	s.finished = true
	s.cond.Broadcast()
}

// propagateLocked notifies the downstream stage, if any, that this stage
// has become finished, driven identically whether this stage finished with
// a value or with a failure (see DESIGN.md Open Question 1). Must be called
// with the stage-mutex held.
func (s *sharedState[T]) propagateLocked() {
	if s.next != nil {
		s.next.onResultReady()
	}
}
