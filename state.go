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

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// stage is the type-erased view every shared state exposes to its neighbors
// in the chain, so stages of different result types can still link together.
//
// Both methods are called with the chain's stage-mutex already held, and
// must return with it held; a method that needs to run user code releases
// the lock around that call and reacquires it before returning (see
// continuationState.run and executorContinuationState.onResultReady).
type stage interface {
	// onResultReady is invoked by the upstream stage once it has become
	// fulfilled or failed. The base implementation is a no-op; only
	// continuation stages override it.
	onResultReady()

	// onResultRequested is invoked by a downstream stage (or by Get/Wait)
	// when the value is wanted. The base implementation blocks on the
	// shared condition variable until finished; continuation stages
	// override it to forward the request upstream and/or run eagerly.
	onResultRequested()
}

// sharedStateBase holds everything about a stage that doesn't depend on its
// result type: the chain-wide mutex and condition variable, the
// finished/valid flags, the failure slot, and the forward link to the next
// stage. Every stage in one chain shares the same mu/cond pointers, owned by
// the root stage a Promise creates.
type sharedStateBase struct {
	mu   *sync.Mutex
	cond *sync.Cond

	// self is this stage's own polymorphic identity: for a plain root
	// state it is the *sharedState[T] itself; for a continuation stage it
	// is the *continuationState[P,T] (or executor variant) that embeds it.
	// Forwarding calls (onResultRequested chains through get/set policies)
	// must call through self, not through the embedding sharedState[T]
	// directly, or the override would be bypassed.
	self stage

	// next is the downstream stage's shared state, if a continuation has
	// been attached; nil otherwise. Set once, never changed. This is the
	// chain's only owning forward reference: a stage's continuation would
	// otherwise be unreachable once the consumer handle that built it goes
	// out of scope.
	next stage

	finished  bool // result-or-failure has been recorded
	valid     bool // the consumer handle for this stage hasn't consumed it
	retrieved bool // Promise.ExtractFuture has already been called once
	consumed  bool // Get/Then/ThenExecutor has already been called once

	// deadlineExpired is set by the timer a bounded wait (WaitFor/WaitUntil)
	// arms, and checked by every loop in this package that blocks on cond,
	// so a bounded wait's deadline cuts a forwarded wait short instead of
	// only cutting short the immediate caller's own loop. Reset to false at
	// the start of each waitBounded call.
	deadlineExpired bool

	err error // set together with finished, iff this stage failed

	traceID uuid.UUID // zero unless WithTraceID was used; see trace.go
}

func newSharedStateBase() sharedStateBase {
	mu := &sync.Mutex{}
	return sharedStateBase{
		mu:    mu,
		cond:  sync.NewCond(mu),
		valid: true,
	}
}

func linkedSharedStateBase(parent *sharedStateBase) sharedStateBase {
	return sharedStateBase{
		mu:      parent.mu,
		cond:    parent.cond,
		valid:   true,
		traceID: parent.traceID,
	}
}

// claimForUse marks this stage's consumer handle as used, failing if it was
// already used once (by Get, Then, or ThenExecutor). Must be called
// with the stage-mutex held.
func (b *sharedStateBase) claimForUse() error {
	if b.consumed {
		return ErrFutureConsumed
	}
	b.consumed = true
	return nil
}

// waitBounded is waitUntilFinished with a deadline: it forwards the
// result-requested event exactly once, same as waitUntilFinished, but a
// timer arms alongside the wait so that if deadline passes before the chain
// finishes, every loop waiting on this chain's shared cond (including ones
// this call forwarded into) wakes up and gives up. Must be called with the
// stage-mutex held. Returns true if finished, false if the deadline passed
// first.
func (b *sharedStateBase) waitBounded(deadline time.Time) bool {
	if b.finished {
		return true
	}

	b.deadlineExpired = false
	timer := time.AfterFunc(time.Until(deadline), func() {
		b.mu.Lock()
		if !b.finished {
			b.deadlineExpired = true
			b.cond.Broadcast()
		}
		b.mu.Unlock()
	})
	defer timer.Stop()

	if !b.finished && !b.deadlineExpired {
		b.self.onResultRequested()
	}
	for !b.finished && !b.deadlineExpired {
		b.cond.Wait()
	}
	return b.finished
}

// waitUntilFinished forwards the result-requested event exactly once — only
// the first of result-ready/result-requested to reach a stage drives
// anything — then blocks on the shared condition variable until finished.
// Must be called with the stage-mutex held.
func (b *sharedStateBase) waitUntilFinished() {
	b.deadlineExpired = false
	if !b.finished {
		b.self.onResultRequested()
	}
	for !b.finished {
		b.cond.Wait()
	}
}
