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

// continuationState is a downstream stage built by Then: it holds a
// non-owning pointer to its upstream stage's typed storage (the upstream
// stays alive through the producer and the active consumer), and realizes
// one of the three continuation policies by overriding
// onResultReady/onResultRequested.
type continuationState[P, T any] struct {
	sharedState[T]

	parent     *sharedState[P] // non-owning, to avoid a reference cycle
	parentSelf stage           // parent.self, to forward through its own override
	policy     Policy
	fn         func(P) (T, error)
	started    bool // run has withdrawn the upstream value and begun running fn
}

func newContinuationState[P, T any](parent *sharedState[P], policy Policy, alloc Allocator, fn func(P) (T, error)) *continuationState[P, T] {
	var c *continuationState[P, T]
	if alloc != nil {
		if v := alloc.Get(); v != nil {
			if reused, ok := v.(*continuationState[P, T]); ok {
				*reused = continuationState[P, T]{}
				c = reused
			}
		}
	}
	if c == nil {
		c = &continuationState[P, T]{}
	}

	c.sharedState = sharedState[T]{sharedStateBase: linkedSharedStateBase(&parent.sharedStateBase)}
	c.parent = parent
	c.parentSelf = parent.self
	c.policy = policy
	c.fn = fn
	c.self = c
	return c
}

// onResultReady implements the "on result-ready from upstream" side of the
// policy table: Any and Set run the continuation now; Get does nothing (its
// work happens lazily, from onResultRequested).
func (c *continuationState[P, T]) onResultReady() {
	switch c.policy {
	case PolicyAny, PolicySet:
		c.run()
	case PolicyGet:
		// nothing to stash; the parent's result is retrieved lazily.
	}
}

// onResultRequested implements the "on result-requested by downstream" side
// of the policy table.
func (c *continuationState[P, T]) onResultRequested() {
	switch c.policy {
	case PolicyAny:
		// forward upstream first: if the upstream hasn't fulfilled yet,
		// this blocks until it has, so run always sees a finished parent.
		// If onResultReady already ran (upstream fired first), the forward
		// returns immediately and run does not call fn a second time.
		c.parentSelf.onResultRequested()
		c.run()
	case PolicySet:
		// forward upstream; our own result is computed from onResultReady
		// once the upstream finishes, which for a lazy upstream happens
		// during this forward. Wait for it, so a downstream run that
		// withdraws from this stage sees it finished.
		c.parentSelf.onResultRequested()
		for !c.finished && !c.deadlineExpired {
			c.cond.Wait()
		}
	case PolicyGet:
		c.parentSelf.onResultRequested()
		c.run()
	}
}

// run withdraws the upstream value, runs the continuation function outside
// the stage-mutex, and records this stage's own result. It is a no-op once
// this stage is already finished, and a later call made while fn is still
// running only waits for that result, which is what makes "the first of
// result-ready/result-requested observed drives the user function" hold
// even though both onResultReady and onResultRequested can reach run() for
// PolicyAny.
func (c *continuationState[P, T]) run() {
	if c.finished {
		return
	}
	if c.started {
		for !c.finished && !c.deadlineExpired {
			c.cond.Wait()
		}
		return
	}
	c.started = true

	trace(&c.sharedStateBase, eventContinuationStart)

	pval, perr := c.parent.withdrawLocked()
	if perr != nil {
		// the upstream failed: propagate that failure without running the
		// continuation.
		c.finishFailureLocked(perr)
		c.propagateLocked()
		trace(&c.sharedStateBase, eventRejected)
		return
	}

	fn := c.fn
	c.mu.Unlock()
	res, err := invokeSafely(fn, pval)
	c.mu.Lock()

	if c.finished {
		// a racing call already recorded a result for this stage.
		return
	}
	if err != nil {
		c.finishFailureLocked(err)
		trace(&c.sharedStateBase, eventRejected)
	} else {
		c.finishValueLocked(res)
		trace(&c.sharedStateBase, eventFulfilled)
	}
	c.propagateLocked()
}
