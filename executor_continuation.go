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

// executorContinuationState is the stage ThenExecutor builds: like
// continuationState, but instead of running the user function on whichever
// goroutine observes the upstream result, it hands the work to an Executor
// and only records the result once that Executor actually runs it.
type executorContinuationState[P, T any] struct {
	sharedState[T]

	parent     *sharedState[P]
	parentSelf stage
	tag        DispatchTag
	ex         Executor
	fn         func(P) (T, error)
}

func newExecutorContinuationState[P, T any](parent *sharedState[P], tag DispatchTag, ex Executor, alloc Allocator, fn func(P) (T, error)) *executorContinuationState[P, T] {
	var c *executorContinuationState[P, T]
	if alloc != nil {
		if v := alloc.Get(); v != nil {
			if reused, ok := v.(*executorContinuationState[P, T]); ok {
				*reused = executorContinuationState[P, T]{}
				c = reused
			}
		}
	}
	if c == nil {
		c = &executorContinuationState[P, T]{}
	}

	c.sharedState = sharedState[T]{sharedStateBase: linkedSharedStateBase(&parent.sharedStateBase)}
	c.parent = parent
	c.parentSelf = parent.self
	c.tag = tag
	c.ex = ex
	c.fn = fn
	c.self = c
	return c
}

// onResultReady withdraws the upstream value and hands the continuation off
// to the Executor. It must release the stage-mutex before calling into the
// Executor: Dispatch is allowed to run its closure inline, on this very
// goroutine, and that closure (complete) needs to reacquire the same mutex
// this goroutine is currently holding — holding it across the call would
// self-deadlock on a non-reentrant sync.Mutex.
func (c *executorContinuationState[P, T]) onResultReady() {
	if c.finished {
		return
	}

	trace(&c.sharedStateBase, eventContinuationStart)

	pval, perr := c.parent.withdrawLocked()
	tag, ex, fn := c.tag, c.ex, c.fn

	c.mu.Unlock()
	submit := func() { c.complete(pval, perr, fn) }
	switch tag {
	case TagDispatch:
		ex.Dispatch(submit)
	case TagPost:
		ex.Post(submit)
	case TagDefer:
		ex.Defer(submit)
	}
	c.mu.Lock()

	trace(&c.sharedStateBase, eventExecutorSubmit)
}

// onResultRequested forwards upstream (so onResultReady above is guaranteed
// to have fired, or is about to), then blocks for the Executor to actually
// run the continuation. Unlike continuationState's PolicyAny/Get handling,
// an executor-adapted continuation never runs its user function on the
// calling goroutine.
func (c *executorContinuationState[P, T]) onResultRequested() {
	c.parentSelf.onResultRequested()
	for !c.finished && !c.deadlineExpired {
		c.cond.Wait()
	}
}

// complete runs the continuation function (if the upstream succeeded) and
// records this stage's result. Called by the Executor, on whatever goroutine
// it chooses to run submit on; acquires the stage-mutex itself since
// onResultReady released it before submitting.
func (c *executorContinuationState[P, T]) complete(pval P, perr error, fn func(P) (T, error)) {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return
	}
	if perr != nil {
		c.finishFailureLocked(perr)
		c.propagateLocked()
		trace(&c.sharedStateBase, eventRejected)
		c.mu.Unlock()
		return
	}

	c.mu.Unlock()
	res, err := invokeSafely(fn, pval)
	c.mu.Lock()

	if c.finished {
		c.mu.Unlock()
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
	c.mu.Unlock()
}
