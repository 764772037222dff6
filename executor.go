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

import "sync"

// DispatchTag picks how an Executor is asked to run a continuation attached
// through ThenExecutor.
type DispatchTag int

const (
	// TagDispatch asks the Executor to run the closure, possibly inline on
	// the calling goroutine, before Dispatch returns.
	TagDispatch DispatchTag = iota
	// TagPost asks the Executor to run the closure later, never inline.
	TagPost
	// TagDefer asks the Executor to run the closure once the calling
	// goroutine is otherwise idle (e.g. a run-loop's next empty-queue tick).
	TagDefer
)

func (t DispatchTag) String() string {
	switch t {
	case TagDispatch:
		return "dispatch"
	case TagPost:
		return "post"
	case TagDefer:
		return "defer"
	default:
		return "unknown"
	}
}

// Executor is anything that can be asked to run a closure. ThenExecutor hands
// it the continuation body, wrapped so the chain's bookkeeping still happens
// regardless of which goroutine the Executor ultimately runs it on.
//
// An Executor implementation is allowed to run Dispatch's closure inline,
// before Dispatch returns, on the same goroutine that called Dispatch. The
// continuation machinery in executor_continuation.go accounts for that by
// never calling Dispatch/Post/Defer while holding the chain's stage-mutex.
type Executor interface {
	Dispatch(func())
	Post(func())
	Defer(func())
}

// QueueExecutor is a minimal single-threaded Executor: closures submitted
// through any of the three methods are appended to an internal FIFO queue,
// and Run drains it until empty, one closure running at a time. It plays the
// same role as b97tsk-async's Executor, simplified from a priority queue of
// paths down to a single FIFO since continuations carry no path/priority
// concept.
type QueueExecutor struct {
	mu      sync.Mutex
	q       []func()
	running bool
	autorun func()
}

// Autorun installs a function to call automatically whenever a closure is
// submitted and nothing is currently draining the queue. It is called on the
// submitting goroutine, before Dispatch/Post/Defer returns: `e.Autorun(e.Run)`
// drains the queue right there, inline, while
// `e.Autorun(func() { go e.Run() })` drains it on a new goroutine. Leaving it
// unset means the caller must call Run.
func (e *QueueExecutor) Autorun(f func()) {
	e.mu.Lock()
	e.autorun = f
	e.mu.Unlock()
}

// Run drains the queue, running each closure until empty. Must not be called
// concurrently with another in-flight Run on the same QueueExecutor.
func (e *QueueExecutor) Run() {
	e.mu.Lock()
	e.running = true
	for len(e.q) > 0 {
		fn := e.q[0]
		e.q = e.q[1:]
		e.mu.Unlock()
		fn()
		e.mu.Lock()
	}
	e.running = false
	e.mu.Unlock()
}

func (e *QueueExecutor) submit(fn func()) {
	var autorun func()

	e.mu.Lock()
	if !e.running && e.autorun != nil {
		e.running = true
		autorun = e.autorun
	}
	e.q = append(e.q, fn)
	e.mu.Unlock()

	if autorun != nil {
		autorun()
	}
}

// Dispatch queues fn for the next Run. Without Autorun, QueueExecutor never
// runs a submission inline; with an Autorun function that calls Run directly,
// every submission (through Post and Defer too) runs inline.
func (e *QueueExecutor) Dispatch(fn func()) { e.submit(fn) }

// Post queues fn for the next Run.
func (e *QueueExecutor) Post(fn func()) { e.submit(fn) }

// Defer queues fn for the next Run.
func (e *QueueExecutor) Defer(fn func()) { e.submit(fn) }
