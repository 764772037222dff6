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

//go:build future_debug

package future

import (
	"sync"

	"github.com/google/uuid"
)

// stageEvent identifies a point in a stage's lifecycle a trace hook may
// observe. The set mirrors the lifecycle debug.go's debugEvent enumerated for
// the promise state machine, adapted to the stage/continuation shape here.
type stageEvent int

const (
	eventFulfilled stageEvent = iota
	eventRejected
	eventContinuationStart
	eventPropagate
	eventExecutorSubmit
)

func (e stageEvent) String() string {
	switch e {
	case eventFulfilled:
		return "fulfilled"
	case eventRejected:
		return "rejected"
	case eventContinuationStart:
		return "continuation-start"
	case eventPropagate:
		return "propagate"
	case eventExecutorSubmit:
		return "executor-submit"
	default:
		return "unknown"
	}
}

// TraceFunc is called for every stageEvent observed by any chain, when a
// trace function has been installed with SetTraceFunc and the stage was
// built with WithTraceID. id is that chain's trace ID; stages of a chain
// whose root Promise was created without that option are never reported.
type TraceFunc func(id [16]byte, event string)

var (
	traceMu sync.Mutex
	traceFn TraceFunc
)

// SetTraceFunc installs the package-wide trace hook, replacing any
// previously installed one. Passing nil disables tracing. Safe to call
// concurrently with chains in flight: the hook is read once per event.
func SetTraceFunc(fn TraceFunc) {
	traceMu.Lock()
	defer traceMu.Unlock()
	traceFn = fn
}

// trace reports event for the stage owning base, if a hook is installed and
// the chain opted into tracing via WithTraceID. Called from every stage
// transition (continuation.go, executor_continuation.go, promise.go).
func trace(base *sharedStateBase, event stageEvent) {
	traceMu.Lock()
	fn := traceFn
	traceMu.Unlock()
	if fn == nil || base.traceID == uuid.Nil {
		return
	}
	fn(base.traceID, event.String())
}
