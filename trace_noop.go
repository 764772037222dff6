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

//go:build !future_debug

package future

// stageEvent identifies a point in a stage's lifecycle a trace hook may
// observe. Declared here too, under the default build, so every call site
// (continuation.go, executor_continuation.go, promise.go) compiles
// regardless of the future_debug tag; the values themselves are never
// inspected without it.
type stageEvent int

const (
	eventFulfilled stageEvent = iota
	eventRejected
	eventContinuationStart
	eventPropagate
	eventExecutorSubmit
)

// TraceFunc is called for every stageEvent observed by any chain, when
// built with the future_debug tag and a hook installed with SetTraceFunc.
// Without that tag, no hook is ever called, even for a chain built with
// WithTraceID, and this type exists only so SetTraceFunc keeps the same
// signature either way.
type TraceFunc func(id [16]byte, event string)

// SetTraceFunc is a no-op without the future_debug build tag.
func SetTraceFunc(fn TraceFunc) {}

// trace is a no-op without the future_debug build tag: the compiler erases
// every call site to nothing, so there is no per-event cost to pay in
// a build that isn't tracing.
func trace(base *sharedStateBase, event stageEvent) {}
