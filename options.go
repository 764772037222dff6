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

import "github.com/google/uuid"

// Allocator recycles the backing storage a Promise's chain allocates for its
// root stage. It has the same shape as sync.Pool (Get returns a zero-value-or
// reused instance, Put returns one for reuse), generalized to an interface so
// callers can plug in a sync.Pool, a custom arena, or nothing at all. Modeled
// on b97tsk-async's Executor.pool, which recycles *Task the same way.
type Allocator interface {
	Get() any
	Put(any)
}

// config collects every option NewPromise, Then, and ThenExecutor accept.
// A single struct backs all three call sites so one WithAllocator can
// recycle a chain's backing storage regardless of whether it is the root
// stage NewPromise builds or a continuation stage Then/ThenExecutor builds;
// each call site reads only the fields it cares about (NewPromise ignores
// policy, Then/ThenExecutor ignore allocator only in the sense that a
// continuation stage is allocated from it rather than NewPromise's root).
type config struct {
	allocator Allocator
	traced    bool
	policy    Policy
}

// Option configures a Promise, or a continuation attached through Then or
// ThenExecutor. PromiseOption and ThenOption are both this same type, under
// different names for the two call sites.
type Option func(*config)

// PromiseOption configures a Promise at construction time.
type PromiseOption = Option

// ThenOption configures a continuation attached through Then or ThenExecutor.
type ThenOption = Option

// WithAllocator has the stage obtain its backing storage from a through Get.
// For NewPromise, Promise.Discard gives the root stage back through Put once
// nothing can still observe it. For Then/ThenExecutor, the continuation
// stage built for that call is obtained through Get, but nothing in this
// package ever gives it back through Put.
func WithAllocator(a Allocator) Option {
	return func(c *config) { c.allocator = a }
}

// WithTraceID has NewPromise assign a random trace ID to the chain's root
// stage, which every stage later linked onto it inherits. Without this
// option a chain's traceID stays the zero uuid.UUID and trace() is a no-op
// for it even if a TraceFunc is installed.
func WithTraceID() Option {
	return func(c *config) { c.traced = true }
}

// WithPolicy picks a continuation's placement policy. The default, when
// Then is called without this option, is PolicyAny. ThenExecutor ignores
// it: its scheduling is picked by its DispatchTag.
func WithPolicy(p Policy) Option {
	return func(c *config) { c.policy = p }
}

func newPromiseConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func newThenConfig(opts []Option) config {
	c := config{policy: PolicyAny}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// newTraceID returns a fresh random trace ID, or the zero uuid.UUID if
// traced is false.
func newTraceID(traced bool) uuid.UUID {
	if !traced {
		return uuid.Nil
	}
	return uuid.New()
}
