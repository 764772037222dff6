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

// Package future provides a one-shot producer/consumer channel, Promise[T]
// and Future[T], with continuation chaining whose scheduling point the
// caller picks.
//
// A built-in single-shot future forces its continuation to run on one fixed
// side of the producer/consumer handoff. Here, a continuation attached
// through Then picks one of three placement policies:
//
//   - PolicyAny: runs on whichever side fires first, the fulfilling
//     goroutine or the withdrawing one.
//   - PolicySet: runs eagerly, on the goroutine that fulfills the upstream
//     stage.
//   - PolicyGet: runs lazily, on the goroutine that withdraws the
//     downstream value.
//
// A continuation may also be handed to an external Executor, through
// ThenExecutor, to run off whichever goroutine fulfilled the upstream stage.
//
// Every stage in a chain shares one mutex, owned by the root stage created
// by NewPromise. A Future[T] is single-use: withdrawing its value (Get) or
// chaining off it (Then/ThenExecutor) consumes the handle. A Promise[T] is
// single-use too: a second ExtractFuture fails, a second Fulfill fails, and
// a Promise dropped (via Discard) after a Future has been extracted, but
// before it was fulfilled, reports ErrBrokenPromise to that Future.
package future
