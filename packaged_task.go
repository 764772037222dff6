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

// PackagedTask wraps a function together with the Promise its result gets
// delivered to, so a caller can hand the task itself to a worker pool or a
// goroutine and separately hold on to the Future.
type PackagedTask[Arg, Result any] struct {
	fn      func(Arg) (Result, error)
	promise Promise[Result]
}

// NewPackagedTask builds a PackagedTask around fn, with a fresh Promise.
func NewPackagedTask[Arg, Result any](fn func(Arg) (Result, error), opts ...PromiseOption) PackagedTask[Arg, Result] {
	return PackagedTask[Arg, Result]{fn: fn, promise: NewPromise[Result](opts...)}
}

// GetFuture extracts the Future paired with this task's Promise. See
// Promise.ExtractFuture for the error cases.
func (t *PackagedTask[Arg, Result]) GetFuture() (Future[Result], error) {
	return t.promise.ExtractFuture()
}

// Run calls the wrapped function with arg and fulfills the task's Promise
// with its result. A panic inside fn is captured into a *CapturedPanicError
// and delivered as the chain's failure, same as a continuation's panic.
func (t *PackagedTask[Arg, Result]) Run(arg Arg) {
	res, err := invokeSafely(t.fn, arg)
	if err != nil {
		_ = t.promise.FulfillErr(err)
		return
	}
	_ = t.promise.Fulfill(res)
}
