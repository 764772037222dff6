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

// UseFuture adapts an old-style callback-based API — one that wants a
// func(T, error) to call when it's done — into one that hands back a
// Future[T] instead. It plays the role of daily::use_future_t /
// daily::promise_handler: build one with NewUseFuture, pass Complete to the
// callback-based API as its completion handler, and use GetFuture to obtain
// the Future to wait on.
type UseFuture[T any] struct {
	promise Promise[T]
}

// NewUseFuture builds a UseFuture, with a fresh Promise backing it. opts are
// forwarded to NewPromise, so WithAllocator recycles the same way it would
// for a Promise built directly.
func NewUseFuture[T any](opts ...PromiseOption) UseFuture[T] {
	return UseFuture[T]{promise: NewPromise[T](opts...)}
}

// GetFuture extracts the Future this handler will fulfill once Complete is
// called. See Promise.ExtractFuture for the error cases.
func (u *UseFuture[T]) GetFuture() (Future[T], error) {
	return u.promise.ExtractFuture()
}

// Complete is the func(T, error) to hand to a callback-based API as its
// completion handler. It fulfills the paired Future with val if err is nil,
// or with err otherwise.
func (u *UseFuture[T]) Complete(val T, err error) {
	if err != nil {
		_ = u.promise.FulfillErr(err)
		return
	}
	_ = u.promise.Fulfill(val)
}
