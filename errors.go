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
	"errors"
	"fmt"
)

var (
	// ErrNoState is returned when a method is called on a zero-value
	// Promise or Future, one built without going through NewPromise.
	ErrNoState = errors.New("future: no state")

	// ErrFutureAlreadyRetrieved is returned by a second ExtractFuture call
	// on the same Promise.
	ErrFutureAlreadyRetrieved = errors.New("future: future already retrieved")

	// ErrPromiseAlreadySatisfied is returned by a second Fulfill or
	// FulfillErr call on the same Promise.
	ErrPromiseAlreadySatisfied = errors.New("future: promise already satisfied")

	// ErrBrokenPromise is the failure recorded on a stage whose Promise was
	// discarded, through Discard, after a Future had been extracted but
	// before the stage was ever fulfilled.
	ErrBrokenPromise = errors.New("future: broken promise")

	// ErrFutureConsumed is returned by Get when the Future was already
	// consumed, by an earlier Get or by Then/ThenExecutor.
	ErrFutureConsumed = errors.New("future: future already consumed")
)

// CapturedPanicError wraps a value recovered from a panic raised by a
// continuation function. It is recorded as the stage's failure exactly like
// any other user-function failure, surfacing at the first downstream Get.
type CapturedPanicError struct {
	v any
}

func newCapturedPanicError(v any) *CapturedPanicError {
	return &CapturedPanicError{v: v}
}

func (e *CapturedPanicError) Error() string {
	return fmt.Sprintf("future: captured panic in continuation: %v", e.v)
}

// Value returns the value passed to the panic call that this error wraps.
func (e *CapturedPanicError) Value() any {
	return e.v
}
