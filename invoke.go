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

// invokeSafely runs fn(in), capturing any panic it raises into a
// *CapturedPanicError so the stage-mutex protecting the chain is never left
// unlocked because of an unrecovered panic in user code. Must be called
// without the stage-mutex held: the continuation always runs outside the
// stage-mutex.
func invokeSafely[P, T any](fn func(P) (T, error), in P) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newCapturedPanicError(r)
		}
	}()
	return fn(in)
}
