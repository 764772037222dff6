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

// Policy selects which of a stage's two events, result-ready (the upstream
// stage became fulfilled) or result-requested (a downstream consumer asked
// for the value), drives the continuation function.
type Policy int

const (
	// PolicyAny runs the continuation on whichever event, result-ready or
	// result-requested, is observed first. The other becomes a no-op for
	// that stage. This is the default policy for Then.
	PolicyAny Policy = iota

	// PolicyGet runs the continuation lazily: only when a downstream
	// consumer withdraws the value, forwarding the request upstream first.
	// Cheap on the producer; the work happens on the reader.
	PolicyGet

	// PolicySet runs the continuation eagerly: as soon as the upstream
	// stage is fulfilled, on the fulfilling goroutine. Cheap to push work
	// onto producers.
	PolicySet
)

func (p Policy) String() string {
	switch p {
	case PolicyAny:
		return "any"
	case PolicyGet:
		return "get"
	case PolicySet:
		return "set"
	default:
		return "unknown"
	}
}
