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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBasicFulfilment(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	require.NoError(t, p.Fulfill(42))

	v, err := f.Get()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestAnyPolicyDoublingChain(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	doubled := Then(&f, func(v int) (int, error) {
		return v * 2, nil
	})

	require.NoError(t, p.Fulfill(21))

	v, err := doubled.Get()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestGetPolicyRunsLazilyOnWithdraw(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	var ran int32
	lazy := Then(&f, func(v int) (int, error) {
		atomic.AddInt32(&ran, 1)
		return v + 1, nil
	}, WithPolicy(PolicyGet))

	require.NoError(t, p.Fulfill(1))

	// The upstream is already fulfilled, but a PolicyGet continuation only
	// runs once its own result is requested.
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&ran))

	v, err := lazy.Get()
	require.NoError(t, err)
	require.Equal(t, 2, v)
	require.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestSetPolicyRunsEagerlyOnFulfil(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	var ran int32
	done := make(chan struct{})
	eager := Then(&f, func(v int) (int, error) {
		atomic.AddInt32(&ran, 1)
		close(done)
		return v + 1, nil
	}, WithPolicy(PolicySet))

	require.NoError(t, p.Fulfill(1))
	<-done
	require.Equal(t, int32(1), atomic.LoadInt32(&ran))

	v, err := eager.Get()
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestContinuationFunctionFailurePropagates(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	boom := errors.New("boom")
	next := Then(&f, func(v int) (int, error) {
		return 0, boom
	})

	require.NoError(t, p.Fulfill(1))

	v, err := next.Get()
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, v)
}

func TestUpstreamFailureSkipsContinuation(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	var ran int32
	next := Then(&f, func(v int) (int, error) {
		atomic.AddInt32(&ran, 1)
		return v, nil
	})

	upstreamErr := errors.New("upstream failed")
	require.NoError(t, p.FulfillErr(upstreamErr))

	v, err := next.Get()
	require.ErrorIs(t, err, upstreamErr)
	require.Equal(t, 0, v)
	require.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

func TestBrokenPromiseOnDiscard(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	require.NoError(t, p.Discard())

	_, err = f.Get()
	require.ErrorIs(t, err, ErrBrokenPromise)
}

func TestPanicInContinuationIsCaptured(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	next := Then(&f, func(v int) (int, error) {
		panic("kaboom")
	})

	require.NoError(t, p.Fulfill(1))

	_, err = next.Get()
	require.Error(t, err)

	var panicErr *CapturedPanicError
	require.ErrorAs(t, err, &panicErr)
	require.Equal(t, "kaboom", panicErr.Value())
}

func TestThenExecutorRunsOffExecutor(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	var ex QueueExecutor
	ran := make(chan struct{})

	next := ThenExecutor(&f, TagPost, &ex, func(v int) (int, error) {
		close(ran)
		return v * 10, nil
	})

	require.NoError(t, p.Fulfill(4))

	// The continuation is queued on ex, not run inline; nothing has
	// happened until Run drains it.
	select {
	case <-ran:
		t.Fatal("continuation ran before the executor drained its queue")
	case <-time.After(10 * time.Millisecond):
	}

	ex.Run()
	<-ran

	v, err := next.Get()
	require.NoError(t, err)
	require.Equal(t, 40, v)
}

func TestDoubleFulfillFails(t *testing.T) {
	p := NewPromise[int]()

	require.NoError(t, p.Fulfill(1))
	require.ErrorIs(t, p.Fulfill(2), ErrPromiseAlreadySatisfied)
	require.ErrorIs(t, p.FulfillErr(errors.New("x")), ErrPromiseAlreadySatisfied)
}

func TestDoubleExtractFutureFails(t *testing.T) {
	p := NewPromise[int]()

	_, err := p.ExtractFuture()
	require.NoError(t, err)

	_, err = p.ExtractFuture()
	require.ErrorIs(t, err, ErrFutureAlreadyRetrieved)
}

func TestConsumedFutureFails(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	require.NoError(t, p.Fulfill(1))

	_, err = f.Get()
	require.NoError(t, err)

	_, err = f.Get()
	require.ErrorIs(t, err, ErrFutureConsumed)
}

func TestWaitForTimesOutThenLaterGetSucceeds(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	status, err := f.WaitFor(10 * time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, Timeout, status)

	require.NoError(t, p.Fulfill(7))

	status, err = f.WaitFor(time.Second)
	require.NoError(t, err)
	require.Equal(t, Ready, status)

	v, err := f.Get()
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestPackagedTask(t *testing.T) {
	task := NewPackagedTask(func(v int) (int, error) {
		return v + 100, nil
	})

	f, err := task.GetFuture()
	require.NoError(t, err)

	task.Run(1)

	v, err := f.Get()
	require.NoError(t, err)
	require.Equal(t, 101, v)
}

func TestGetChainGetRunsLazilyAtEachHop(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	var ran1, ran2 int32
	hop1 := Then(&f, func(v int) (int, error) {
		atomic.AddInt32(&ran1, 1)
		return v + 1, nil
	}, WithPolicy(PolicyGet))
	hop2 := Then(&hop1, func(v int) (int, error) {
		atomic.AddInt32(&ran2, 1)
		return v * 10, nil
	}, WithPolicy(PolicyGet))

	require.NoError(t, p.Fulfill(1))

	time.Sleep(10 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&ran1))
	require.Equal(t, int32(0), atomic.LoadInt32(&ran2))

	v, err := hop2.Get()
	require.NoError(t, err)
	require.Equal(t, 20, v)
	require.Equal(t, int32(1), atomic.LoadInt32(&ran1))
	require.Equal(t, int32(1), atomic.LoadInt32(&ran2))
}

func TestSetChainSetRunsEagerlyAtEachHop(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	var ran1, ran2 int32
	done := make(chan struct{})
	hop1 := Then(&f, func(v int) (int, error) {
		atomic.AddInt32(&ran1, 1)
		return v + 1, nil
	}, WithPolicy(PolicySet))
	hop2 := Then(&hop1, func(v int) (int, error) {
		n := atomic.AddInt32(&ran2, 1)
		if n == 1 {
			close(done)
		}
		return v * 10, nil
	}, WithPolicy(PolicySet))

	require.NoError(t, p.Fulfill(1))
	<-done

	require.Equal(t, int32(1), atomic.LoadInt32(&ran1))
	require.Equal(t, int32(1), atomic.LoadInt32(&ran2))

	v, err := hop2.Get()
	require.NoError(t, err)
	require.Equal(t, 20, v)
}

func TestGetThenSetChainRunsBothHopsOnWithdraw(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	var ranGet, ranSet int32
	getHop := Then(&f, func(v int) (int, error) {
		atomic.AddInt32(&ranGet, 1)
		return v + 1, nil
	}, WithPolicy(PolicyGet))
	done := make(chan struct{})
	setHop := Then(&getHop, func(v int) (int, error) {
		atomic.AddInt32(&ranSet, 1)
		close(done)
		return v * 10, nil
	}, WithPolicy(PolicySet))

	require.NoError(t, p.Fulfill(1))
	// getHop's PolicyGet breaks the eager chain: it does not run on Fulfill,
	// so setHop, whose result-ready comes from getHop, does not run either.
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&ranGet))
	require.Equal(t, int32(0), atomic.LoadInt32(&ranSet))

	// Withdrawing setHop forwards the request into getHop, which runs and
	// then drives setHop's result-ready.
	v, err := setHop.Get()
	require.NoError(t, err)
	require.Equal(t, 20, v)
	<-done

	require.Equal(t, int32(1), atomic.LoadInt32(&ranGet))
	require.Equal(t, int32(1), atomic.LoadInt32(&ranSet))
}

func TestSetThenGetChainRunsSetHopEagerlyAndGetHopOnWithdraw(t *testing.T) {
	p := NewPromise[int]()
	f, err := p.ExtractFuture()
	require.NoError(t, err)

	var ranSet, ranGet int32
	setDone := make(chan struct{})
	setHop := Then(&f, func(v int) (int, error) {
		atomic.AddInt32(&ranSet, 1)
		close(setDone)
		return v + 1, nil
	}, WithPolicy(PolicySet))
	getHop := Then(&setHop, func(v int) (int, error) {
		atomic.AddInt32(&ranGet, 1)
		return v * 10, nil
	}, WithPolicy(PolicyGet))

	require.NoError(t, p.Fulfill(1))
	<-setDone

	require.Equal(t, int32(1), atomic.LoadInt32(&ranSet))
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, int32(0), atomic.LoadInt32(&ranGet))

	v, err := getHop.Get()
	require.NoError(t, err)
	require.Equal(t, 20, v)
	require.Equal(t, int32(1), atomic.LoadInt32(&ranGet))
}

func TestUseFutureAdaptsCallback(t *testing.T) {
	uf := NewUseFuture[string]()
	f, err := uf.GetFuture()
	require.NoError(t, err)

	// simulate a callback-based API invoking the completion handler
	go uf.Complete("payload", nil)

	v, err := f.Get()
	require.NoError(t, err)
	require.Equal(t, "payload", v)
}
