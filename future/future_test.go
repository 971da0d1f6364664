package future_test

import (
	"errors"
	"testing"

	"github.com/weos-rt/weos/config"
	"github.com/weos-rt/weos/future"
	"github.com/weos-rt/weos/rtos/simrtos"
)

// TestPromiseSetValueThenGet Requires: promise.set_value(v);
// future.get() == v (spec.md §8 property 7).
func TestPromiseSetValueThenGet(t *testing.T) {
	p := simrtos.New(config.Default(), nil)
	prom := future.NewPromise[int](p)
	defer prom.Close()
	fut, err := prom.Future()
	if err != nil {
		t.Fatalf("Future: %v", err)
	}
	if err := prom.SetValue(7); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	v, err := fut.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 7 {
		t.Fatalf("Get() = %d, want 7", v)
	}
}

// TestPromiseSetExceptionRethrows Requires: promise.set_exception(e);
// future.get() rethrows e.
func TestPromiseSetExceptionRethrows(t *testing.T) {
	p := simrtos.New(config.Default(), nil)
	prom := future.NewPromise[int](p)
	defer prom.Close()
	fut, _ := prom.Future()
	wantErr := errors.New("boom")
	if err := prom.SetException(wantErr); err != nil {
		t.Fatalf("SetException: %v", err)
	}
	if _, err := fut.Get(); !errors.Is(err, wantErr) {
		t.Fatalf("Get() err = %v, want %v", err, wantErr)
	}
}

// TestSetValueTwiceFails Requires: calling set_value twice throws
// promise_already_satisfied.
func TestSetValueTwiceFails(t *testing.T) {
	p := simrtos.New(config.Default(), nil)
	prom := future.NewPromise[int](p)
	defer prom.Close()
	if _, err := prom.Future(); err != nil {
		t.Fatalf("Future: %v", err)
	}
	if err := prom.SetValue(1); err != nil {
		t.Fatalf("first SetValue: %v", err)
	}
	if err := prom.SetValue(2); err == nil {
		t.Fatalf("second SetValue should have failed")
	}
}

// TestBrokenPromise Requires: destroying an unsatisfied promise while a
// future is live causes future.get() to throw broken_promise (spec.md §8
// property 7).
func TestBrokenPromise(t *testing.T) {
	p := simrtos.New(config.Default(), nil)
	prom := future.NewPromise[int](p)
	fut, err := prom.Future()
	if err != nil {
		t.Fatalf("Future: %v", err)
	}
	prom.Close()
	if _, err := fut.Get(); err == nil {
		t.Fatalf("Get() on a broken promise should have failed")
	}
}

// TestAsyncSquare Requires: async([](){ return 7*7; }).get() returns 49,
// and a panicking task body surfaces as an error from Get (spec.md §8
// scenario S4).
func TestAsyncSquare(t *testing.T) {
	p := simrtos.New(config.Default(), nil)
	fut, err := future.Async(p, func() (int, error) { return 7 * 7, nil })
	if err != nil {
		t.Fatalf("Async: %v", err)
	}
	v, err := fut.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 49 {
		t.Fatalf("Get() = %d, want 49", v)
	}

	fut2, err := future.Async(p, func() (int, error) { panic("MyError") })
	if err != nil {
		t.Fatalf("Async: %v", err)
	}
	if _, err := fut2.Get(); err == nil {
		t.Fatalf("Get() on a panicking task should have returned an error")
	}
}

// TestMakeExceptionalFuture Requires: the returned future is immediately
// ready and Get rethrows the supplied error.
func TestMakeExceptionalFuture(t *testing.T) {
	p := simrtos.New(config.Default(), nil)
	wantErr := errors.New("precomputed failure")
	fut, err := future.MakeExceptionalFuture[string](p, wantErr)
	if err != nil {
		t.Fatalf("MakeExceptionalFuture: %v", err)
	}
	if _, err := fut.Get(); !errors.Is(err, wantErr) {
		t.Fatalf("Get() err = %v, want %v", err, wantErr)
	}
}
