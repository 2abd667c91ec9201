package main

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWithPanicGuardRecovers(t *testing.T) {
	var called atomic.Bool
	withPanicGuard("test.guard", func(any) {
		called.Store(true)
	}, func() {
		panic("boom")
	})
	if !called.Load() {
		t.Fatalf("panic callback was not called")
	}
}

func TestWithPanicGuardNoPanic(t *testing.T) {
	var called atomic.Bool
	withPanicGuard("test.guard.no_panic", func(any) {
		called.Store(true)
	}, func() {})
	if called.Load() {
		t.Fatalf("panic callback should not be called")
	}
}

func TestSafeGoRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	safeGo("test.safe_go.panic", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("safeGo goroutine did not finish")
	}
}

func TestSafeGoRunsNormal(t *testing.T) {
	done := make(chan struct{})
	safeGo("test.safe_go.ok", func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("safeGo goroutine did not run")
	}
}

func TestAppSafeGoNilReceiver(t *testing.T) {
	var a *deskgifApp
	done := make(chan struct{})
	a.safeGo("test.app.safe_go.nil", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("nil-receiver safeGo did not run")
	}
}

func TestHandleRecoveredPanicWithoutApp(t *testing.T) {
	a := &deskgifApp{}
	a.handleRecoveredPanic("test.scope", "boom")
	called := false
	a.panicNoticeOnce.Do(func() { called = true })
	if !called {
		t.Fatalf("notice should not be consumed when no app is running")
	}
}
