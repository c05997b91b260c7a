package client

import (
	"testing"
	"time"

	"github.com/mkovalev/hatparty/pkg/game"
)

func TestNotificationRegisterSync(t *testing.T) {
	nmgr := NewNotificationManager()

	calls := 0
	reg := nmgr.RegisterSync(onTestNtfn(func() { calls++ }))

	nmgr.notifyTest()
	nmgr.notifyTest()
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}

	if !reg.Unregister() {
		t.Fatal("first unregister should report true")
	}
	if reg.Unregister() {
		t.Fatal("second unregister should report false")
	}

	nmgr.notifyTest()
	if calls != 2 {
		t.Fatalf("handler called after unregister, got %d calls", calls)
	}
}

func TestNotificationRegisterAsync(t *testing.T) {
	nmgr := NewNotificationManager()

	done := make(chan struct{})
	nmgr.Register(onTestNtfn(func() { close(done) }))

	nmgr.notifyTest()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("async handler never ran")
	}
}

func TestAnyRegistered(t *testing.T) {
	nmgr := NewNotificationManager()

	probe := OnPhaseChangedNtfn(func(game.Snapshot) {})
	if nmgr.AnyRegistered(probe) {
		t.Fatal("expected no handlers registered")
	}

	reg := nmgr.RegisterSync(probe)
	if !nmgr.AnyRegistered(probe) {
		t.Fatal("expected a registered handler")
	}

	reg.Unregister()
	if nmgr.AnyRegistered(probe) {
		t.Fatal("expected no handlers after unregister")
	}
}

func TestTypedNotificationDelivery(t *testing.T) {
	nmgr := NewNotificationManager()

	var gotWord string
	nmgr.RegisterSync(OnWordRevealedNtfn(func(w string) { gotWord = w }))

	var gotSeconds int
	nmgr.RegisterSync(OnTimerTickNtfn(func(s int) { gotSeconds = s }))

	nmgr.notifyWordRevealed("walrus")
	nmgr.notifyTimerTick(42)

	if gotWord != "walrus" {
		t.Fatalf("expected word walrus, got %q", gotWord)
	}
	if gotSeconds != 42 {
		t.Fatalf("expected 42 seconds, got %d", gotSeconds)
	}
}
