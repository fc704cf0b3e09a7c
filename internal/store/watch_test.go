package store

import (
	"testing"
	"time"
)

func signalled(sub *subscription) bool {
	select {
	case <-sub.signal:
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestTracker_NotifyReachesSubscriber(t *testing.T) {
	tr := newTracker()
	sub := tr.register("alarms")
	defer tr.unregister(sub)

	tr.notify("alarms")
	if !signalled(sub) {
		t.Error("expected signal")
	}
}

func TestTracker_TableIsolation(t *testing.T) {
	tr := newTracker()
	alarms := tr.register("alarms")
	records := tr.register("wakeup_records")
	defer tr.unregister(alarms)
	defer tr.unregister(records)

	tr.notify("alarms")
	if !signalled(alarms) {
		t.Error("alarms subscriber missed its signal")
	}
	if signalled(records) {
		t.Error("records subscriber signalled by alarms write")
	}
}

func TestTracker_CoalescesBursts(t *testing.T) {
	tr := newTracker()
	sub := tr.register("alarms")
	defer tr.unregister(sub)

	for i := 0; i < 10; i++ {
		tr.notify("alarms")
	}

	// A burst with no intervening drain collapses to one pending signal.
	if !signalled(sub) {
		t.Fatal("expected one pending signal")
	}
	if signalled(sub) {
		t.Error("burst left more than one pending signal")
	}
}

func TestTracker_MultiTableSubscriptionSignalsOnce(t *testing.T) {
	tr := newTracker()
	sub := tr.register("alarms", "wakeup_records", "app_settings")
	defer tr.unregister(sub)

	// One commit touching all three watched tables is one invalidation.
	tr.notify("alarms", "wakeup_records", "app_settings")
	if !signalled(sub) {
		t.Fatal("expected signal")
	}
	if signalled(sub) {
		t.Error("one notify produced more than one signal")
	}
}

func TestTracker_UnregisterStopsDelivery(t *testing.T) {
	tr := newTracker()
	sub := tr.register("alarms")
	tr.unregister(sub)

	tr.notify("alarms")
	if signalled(sub) {
		t.Error("unregistered subscription still signalled")
	}

	// The registration map must not leak empty table entries.
	tr.mu.Lock()
	n := len(tr.subs)
	tr.mu.Unlock()
	if n != 0 {
		t.Errorf("expected empty registration map, got %d entries", n)
	}
}

func TestTracker_NotifyUnwatchedTableIsNoOp(t *testing.T) {
	tr := newTracker()
	tr.notify("alarms")
}
