package notify

import (
	"sync"
	"testing"
)

func TestNotifier_SubscribeReceivesGlobalChanges(t *testing.T) {
	n := New()
	var got Change
	n.Subscribe(func(c Change) { got = c })

	n.NotifySet("vision.timeoutMs", 5000, 8000, "user")

	if got.Path != "vision.timeoutMs" || got.Type != ChangeSet {
		t.Fatalf("global observer got %+v", got)
	}
	if got.OldValue != 5000 || got.NewValue != 8000 {
		t.Errorf("OldValue/NewValue = %v/%v, want 5000/8000", got.OldValue, got.NewValue)
	}
}

func TestNotifier_SubscribePathMatchesExactAndDescendants(t *testing.T) {
	n := New()
	var visionEvents []Change
	n.SubscribePath("vision", func(c Change) { visionEvents = append(visionEvents, c) })

	n.NotifySet("vision.timeoutMs", 5000, 8000, "user")
	n.NotifySet("executor.dryRun", false, true, "user")
	n.NotifySet("vision", nil, "gpt-4-vision", "user")

	if len(visionEvents) != 2 {
		t.Fatalf("vision observer saw %d events, want 2 (descendant + exact match)", len(visionEvents))
	}
}

func TestNotifier_SubscribePathIgnoresSiblingPrefix(t *testing.T) {
	n := New()
	var fired bool
	n.SubscribePath("safety", func(Change) { fired = true })

	n.NotifySet("safetyNet.enabled", false, true, "user")

	if fired {
		t.Error("a \"safetyNet\" path should not match a \"safety\" subscription")
	}
}

func TestNotifier_ReloadReachesEveryObserver(t *testing.T) {
	n := New()
	var globalSeen, scopedSeen bool
	n.Subscribe(func(c Change) {
		if c.Type == ChangeReload {
			globalSeen = true
		}
	})
	n.SubscribePath("screen", func(c Change) {
		if c.Type == ChangeReload {
			scopedSeen = true
		}
	})

	n.NotifyReload("protocol.toml")

	if !globalSeen || !scopedSeen {
		t.Errorf("reload should reach both global and path-scoped observers, got global=%v scoped=%v", globalSeen, scopedSeen)
	}
}

func TestNotifier_NotifyDeleteCarriesOldValue(t *testing.T) {
	n := New()
	var got Change
	n.Subscribe(func(c Change) { got = c })

	n.NotifyDelete("executor.maxRetries", 3, "project")

	if got.Type != ChangeDelete || got.OldValue != 3 {
		t.Errorf("got %+v, want ChangeDelete with OldValue=3", got)
	}
}

func TestSubscription_UnsubscribeStopsDelivery(t *testing.T) {
	n := New()
	var count int
	sub := n.Subscribe(func(Change) { count++ })

	n.NotifySet("vision.timeoutMs", 1, 2, "user")
	sub.Unsubscribe()
	n.NotifySet("vision.timeoutMs", 2, 3, "user")

	if count != 1 {
		t.Errorf("count = %d, want 1 (observer should stop after Unsubscribe)", count)
	}
}

func TestNotifier_UnsubscribePrunesEmptyPathBucket(t *testing.T) {
	n := New()
	sub := n.SubscribePath("vision", func(Change) {})
	sub.Unsubscribe()

	n.mu.RLock()
	_, stillTracked := n.pathObservers["vision"]
	n.mu.RUnlock()

	if stillTracked {
		t.Error("an empty path bucket should be pruned on unsubscribe")
	}
}

func TestNotifier_ConcurrentSubscribeAndNotify(t *testing.T) {
	n := New()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := n.Subscribe(func(Change) {})
			n.NotifySet("vision.timeoutMs", 1, 2, "user")
			sub.Unsubscribe()
		}()
	}
	wg.Wait()
}

func TestChangeType_String(t *testing.T) {
	cases := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeDelete, "delete"},
		{ChangeReload, "reload"},
		{ChangeType(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.ct.String(); got != tc.want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", tc.ct, got, tc.want)
		}
	}
}

func TestIsParentPath(t *testing.T) {
	cases := []struct {
		parent, child string
		want          bool
	}{
		{"vision", "vision.timeoutMs", true},
		{"vision", "vision", false},
		{"vision", "visionBackend.model", false},
		{"", "anything", true},
	}
	for _, tc := range cases {
		if got := isParentPath(tc.parent, tc.child); got != tc.want {
			t.Errorf("isParentPath(%q, %q) = %v, want %v", tc.parent, tc.child, got, tc.want)
		}
	}
}
