package backend

import "testing"

func TestBezier2Endpoints(t *testing.T) {
	if got := bezier2(0, 50, 100, 0); got != 0 {
		t.Errorf("t=0: got %v, want 0", got)
	}
	if got := bezier2(0, 50, 100, 1); got != 100 {
		t.Errorf("t=1: got %v, want 100", got)
	}
}

func TestBezier2Midpoint(t *testing.T) {
	got := bezier2(0, 100, 0, 0.5)
	if got != 50 {
		t.Errorf("quadratic through (0,100,0) at t=0.5: got %v, want 50", got)
	}
}

func TestXdotoolButtonMapping(t *testing.T) {
	cases := map[string]string{"left": "1", "right": "3", "middle": "2", "": "1"}
	for in, want := range cases {
		if got := xdotoolButton(in); got != want {
			t.Errorf("xdotoolButton(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestXdotoolKeyAliases(t *testing.T) {
	cases := map[string]string{
		"enter": "Return", "esc": "Escape", "a": "a", "tab": "Tab",
	}
	for in, want := range cases {
		if got := xdotoolKey(in); got != want {
			t.Errorf("xdotoolKey(%q) = %q, want %q", in, got, want)
		}
	}
}
