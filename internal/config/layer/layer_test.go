package layer

import "testing"

func TestNewLayer(t *testing.T) {
	l := NewLayer("user-settings", SourceUserGlobal, PriorityUserGlobal)

	if l.Name != "user-settings" {
		t.Errorf("Name = %q, want user-settings", l.Name)
	}
	if l.Source != SourceUserGlobal {
		t.Errorf("Source = %v, want SourceUserGlobal", l.Source)
	}
	if l.Priority != PriorityUserGlobal {
		t.Errorf("Priority = %d, want %d", l.Priority, PriorityUserGlobal)
	}
	if l.Data == nil {
		t.Error("Data should be initialized")
	}
}

func TestNewLayerWithData(t *testing.T) {
	data := map[string]any{
		"vision": map[string]any{
			"timeoutMs": 8000,
		},
	}

	l := NewLayerWithData("project", SourceWorkspace, PriorityWorkspace, data)

	vision, ok := l.Data["vision"].(map[string]any)
	if !ok {
		t.Fatal("vision should be a map")
	}
	if vision["timeoutMs"] != 8000 {
		t.Errorf("timeoutMs = %v, want 8000", vision["timeoutMs"])
	}
}

func TestSource_String(t *testing.T) {
	tests := []struct {
		source   Source
		expected string
	}{
		{SourceBuiltin, "builtin"},
		{SourceUserGlobal, "user"},
		{SourceWorkspace, "project"},
		{SourceEnv, "environment"},
		{Source(255), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.source.String(); got != tt.expected {
			t.Errorf("Source(%d).String() = %q, want %q", tt.source, got, tt.expected)
		}
	}
}

func TestCloneMap_DeepCopiesNestedMapsAndSlices(t *testing.T) {
	original := map[string]any{
		"timeoutMs": 8000,
		"safety": map[string]any{
			"maxConsecutiveFailures": 5,
		},
		"allowedApps": []any{"textedit", "terminal", map[string]any{"name": "chrome"}},
	}

	cloned := cloneMap(original)

	original["timeoutMs"] = 1
	original["safety"].(map[string]any)["maxConsecutiveFailures"] = 99
	original["allowedApps"].([]any)[0] = "x"
	original["allowedApps"].([]any)[2].(map[string]any)["name"] = "changed"

	if cloned["timeoutMs"] != 8000 {
		t.Error("scalar value was not cloned properly")
	}
	if cloned["safety"].(map[string]any)["maxConsecutiveFailures"] != 5 {
		t.Error("nested map was not cloned properly")
	}
	if cloned["allowedApps"].([]any)[0] != "textedit" {
		t.Error("slice element was not cloned properly")
	}
	if cloned["allowedApps"].([]any)[2].(map[string]any)["name"] != "chrome" {
		t.Error("nested map inside slice was not cloned properly")
	}
}

func TestCloneMap_Nil(t *testing.T) {
	if cloneMap(nil) != nil {
		t.Error("cloneMap(nil) should return nil")
	}
}
