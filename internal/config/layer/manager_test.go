package layer

import "testing"

func TestManager_AddLayerSortsByPriority(t *testing.T) {
	m := NewManager()

	m.AddLayer(NewLayer("defaults", SourceBuiltin, PriorityBuiltin))
	m.AddLayer(NewLayer("user-settings", SourceUserGlobal, PriorityUserGlobal))
	m.AddLayer(NewLayer("project", SourceWorkspace, PriorityWorkspace))

	merged := m.Merge()
	if merged == nil {
		t.Fatal("expected a merged result even with empty layer data")
	}
	if m.GetLayer("defaults") == nil || m.GetLayer("user-settings") == nil || m.GetLayer("project") == nil {
		t.Fatal("all three added layers should be retrievable by name")
	}
}

func TestManager_RemoveLayer(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayer("defaults", SourceBuiltin, PriorityBuiltin))
	m.AddLayer(NewLayer("user-settings", SourceUserGlobal, PriorityUserGlobal))

	if !m.RemoveLayer("defaults") {
		t.Error("RemoveLayer should return true for an existing layer")
	}
	if m.GetLayer("defaults") != nil {
		t.Error("removed layer should no longer be retrievable")
	}
	if m.RemoveLayer("nonexistent") {
		t.Error("RemoveLayer should return false for a layer that was never added")
	}
}

func TestManager_GetLayer(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayer("project", SourceWorkspace, PriorityWorkspace))

	l := m.GetLayer("project")
	if l == nil || l.Name != "project" {
		t.Fatalf("GetLayer(project) = %v, want the project layer", l)
	}
	if m.GetLayer("nonexistent") != nil {
		t.Error("GetLayer should return nil for an unknown name")
	}
}

func TestManager_MergeAppliesProjectOverUser(t *testing.T) {
	m := NewManager()

	m.AddLayer(NewLayerWithData("defaults", SourceBuiltin, PriorityBuiltin, map[string]any{
		"vision": map[string]any{
			"timeoutMs": 5000,
			"backend":   "gpt-4-vision",
		},
		"screen": map[string]any{"width": 1920},
	}))
	m.AddLayer(NewLayerWithData("user-settings", SourceUserGlobal, PriorityUserGlobal, map[string]any{
		"vision": map[string]any{"timeoutMs": 8000},
	}))
	m.AddLayer(NewLayerWithData("project", SourceWorkspace, PriorityWorkspace, map[string]any{
		"vision": map[string]any{"timeoutMs": 12000},
	}))

	merged := m.Merge()
	vision := merged["vision"].(map[string]any)

	if vision["timeoutMs"] != 12000 {
		t.Errorf("vision.timeoutMs = %v, want 12000 (project wins over user and defaults)", vision["timeoutMs"])
	}
	if vision["backend"] != "gpt-4-vision" {
		t.Errorf("vision.backend = %v, want the default to survive an untouched key", vision["backend"])
	}
	if merged["screen"].(map[string]any)["width"] != 1920 {
		t.Error("an untouched top-level section should still come through from defaults")
	}
}

func TestManager_MergeCachesUntilInvalidated(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceBuiltin, PriorityBuiltin, map[string]any{"timeoutMs": 1}))

	merged1 := m.Merge()
	merged1["timeoutMs"] = 999

	merged2 := m.Merge()
	if merged2["timeoutMs"] != 1 {
		t.Error("mutating a returned merge result should not leak into the cache")
	}

	m.GetLayer("defaults").Data["timeoutMs"] = 2
	m.Invalidate()

	merged3 := m.Merge()
	if merged3["timeoutMs"] != 2 {
		t.Errorf("timeoutMs = %v after Invalidate, want 2", merged3["timeoutMs"])
	}
}

func TestManager_EnvLayerOutranksProject(t *testing.T) {
	m := NewManager()
	m.AddLayer(NewLayerWithData("defaults", SourceBuiltin, PriorityBuiltin, map[string]any{"timeoutMs": 1}))
	m.AddLayer(NewLayerWithData("project", SourceWorkspace, PriorityWorkspace, map[string]any{"timeoutMs": 2}))
	m.AddLayer(NewLayerWithData("environment", SourceEnv, PriorityEnv, map[string]any{"timeoutMs": 3}))

	merged := m.Merge()
	if merged["timeoutMs"] != 3 {
		t.Errorf("timeoutMs = %v, want 3 (environment outranks every file-backed layer)", merged["timeoutMs"])
	}

	m.RemoveLayer("environment")
	merged = m.Merge()
	if merged["timeoutMs"] != 2 {
		t.Errorf("timeoutMs = %v after removing environment, want 2 (project)", merged["timeoutMs"])
	}
}
