package layer

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{
			name:     "nil dst",
			dst:      nil,
			src:      map[string]any{"timeoutMs": 1},
			expected: map[string]any{"timeoutMs": 1},
		},
		{
			name:     "nil src",
			dst:      map[string]any{"timeoutMs": 1},
			src:      nil,
			expected: map[string]any{"timeoutMs": 1},
		},
		{
			name:     "no overlap",
			dst:      map[string]any{"vision": "gpt-4-vision"},
			src:      map[string]any{"screen": 1920},
			expected: map[string]any{"vision": "gpt-4-vision", "screen": 1920},
		},
		{
			name:     "src overrides dst scalar",
			dst:      map[string]any{"timeoutMs": 5000},
			src:      map[string]any{"timeoutMs": 8000},
			expected: map[string]any{"timeoutMs": 8000},
		},
		{
			name: "nested keys merge",
			dst: map[string]any{
				"vision": map[string]any{"timeoutMs": 5000},
			},
			src: map[string]any{
				"vision": map[string]any{"backend": "gpt-4-vision"},
			},
			expected: map[string]any{
				"vision": map[string]any{"timeoutMs": 5000, "backend": "gpt-4-vision"},
			},
		},
		{
			name: "nested override",
			dst: map[string]any{
				"vision": map[string]any{"timeoutMs": 5000},
			},
			src: map[string]any{
				"vision": map[string]any{"timeoutMs": 8000},
			},
			expected: map[string]any{
				"vision": map[string]any{"timeoutMs": 8000},
			},
		},
		{
			name: "deep nested merge",
			dst: map[string]any{
				"safety": map[string]any{
					"abort": map[string]any{"enabled": true},
				},
			},
			src: map[string]any{
				"safety": map[string]any{
					"abort": map[string]any{"key": "F12"},
				},
			},
			expected: map[string]any{
				"safety": map[string]any{
					"abort": map[string]any{"enabled": true, "key": "F12"},
				},
			},
		},
		{
			name: "non-map overwrites map",
			dst: map[string]any{
				"value": map[string]any{"a": 1},
			},
			src: map[string]any{
				"value": "string",
			},
			expected: map[string]any{
				"value": "string",
			},
		},
		{
			name: "map overwrites non-map",
			dst: map[string]any{
				"value": "string",
			},
			src: map[string]any{
				"value": map[string]any{"a": 1},
			},
			expected: map[string]any{
				"value": map[string]any{"a": 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DeepMerge(tt.dst, tt.src)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("DeepMerge() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestDeepMerge_DoesNotAliasSourceMaps(t *testing.T) {
	src := map[string]any{"vision": map[string]any{"timeoutMs": 8000}}
	result := DeepMerge(map[string]any{}, src)

	src["vision"].(map[string]any)["timeoutMs"] = 1

	if result["vision"].(map[string]any)["timeoutMs"] != 8000 {
		t.Error("DeepMerge should clone src values, not alias them")
	}
}
