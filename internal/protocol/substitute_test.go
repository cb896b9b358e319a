package protocol

import "testing"

func TestSubstituteReplacesNestedTokens(t *testing.T) {
	params, err := NewParams(map[string]any{
		"text": "hello {{name}}",
		"to": map[string]any{
			"x": "{{verified_x}}",
			"y": "{{verified_y}}",
		},
		"tags": []any{"{{tag1}}", "static"},
	})
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}

	vars := map[string]string{
		"name":       "elon musk",
		"verified_x": "100",
		"verified_y": "200",
		"tag1":       "urgent",
	}
	resolve := func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}

	out, err := Substitute(params, resolve)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}

	if got := out.String("text"); got != "hello elon musk" {
		t.Errorf("text = %q, want %q", got, "hello elon musk")
	}
	if got, err := out.Int("to.x"); err != nil || got != 100 {
		t.Errorf("to.x = %v (%v), want 100", got, err)
	}
	if got, err := out.Int("to.y"); err != nil || got != 200 {
		t.Errorf("to.y = %v (%v), want 200", got, err)
	}
	tags := out.StringSlice("tags")
	if len(tags) != 2 || tags[0] != "urgent" || tags[1] != "static" {
		t.Errorf("tags = %v, want [urgent static]", tags)
	}

	// Original params must be untouched.
	if params.String("text") != "hello {{name}}" {
		t.Errorf("Substitute mutated the source params")
	}
}

func TestSubstituteLeavesUnknownTokenIntact(t *testing.T) {
	params, _ := NewParams(map[string]any{"key": "{{missing}}"})
	out, err := Substitute(params, func(string) (string, bool) { return "", false })
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got := out.String("key"); got != "{{missing}}" {
		t.Errorf("key = %q, want token left intact", got)
	}
}

func TestTokensExtractsDistinctNames(t *testing.T) {
	got := Tokens("{{a}} and {{b}} and {{a}} again")
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokens = %v, want %v", got, want)
		}
	}
}

func TestProtocolTotalWaitMsIncludesMacroBody(t *testing.T) {
	macroParams, _ := NewParams(map[string]any{})
	outerParams, _ := NewParams(map[string]any{"name": "search"})

	p := &Protocol{
		Version: "1.0",
		Macros: map[string]Macro{
			"search": {
				Actions: []Action{
					{Name: "shortcut", Params: macroParams, WaitAfterMs: 10},
					{Name: "press_key", Params: macroParams, WaitAfterMs: 20},
				},
			},
		},
		Actions: []Action{
			{Name: "macro", Params: outerParams, WaitAfterMs: 5},
		},
	}

	if got := p.TotalWaitMs(); got != 35 {
		t.Errorf("TotalWaitMs = %d, want 35", got)
	}
}
