package script

import "testing"

func TestParseFunscript(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"range": 90,
		"metadata": {"title": "demo", "duration": 60000},
		"actions": [{"at": 0, "pos": 0}, {"at": 1000, "pos": 100}]
	}`)

	fs, err := ParseFunscript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fs.Version != "1.0" {
		t.Errorf("expected version '1.0', got '%s'", fs.Version)
	}
	if fs.Range != 90 {
		t.Errorf("expected range 90, got %d", fs.Range)
	}
	if fs.Metadata == nil || fs.Metadata.Title != "demo" {
		t.Errorf("unexpected metadata: %+v", fs.Metadata)
	}
	if len(fs.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(fs.Actions))
	}
	if fs.Actions[1].At != 1000 || fs.Actions[1].Pos != 100 {
		t.Errorf("unexpected action: %+v", fs.Actions[1])
	}
}

func TestParseFunscriptRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `{{`},
		{"actions not array", `{"actions": "nope"}`},
		{"missing actions", `{"version": "1.0"}`},
		{"non-numeric at", `{"actions": [{"at": "soon", "pos": 10}]}`},
		{"non-numeric pos", `{"actions": [{"at": 10, "pos": "high"}]}`},
		{"negative at", `{"actions": [{"at": -5, "pos": 10}]}`},
	}

	for _, tc := range cases {
		if _, err := ParseFunscript([]byte(tc.data)); err == nil {
			t.Errorf("%s: expected parse error", tc.name)
		}
	}
}

func TestParseFunscriptAllowsEmptyActions(t *testing.T) {
	fs, err := ParseFunscript([]byte(`{"actions": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.Actions) != 0 {
		t.Errorf("expected no actions, got %d", len(fs.Actions))
	}
}
