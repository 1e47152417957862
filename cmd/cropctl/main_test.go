package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantAction string
		wantRule   string
		wantStage  string
	}{
		{
			"pest pressure",
			[]string{"--crop", "Tomato", "--pest", "high", "--days", "42"},
			"pesticide", "pest_or_poor_health", "vegetative",
		},
		{
			"flowering",
			[]string{"--crop", "Maize", "--days", "60"},
			"fertilize", "flowering_nutrients", "flowering",
		},
		{
			"hot and clear",
			[]string{"--crop", "Rice", "--days", "20", "--temperature", "36", "--forecast", "clear sky"},
			"irrigate", "hot_dry_weather", "vegetative",
		},
		{
			"rain ahead",
			[]string{"--crop", "Rice", "--days", "5", "--forecast", "light rain"},
			"no_action", "rain_forecast", "seedling",
		},
		{
			"explicit stage",
			[]string{"--crop", "Wheat", "--days", "5", "--stage", "Flowering"},
			"fertilize", "flowering_nutrients", "flowering",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"recommend"}, tt.args...)...)
			if err != nil {
				t.Fatalf("recommend: %v", err)
			}

			var got map[string]any
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("decode output: %v\n%s", err, out)
			}

			if got["action"] != tt.wantAction {
				t.Errorf("action = %v, want %s", got["action"], tt.wantAction)
			}
			if got["rule"] != tt.wantRule {
				t.Errorf("rule = %v, want %s", got["rule"], tt.wantRule)
			}
			if got["growth_stage"] != tt.wantStage {
				t.Errorf("growth_stage = %v, want %s", got["growth_stage"], tt.wantStage)
			}
			if got["source"] != "rule_based" {
				t.Errorf("source = %v, want rule_based", got["source"])
			}
			if _, ok := got["instructions"].(map[string]any); !ok {
				t.Errorf("instructions = %v", got["instructions"])
			}
		})
	}
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing crop", []string{"recommend", "--days", "10"}},
		{"negative days", []string{"recommend", "--crop", "Tomato", "--days", "-1"}},
		{"missing model", []string{"recommend", "--crop", "Tomato", "--model", filepath.Join(t.TempDir(), "absent.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestModelInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	artifact := `{
		"name": "field-forest",
		"version": "7",
		"kind": "softmax",
		"labels": [1, 3],
		"weights": [[1], [0]],
		"intercepts": [0, 0]
	}`
	if err := os.WriteFile(path, []byte(artifact), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	out, err := execute(t, "model", "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var got modelSummary
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if got.Name != "field-forest" || got.Version != "7" || got.Classes != 2 || got.Scaled {
		t.Errorf("summary = %+v", got)
	}
	if len(got.Actions) != 2 || got.Actions[0] != "irrigate" || got.Actions[1] != "pesticide" {
		t.Errorf("actions = %v", got.Actions)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"kind": "svm"}`), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	if _, err := execute(t, "model", "inspect", bad); err == nil {
		t.Error("expected error for invalid artifact")
	}
}

func TestPatternsExportRejectsFilters(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"stage", []string{"--stage", "sprouting"}},
		{"action", []string{"--action", "spray"}},
		{"since", []string{"--since", "last-week"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"patterns", "export"}, tt.args...)
			if _, err := execute(t, args...); err == nil {
				t.Error("expected invalid filter error")
			}
		})
	}
}
