package report

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mlihgenel/trimview-cli/internal/trim"
)

func TestNormalizeRunFormat(t *testing.T) {
	if got := NormalizeRunFormat(""); got != RunOff {
		t.Fatalf("expected off, got %s", got)
	}
	if got := NormalizeRunFormat("JSON"); got != RunJSON {
		t.Fatalf("expected json, got %s", got)
	}
	if got := NormalizeRunFormat("bad"); got != "" {
		t.Fatalf("expected empty for invalid report format, got %s", got)
	}
}

func TestRenderRunTXT(t *testing.T) {
	run := Run{
		Params:    trim.Params{Start: 1, End: 3, InputPath: "a.mp4", OutputPath: "a_edited.mp4", CopyVideo: true},
		Outcome:   trim.Outcome{OutputPath: "a_edited (1).mp4"},
		StartedAt: time.Unix(0, 0),
		EndedAt:   time.Unix(2, 0),
	}

	out, err := RenderRun(RunTXT, run)
	if err != nil {
		t.Fatalf("RenderRun failed: %v", err)
	}
	if !strings.Contains(out, "Trim Report") {
		t.Fatalf("missing report header")
	}
	if !strings.Contains(out, "[success] a.mp4 -> a_edited (1).mp4") {
		t.Fatalf("missing success line:\n%s", out)
	}
	if !strings.Contains(out, "Tracks:   video") {
		t.Fatalf("missing track list:\n%s", out)
	}
}

func TestRenderRunJSON(t *testing.T) {
	run := Run{
		Params:    trim.Params{Start: 0, End: 5, InputPath: "x.mkv", OutputPath: "y.mkv"},
		Err:       errors.New("boom"),
		StartedAt: time.Unix(0, 0),
		EndedAt:   time.Unix(1, 0),
	}

	out, err := RenderRun(RunJSON, run)
	if err != nil {
		t.Fatalf("RenderRun failed: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["status"] != "failed" || payload["error"] != "boom" || payload["output"] != "y.mkv" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload["duration_ms"] != float64(1000) {
		t.Fatalf("unexpected duration: %v", payload["duration_ms"])
	}
}

func TestRenderRunOff(t *testing.T) {
	out, err := RenderRun("off", Run{})
	if err != nil || out != "" {
		t.Fatalf("off format must render nothing")
	}
	if _, err := RenderRun("xml", Run{}); err == nil {
		t.Fatalf("expected invalid format error")
	}
}
