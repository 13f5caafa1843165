package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/preview"
	"github.com/mlihgenel/trimview-cli/internal/trim"
)

type fakeProber struct {
	info media.TrackInfo
	err  error
}

func (f *fakeProber) Probe(ctx context.Context, path string) (media.TrackInfo, error) {
	return f.info, f.err
}

// fakeSource seek hedefinden türetilen hash ile 2x2 kare üretir
type fakeSource struct{}

func (fakeSource) DecodeFrame(ctx context.Context, req media.PreviewRequest) (media.PreviewResult, error) {
	hash := uint64(req.SeekMicros) + 1
	if hash == req.PriorContentHash {
		return media.PreviewResult{}, media.ErrUnchanged
	}
	return media.PreviewResult{Pixels: make([]byte, 2*2*4), Width: 2, Height: 2, ContentHash: hash}, nil
}

type fakeRunner struct {
	params trim.Params
	calls  int
}

func (f *fakeRunner) Execute(ctx context.Context, p trim.Params) (trim.Outcome, error) {
	f.calls++
	f.params = p
	return trim.Outcome{OutputPath: p.OutputPath, Elapsed: time.Second}, nil
}

func newTestModel(t *testing.T, info media.TrackInfo) (interactiveModel, *fakeProber, *fakeRunner) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	prober := &fakeProber{info: info}
	runner := &fakeRunner{}
	m := newInteractiveModel(context.Background(), editorDeps{prober: prober, source: fakeSource{}, runner: runner})
	return m, prober, runner
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collectMsgs komutları çalıştırır; batch komutları açılır
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func press(t *testing.T, m interactiveModel, s string) (interactiveModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(s))
	nm, ok := next.(interactiveModel)
	if !ok {
		t.Fatalf("unexpected model type")
	}
	return nm, cmd
}

func feed(t *testing.T, m interactiveModel, cmd tea.Cmd) interactiveModel {
	t.Helper()
	for _, msg := range collectMsgs(cmd) {
		next, _ := m.Update(msg)
		m = next.(interactiveModel)
	}
	return m
}

func openTestInput(t *testing.T, m interactiveModel, path string) interactiveModel {
	t.Helper()
	next, cmd := m.openInput(path)
	nm := next.(interactiveModel)
	if nm.state != stateEditor {
		t.Fatalf("expected editor state, got %v (%s)", nm.state, nm.status)
	}
	return feed(t, nm, cmd)
}

func TestEditorOpenInputLoadsPreviews(t *testing.T) {
	m, _, _ := newTestModel(t, media.TrackInfo{DurationSeconds: 10, HasVideo: true, HasAudio: true})
	m = openTestInput(t, m, "/v/clip.mp4")

	p := m.rec.Params()
	if p.Start != 0 || p.End != 10 {
		t.Fatalf("expected full window, got %v-%v", p.Start, p.End)
	}
	if m.frames[preview.SlotStart] == nil || m.frames[preview.SlotEnd] == nil {
		t.Fatalf("expected both previews to be delivered")
	}
	if got := m.frames[preview.SlotEnd].ContentHash; got != 9_500_001 {
		t.Fatalf("expected end preview from 9.5s, got hash %d", got)
	}
	if m.rendered[preview.SlotStart] == "" {
		t.Fatalf("expected rendered start preview")
	}
	if !strings.Contains(m.View(), "Seçim") {
		t.Fatalf("editor view missing selection line")
	}
}

func TestEditorSliderSupersedesPendingPreview(t *testing.T) {
	m, _, _ := newTestModel(t, media.TrackInfo{DurationSeconds: 10, HasVideo: true})
	m = openTestInput(t, m, "/v/clip.mp4")

	m, first := press(t, m, "right")
	m, second := press(t, m, "right")
	if first == nil || second == nil {
		t.Fatalf("expected a preview job per slider step")
	}

	m = feed(t, m, second)
	m = feed(t, m, first)

	if got := m.frames[preview.SlotStart].ContentHash; got != 2_000_001 {
		t.Fatalf("expected preview for 2s, got hash %d", got)
	}
	if m.frameErr[preview.SlotStart] != "" {
		t.Fatalf("superseded job must not surface an error: %s", m.frameErr[preview.SlotStart])
	}
	if m.coord.InFlight(preview.SlotStart) {
		t.Fatalf("no job should remain in flight")
	}
}

func TestEditorNumericEditClamps(t *testing.T) {
	m, _, _ := newTestModel(t, media.TrackInfo{DurationSeconds: 10, HasVideo: true})
	m = openTestInput(t, m, "/v/clip.mp4")

	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "e")
	if m.state != stateEditTime || m.textInput != "10" {
		t.Fatalf("expected time input prefilled with 10, got %v %q", m.state, m.textInput)
	}
	m, _ = press(t, m, "backspace")
	m, _ = press(t, m, "backspace")
	m, _ = press(t, m, "25")
	m, cmd := press(t, m, "enter")
	if m.state != stateEditor {
		t.Fatalf("expected editor state after commit")
	}
	if m.rec.Params().End != 10 {
		t.Fatalf("expected end clamped to 10, got %v", m.rec.Params().End)
	}
	if cmd != nil {
		t.Fatalf("unchanged end target must not launch a preview")
	}

	m, _ = press(t, m, "e")
	m, _ = press(t, m, "backspace")
	m, _ = press(t, m, "backspace")
	m, _ = press(t, m, "1:x:")
	if m.textInput != "1::" {
		t.Fatalf("non time characters must be filtered, got %q", m.textInput)
	}
	m, _ = press(t, m, "enter")
	if m.state != stateEditTime || !m.statusErr {
		t.Fatalf("invalid time must keep the input open with an error")
	}
}

func TestEditorToggleKeys(t *testing.T) {
	m, _, _ := newTestModel(t, media.TrackInfo{DurationSeconds: 10, HasVideo: true, HasAudio: true})
	m = openTestInput(t, m, "/v/clip.mp4")

	m, _ = press(t, m, "a")
	m, _ = press(t, m, "o")
	p := m.rec.Params()
	if p.CopyAudio || !p.CopyOtherTracks || !p.CopyVideo {
		t.Fatalf("unexpected copy flags: %+v", p)
	}
}

func TestEditorOutputEdit(t *testing.T) {
	m, _, _ := newTestModel(t, media.TrackInfo{DurationSeconds: 10, HasVideo: true})
	m = openTestInput(t, m, "/v/clip.mp4")

	m, _ = press(t, m, "p")
	m.textInput = ""
	m, _ = press(t, m, "/tmp/out.mkv")
	m, _ = press(t, m, "enter")
	if p := m.rec.Params(); p.OutputPath != "/tmp/out.mkv" || p.OutputPathIsGenerated {
		t.Fatalf("expected user output path, got %+v", p)
	}

	m, _ = press(t, m, "p")
	m.textInput = ""
	m, _ = press(t, m, "enter")
	if p := m.rec.Params(); p.OutputPath != filepath.FromSlash("/v/clip_edited.mp4") || !p.OutputPathIsGenerated {
		t.Fatalf("expected regenerated output path, got %q", p.OutputPath)
	}
}

func TestEditorTrimRunsExecutor(t *testing.T) {
	m, _, runner := newTestModel(t, media.TrackInfo{DurationSeconds: 10, HasVideo: true})
	m = openTestInput(t, m, "/v/clip.mp4")
	m, _ = press(t, m, "right")

	m, cmd := press(t, m, "ctrl+s")
	if m.state != stateTrimming || cmd == nil {
		t.Fatalf("expected trimming state with a command")
	}
	m = feed(t, m, cmd)

	if runner.calls != 1 || runner.params.Start != 1 || runner.params.End != 10 {
		t.Fatalf("unexpected executor call: %d %+v", runner.calls, runner.params)
	}
	if m.state != stateEditor || m.lastOutcome == nil || m.statusErr {
		t.Fatalf("expected successful outcome, status %q", m.status)
	}
}

func TestEditorTrimRejectsEmptyWindow(t *testing.T) {
	m, _, runner := newTestModel(t, media.TrackInfo{DurationSeconds: 10, HasVideo: true})
	m = openTestInput(t, m, "/v/clip.mp4")
	m.rec.SetFromSlider(trim.EndpointStart, 10)

	m, cmd := press(t, m, "ctrl+s")
	if cmd != nil || m.state != stateEditor || !m.statusErr || runner.calls != 0 {
		t.Fatalf("empty window must not start a trim")
	}
}

func TestEditorProbeFailureStaysInBrowser(t *testing.T) {
	m, prober, _ := newTestModel(t, media.TrackInfo{})
	prober.err = media.ErrOpenFailed

	next, cmd := m.openInput("/v/broken.mp4")
	nm := next.(interactiveModel)
	if cmd != nil || nm.state != stateBrowser || !nm.statusErr {
		t.Fatalf("probe failure must keep the browser open with an error")
	}
	if nm.rec.Params().InputPath != "" {
		t.Fatalf("params must not change on probe failure")
	}
}

func TestEditorAudioOnlyHasNoPreviews(t *testing.T) {
	m, _, _ := newTestModel(t, media.TrackInfo{DurationSeconds: 10, HasAudio: true})
	next, cmd := m.openInput("/m/song.flac")
	nm := next.(interactiveModel)
	if len(collectMsgs(cmd)) != 0 {
		t.Fatalf("audio-only input must not launch previews")
	}
	if !strings.Contains(nm.View(), "video stream yok") {
		t.Fatalf("expected no-video notice")
	}
}

func TestBrowserListsMediaFiles(t *testing.T) {
	m, _, _ := newTestModel(t, media.TrackInfo{})
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "notes.txt", ".hidden.mp4", "B.MKV"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	m.browserDir = dir
	m.loadBrowserItems()

	var names []string
	for _, item := range m.browserItems {
		names = append(names, item.name)
	}
	got := strings.Join(names, ",")
	if got != ".. (üst dizin),sub,B.MKV,a.mp4" {
		t.Fatalf("unexpected browser items: %s", got)
	}
}
