package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mlihgenel/trimview-cli/internal/trim"
)

const (
	RunOff  = "off"
	RunTXT  = "txt"
	RunJSON = "json"
)

// Run tek bir kırpma çalıştırmasının kaydı
type Run struct {
	Params    trim.Params
	Outcome   trim.Outcome
	Err       error
	StartedAt time.Time
	EndedAt   time.Time
}

// Status success, skipped ya da failed
func (r Run) Status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Outcome.Skipped:
		return "skipped"
	default:
		return "success"
	}
}

type runPayload struct {
	StartedAt  string   `json:"started_at"`
	EndedAt    string   `json:"ended_at"`
	DurationMS int64    `json:"duration_ms"`
	Status     string   `json:"status"`
	Input      string   `json:"input"`
	Output     string   `json:"output"`
	Start      float64  `json:"start_seconds"`
	End        float64  `json:"end_seconds"`
	Tracks     []string `json:"tracks"`
	Error      string   `json:"error,omitempty"`
}

// NormalizeRunFormat rapor formatını normalize eder; geçersizse boş döner
func NormalizeRunFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", RunOff:
		return RunOff
	case RunTXT:
		return RunTXT
	case RunJSON:
		return RunJSON
	default:
		return ""
	}
}

// RenderRun kırpma sonucu için rapor metni üretir
func RenderRun(format string, run Run) (string, error) {
	switch NormalizeRunFormat(format) {
	case RunOff:
		return "", nil
	case RunTXT:
		return renderRunTXT(run), nil
	case RunJSON:
		return renderRunJSON(run)
	default:
		return "", fmt.Errorf("gecersiz report formati: %s", format)
	}
}

func runOutput(run Run) string {
	if run.Outcome.OutputPath != "" {
		return run.Outcome.OutputPath
	}
	return run.Params.OutputPath
}

func runTracks(p trim.Params) []string {
	tracks := []string{}
	if p.CopyVideo {
		tracks = append(tracks, "video")
	}
	if p.CopyAudio {
		tracks = append(tracks, "audio")
	}
	if p.CopySubtitles {
		tracks = append(tracks, "subtitle")
	}
	if p.CopyOtherTracks {
		tracks = append(tracks, "other")
	}
	return tracks
}

func renderRunTXT(run Run) string {
	var b strings.Builder
	b.WriteString("Trim Report\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Started:  %s\n", run.StartedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Ended:    %s\n", run.EndedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Duration: %s\n", run.EndedAt.Sub(run.StartedAt)))
	b.WriteString(fmt.Sprintf("Window:   %.3fs -> %.3fs\n", run.Params.Start, run.Params.End))
	b.WriteString(fmt.Sprintf("Tracks:   %s\n", strings.Join(runTracks(run.Params), ", ")))
	b.WriteString(fmt.Sprintf("\n- [%s] %s -> %s", run.Status(), run.Params.InputPath, runOutput(run)))
	if run.Err != nil {
		b.WriteString(fmt.Sprintf(" (error=%s)", run.Err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func renderRunJSON(run Run) (string, error) {
	payload := runPayload{
		StartedAt:  run.StartedAt.Format(time.RFC3339),
		EndedAt:    run.EndedAt.Format(time.RFC3339),
		DurationMS: run.EndedAt.Sub(run.StartedAt).Milliseconds(),
		Status:     run.Status(),
		Input:      run.Params.InputPath,
		Output:     runOutput(run),
		Start:      run.Params.Start,
		End:        run.Params.End,
		Tracks:     runTracks(run.Params),
	}
	if run.Err != nil {
		payload.Error = run.Err.Error()
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
