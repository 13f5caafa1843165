package trim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlihgenel/trimview-cli/internal/logging"
	"github.com/mlihgenel/trimview-cli/internal/media"
)

// ErrExecute ffmpeg başlatılamadığında ya da sıfır dışı kodla çıktığında döner
var ErrExecute = errors.New("kırpma başarısız")

// Outcome bir kırpma çalıştırmasının sonucu
type Outcome struct {
	OutputPath string
	Skipped    bool
	Elapsed    time.Duration
}

// BuildArgs stream-copy kırpması için ffmpeg argümanlarını üretir
func BuildArgs(p Params, output string) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-ss", media.FormatSeconds(p.Start),
		"-t", media.FormatSeconds(p.Duration()),
		"-i", p.InputPath,
	}

	tracks := []struct {
		copy bool
		kind string
	}{
		{p.CopyVideo, "v"},
		{p.CopyAudio, "a"},
		{p.CopySubtitles, "s"},
	}
	for _, tr := range tracks {
		if tr.copy {
			args = append(args, "-c:"+tr.kind, "copy")
		} else {
			args = append(args, "-"+tr.kind+"n")
		}
	}

	if p.CopyOtherTracks {
		args = append(args, "-map", "0", "-c:d", "copy")
	}

	return append(args, "-y", output)
}

// Executor kırpmayı ffmpeg ile yapar
type Executor struct {
	FFmpeg string
	Policy ConflictPolicy
}

// Execute çıktı çakışmasını çözer ve ffmpeg'i bekler
func (e Executor) Execute(ctx context.Context, p Params) (Outcome, error) {
	start := time.Now()
	if err := p.Validate(); err != nil {
		return Outcome{}, err
	}
	if e.FFmpeg == "" {
		return Outcome{}, fmt.Errorf("%w: ffmpeg bulunamadı", ErrExecute)
	}

	output, skip, err := ResolveOutput(p.OutputPath, e.Policy)
	if err != nil {
		return Outcome{}, err
	}
	log := logging.L().WithField("output", output)
	if skip {
		log.Info("çıktı zaten var, kırpma atlandı")
		return Outcome{OutputPath: output, Skipped: true}, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return Outcome{}, fmt.Errorf("çıktı dizini oluşturulamadı: %w", err)
	}

	args := BuildArgs(p, output)
	log.Debugln(e.FFmpeg, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, e.FFmpeg, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		msg := strings.TrimSpace(string(out))
		log.WithError(err).Warn("ffmpeg kırpma hatası")
		if msg != "" {
			return Outcome{}, fmt.Errorf("%w: %s\n%s", ErrExecute, err.Error(), msg)
		}
		return Outcome{}, fmt.Errorf("%w: %s", ErrExecute, err.Error())
	}

	elapsed := time.Since(start)
	log.WithField("elapsed", elapsed).Info("kırpma tamamlandı")
	return Outcome{OutputPath: output, Elapsed: elapsed}, nil
}
