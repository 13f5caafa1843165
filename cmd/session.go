package cmd

import (
	"context"
	"strings"

	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/preview"
	"github.com/mlihgenel/trimview-cli/internal/trim"
)

// windowFlags komutların ortak --start/--end/--output bayrakları
type windowFlags struct {
	start  string
	end    string
	output string
}

// session komut satırı komutları için editör olmadan çalışan kırpma oturumu.
// Reconciler'ın ürettiği işler uç başına en son haliyle saklanır.
type session struct {
	coord   *preview.Coordinator
	rec     *trim.Reconciler
	pending map[preview.Slot]*preview.Job
}

// openSession girdiyi probe eder ve bayraklardaki pencereyi uygular
func openSession(ctx context.Context, input string, flags windowFlags) (*session, error) {
	coord := preview.NewCoordinator(ctx)
	s := &session{
		coord:   coord,
		rec:     trim.NewReconciler(media.NewProber(tools), coord),
		pending: make(map[preview.Slot]*preview.Job),
	}

	jobs, err := s.rec.OnInputChanged(ctx, input)
	if err != nil {
		return nil, err
	}
	s.track(jobs)

	start, end, err := parseWindowFlags(flags.start, flags.end, s.rec.Params().End)
	if err != nil {
		return nil, err
	}
	if out := strings.TrimSpace(flags.output); out != "" {
		s.rec.OnOutputEdited(out)
	}
	s.rec.OnNumericEdit(trim.EndpointStart, start)
	s.rec.OnNumericEdit(trim.EndpointEnd, end)
	s.track(s.rec.Reconcile())
	return s, nil
}

func (s *session) track(jobs []*preview.Job) {
	for _, job := range jobs {
		s.pending[job.Slot] = job
	}
}

// jobs iptal edilmemiş işleri başlangıç, bitiş sırasıyla döner
func (s *session) jobs() []*preview.Job {
	var out []*preview.Job
	for _, slot := range []preview.Slot{preview.SlotStart, preview.SlotEnd} {
		if job, ok := s.pending[slot]; ok && !job.Cancelled() {
			out = append(out, job)
		}
	}
	return out
}

// renderPreviews işleri pool ile çalıştırır ve teslim edilen kareleri döner
func (s *session) renderPreviews(ctx context.Context, onProgress func(completed, total int)) map[preview.Slot]preview.Delivery {
	pool := preview.NewPool(newDecoder(), projectCfg.PreviewWorkers)
	pool.OnProgress = onProgress

	deliveries := make(map[preview.Slot]preview.Delivery)
	for result := range pool.Start(ctx, s.jobs()) {
		if d, ok := s.coord.Deliver(result); ok {
			deliveries[d.Slot] = d
		}
	}
	return deliveries
}

// slotTime bir ucun saniye cinsinden seek hedefi
func slotTime(p trim.Params, info media.TrackInfo, slot preview.Slot) float64 {
	startMicros, endMicros := preview.SeekTargets(p.Start, p.End, info.DurationSeconds)
	if slot == preview.SlotEnd {
		return media.MicrosToSeconds(endMicros)
	}
	return media.MicrosToSeconds(startMicros)
}
