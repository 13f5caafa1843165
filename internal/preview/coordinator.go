package preview

import (
	"context"
	"errors"
	"time"

	"github.com/mlihgenel/trimview-cli/internal/logging"
	"github.com/mlihgenel/trimview-cli/internal/media"
)

// Slot ön izleme yuvası: seçimin başı ya da sonu
type Slot int

const (
	SlotStart Slot = iota
	SlotEnd
)

func (s Slot) String() string {
	if s == SlotEnd {
		return "end"
	}
	return "start"
}

// Son zaman damgasının ardından kare çıkmayan kapsayıcılar için
// bitişe yakın hedefler geriye çekilir.
const (
	endSeekMargin = 0.1
	endSeekBack   = 0.5
)

// ErrCancelled iptal edilmiş ya da yerine yenisi gelmiş bir işin sonucu
var ErrCancelled = errors.New("ön izleme işi iptal edildi")

// FrameSource tek kare çözen bileşen (media.Decoder)
type FrameSource interface {
	DecodeFrame(ctx context.Context, req media.PreviewRequest) (media.PreviewResult, error)
}

// Job bir yuva için başlatılmış decode işi
type Job struct {
	Slot    Slot
	Request media.PreviewRequest
	token   *Token
}

// ID işin kimliği
func (j *Job) ID() string {
	return j.token.ID()
}

// Cancelled işin iptal edilip edilmediği
func (j *Job) Cancelled() bool {
	return j.token.Cancelled()
}

// Result bir işin ham sonucu; kontrol akışına Deliver ile geri verilir
type Result struct {
	Job     *Job
	Frame   media.PreviewResult
	Err     error
	Elapsed time.Duration
}

// Run işi çalıştırır. Worker tarafında çağrılır; yuva durumuna dokunmaz.
func (j *Job) Run(ctx context.Context, src FrameSource) Result {
	start := time.Now()
	if j.token.Cancelled() {
		return Result{Job: j, Err: ErrCancelled}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(j.token.ctx, cancel)
	defer stop()

	frame, err := src.DecodeFrame(runCtx, j.Request)
	if j.token.Cancelled() {
		err = ErrCancelled
	}
	return Result{Job: j, Frame: frame, Err: err, Elapsed: time.Since(start)}
}

// Delivery görüntü katmanına iletilecek sonuç
type Delivery struct {
	Slot Slot
	// Frame yeni kare; Unchanged ya da hata durumunda nil
	Frame     *media.PreviewResult
	Unchanged bool
	Err       error
}

type slot struct {
	lastRequest    *media.PreviewRequest
	lastResultHash uint64
	inFlight       *Token
}

// Coordinator iki ön izleme yuvasını yönetir.
// Tüm metotlar tek bir kontrol akışından çağrılmalıdır; işler ise
// herhangi bir goroutine'de Run edilebilir.
type Coordinator struct {
	ctx   context.Context
	slots [2]slot
}

// NewCoordinator ctx iptal edildiğinde tüm işler de iptal olur
func NewCoordinator(ctx context.Context) *Coordinator {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Coordinator{ctx: ctx}
}

// SeekTargets başlangıç ve bitiş yuvaları için mikro saniye hedeflerini hesaplar
func SeekTargets(start, end, duration float64) (int64, int64) {
	endSeek := end
	if end > duration-endSeekMargin {
		endSeek = max(end-endSeekBack, 0)
	}
	return media.SecondsToMicros(start), media.SecondsToMicros(endSeek)
}

// Refresh iki yuva için istek üretir, tekrar eden hedefleri atlar,
// eskiyen işleri iptal eder ve başlatılması gereken işleri döner. Bloklamaz.
func (c *Coordinator) Refresh(start, end, duration float64, input string) []*Job {
	startSeek, endSeek := SeekTargets(start, end, duration)
	targets := [2]int64{startSeek, endSeek}

	var jobs []*Job
	for i, seek := range targets {
		req := media.PreviewRequest{SeekMicros: seek, InputPath: input}
		if job := c.launch(Slot(i), req); job != nil {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

func (c *Coordinator) launch(which Slot, req media.PreviewRequest) *Job {
	s := &c.slots[which]
	if s.lastRequest != nil && s.lastRequest.SameTarget(req) {
		return nil
	}

	log := logging.L().WithField("slot", which.String())
	if s.inFlight != nil {
		log.WithField("job", s.inFlight.ID()).Debug("ön izleme işi iptal edildi")
		s.inFlight.Cancel()
		s.inFlight = nil
	}

	req.PriorContentHash = s.lastResultHash
	recorded := req
	s.lastRequest = &recorded

	token := newToken(c.ctx)
	s.inFlight = token
	log.WithField("job", token.ID()).WithField("seek_us", req.SeekMicros).Debug("ön izleme işi başlatıldı")

	return &Job{Slot: which, Request: req, token: token}
}

// Deliver bir sonucu yuvaya uygular. İptal edilmiş ya da yerine yenisi gelmiş
// işlerin sonuçları atılır ve ikinci dönüş değeri false olur.
func (c *Coordinator) Deliver(r Result) (Delivery, bool) {
	if r.Job == nil {
		return Delivery{}, false
	}
	job := r.Job
	s := &c.slots[job.Slot]
	log := logging.L().WithField("slot", job.Slot.String()).WithField("job", job.ID())

	if job.token.Cancelled() || s.inFlight != job.token {
		log.Debug("eskiyen ön izleme sonucu atıldı")
		return Delivery{}, false
	}
	s.inFlight = nil
	job.token.release()

	switch {
	case r.Err == nil:
		s.lastResultHash = r.Frame.ContentHash
		frame := r.Frame
		log.WithField("elapsed", r.Elapsed).Debug("ön izleme hazır")
		return Delivery{Slot: job.Slot, Frame: &frame}, true
	case errors.Is(r.Err, media.ErrUnchanged):
		log.Debug("ön izleme içeriği değişmedi")
		return Delivery{Slot: job.Slot, Unchanged: true}, true
	default:
		log.WithError(r.Err).Warn("ön izleme üretilemedi")
		return Delivery{Slot: job.Slot, Err: r.Err}, true
	}
}

// InFlight yuvada bekleyen bir iş olup olmadığını söyler
func (c *Coordinator) InFlight(which Slot) bool {
	return c.slots[which].inFlight != nil
}

// LastRequest yuvanın son kabul edilen isteği
func (c *Coordinator) LastRequest(which Slot) (media.PreviewRequest, bool) {
	s := c.slots[which]
	if s.lastRequest == nil {
		return media.PreviewRequest{}, false
	}
	return *s.lastRequest, true
}

// LastResultHash yuvada gösterilen karenin içerik hash'i
func (c *Coordinator) LastResultHash(which Slot) uint64 {
	return c.slots[which].lastResultHash
}

// CancelAll bekleyen işleri iptal eder
func (c *Coordinator) CancelAll() {
	for i := range c.slots {
		if c.slots[i].inFlight != nil {
			c.slots[i].inFlight.Cancel()
			c.slots[i].inFlight = nil
		}
	}
}

// Reset yuvaları sıfırlar; yeni girdi seçildiğinde kullanılır
func (c *Coordinator) Reset() {
	c.CancelAll()
	c.slots = [2]slot{}
}
