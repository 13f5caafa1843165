package trim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mlihgenel/trimview-cli/internal/logging"
	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/preview"
)

// Prober girdinin süresini ve track türlerini okur
type Prober interface {
	Probe(ctx context.Context, path string) (media.TrackInfo, error)
}

// Reconciler kırpma parametrelerinin tutarlılığını korur ve ön izleme
// yenilemelerini koordinatöre iletir. Tek kontrol akışından kullanılmalıdır.
type Reconciler struct {
	prober Prober
	coord  *preview.Coordinator

	params  Params
	info    media.TrackInfo
	hasInfo bool
	dirty   bool
}

// NewReconciler yeni bir Reconciler oluşturur
func NewReconciler(prober Prober, coord *preview.Coordinator) *Reconciler {
	return &Reconciler{prober: prober, coord: coord}
}

// Params parametrelerin bir kopyasını döner
func (r *Reconciler) Params() Params {
	return r.params
}

// TrackInfo son başarılı probe sonucunu döner
func (r *Reconciler) TrackInfo() (media.TrackInfo, bool) {
	return r.info, r.hasInfo
}

// Duration seçili aralığın uzunluğu
func (r *Reconciler) Duration() float64 {
	return r.params.Duration()
}

// Dirty bekleyen sayısal düzenleme olup olmadığını söyler
func (r *Reconciler) Dirty() bool {
	return r.dirty
}

// OnInputChanged girdiyi probe eder; başarılıysa pencereyi tüm süreye açar,
// kopyalama bayraklarını track'lere göre ayarlar ve gerekirse çıktı yolunu
// yeniden üretir. Hata durumunda hiçbir alan değişmez.
func (r *Reconciler) OnInputChanged(ctx context.Context, path string) ([]*preview.Job, error) {
	info, err := r.prober.Probe(ctx, path)
	if err != nil {
		logging.L().WithError(err).WithField("input", path).Warn("girdi okunamadı")
		return nil, err
	}

	if path != r.params.InputPath {
		r.coord.Reset()
	}

	r.info = info
	r.hasInfo = true
	r.params.InputPath = path
	r.params.Start = 0
	r.params.End = info.DurationSeconds
	r.params.applyTrackInfo(info)
	if r.params.OutputPath == "" || r.params.OutputPathIsGenerated {
		r.params.OutputPath = GenerateOutputPath(path)
		r.params.OutputPathIsGenerated = true
	}
	r.dirty = false

	logging.L().WithFields(logrus.Fields{
		"input":    path,
		"duration": info.DurationSeconds,
		"video":    info.HasVideo,
		"audio":    info.HasAudio,
	}).Info("girdi yüklendi")

	return r.refresh(), nil
}

// Reprobe aynı girdiyi diskte değiştiğinde yeniden okur. Mevcut pencere
// korunur, yeni süreye göre sıkıştırılır ve ön izlemeler baştan üretilir.
func (r *Reconciler) Reprobe(ctx context.Context) ([]*preview.Job, error) {
	if r.params.InputPath == "" {
		return nil, fmt.Errorf("girdi dosyası seçilmedi")
	}
	info, err := r.prober.Probe(ctx, r.params.InputPath)
	if err != nil {
		return nil, err
	}
	r.info = info
	r.hasInfo = true
	r.params.applyTrackInfo(info)
	r.coord.Reset()
	r.dirty = true
	return r.Reconcile(), nil
}

// OnNumericEdit ham değeri saklar; sıkıştırma bir sonraki Reconcile'a kalır
func (r *Reconciler) OnNumericEdit(which Endpoint, value float64) {
	r.set(which, value)
	r.dirty = true
}

// SetFromSlider sınırları zaten bilinen bir değeri uygular ve hemen yeniler
func (r *Reconciler) SetFromSlider(which Endpoint, value float64) []*preview.Job {
	r.set(which, value)
	r.dirty = true
	return r.Reconcile()
}

func (r *Reconciler) set(which Endpoint, value float64) {
	if which == EndpointEnd {
		r.params.End = value
	} else {
		r.params.Start = value
	}
}

// Reconcile bekleyen düzenlemeleri sıkıştırır, boşaltılmış çıktı yolunu
// yeniden üretir ve değişen uçlar için ön izleme işlerini döner.
func (r *Reconciler) Reconcile() []*preview.Job {
	if r.dirty {
		r.params.Start, r.params.End = Clamp(r.params.Start, r.params.End, r.info.DurationSeconds)
		r.dirty = false
	}
	if r.params.OutputPath == "" && r.params.InputPath != "" {
		r.params.OutputPath = GenerateOutputPath(r.params.InputPath)
		r.params.OutputPathIsGenerated = true
	}
	return r.refresh()
}

// OnOutputEdited kullanıcının yazdığı çıktı yolunu saklar
func (r *Reconciler) OnOutputEdited(path string) {
	r.params.OutputPath = path
	r.params.OutputPathIsGenerated = false
}

// Toggle bir track türünün kopyalanma bayrağını çevirir.
// Video, ses ve altyazı dışındaki türler "diğer track'ler" sayılır.
func (r *Reconciler) Toggle(kind media.Kind) bool {
	var flag *bool
	switch kind {
	case media.KindVideo:
		flag = &r.params.CopyVideo
	case media.KindAudio:
		flag = &r.params.CopyAudio
	case media.KindSubtitle:
		flag = &r.params.CopySubtitles
	default:
		flag = &r.params.CopyOtherTracks
	}
	*flag = !*flag
	return *flag
}

func (r *Reconciler) refresh() []*preview.Job {
	if !r.hasInfo || !r.info.HasVideo {
		return nil
	}
	return r.coord.Refresh(r.params.Start, r.params.End, r.info.DurationSeconds, r.params.InputPath)
}
