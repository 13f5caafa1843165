package watch

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Engine tek bir girdi dosyasını izleyen backend
type Engine interface {
	Bootstrap() error
	// Poll dosya değişip sabitlendiyse true döner; her değişiklik bir kez bildirilir
	Poll(now time.Time) (bool, error)
	// Events değişiklik olasılığında sinyal verir; polling backend'inde nil
	Events() <-chan struct{}
	Close() error
	Mode() string
}

type fileState struct {
	Exists     bool
	Size       int64
	ModTime    time.Time
	LastChange time.Time
	Reported   bool
}

// Watcher polling tabanlı dosya izleyicisidir.
type Watcher struct {
	Path      string
	SettleFor time.Duration

	state fileState
}

// NewWatcher yeni bir watcher oluşturur.
func NewWatcher(path string, settleFor time.Duration) *Watcher {
	if settleFor <= 0 {
		settleFor = 1500 * time.Millisecond
	}
	return &Watcher{
		Path:      filepath.Clean(path),
		SettleFor: settleFor,
	}
}

// Bootstrap mevcut durumu "zaten bildirilmiş" olarak kaydeder.
func (w *Watcher) Bootstrap() error {
	info, err := os.Stat(w.Path)
	if err != nil {
		return err
	}
	w.state = fileState{
		Exists:     true,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		LastChange: time.Now(),
		Reported:   true,
	}
	return nil
}

// Poll dosya değişmiş ve SettleFor boyunca sabit kalmışsa true döner.
// Silinen dosya değişiklik sayılmaz; yeniden oluştuğunda bildirilir.
func (w *Watcher) Poll(now time.Time) (bool, error) {
	info, err := os.Stat(w.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if w.state.Exists {
				w.state = fileState{LastChange: now}
			}
			return false, nil
		}
		return false, err
	}

	s := w.state
	if !s.Exists || s.Size != info.Size() || !s.ModTime.Equal(info.ModTime()) {
		w.state = fileState{
			Exists:     true,
			Size:       info.Size(),
			ModTime:    info.ModTime(),
			LastChange: now,
		}
		return false, nil
	}

	if !s.Reported && now.Sub(s.LastChange) >= w.SettleFor {
		s.Reported = true
		w.state = s
		return true, nil
	}
	return false, nil
}

func (w *Watcher) Events() <-chan struct{} { return nil }

func (w *Watcher) Close() error { return nil }

func (w *Watcher) Mode() string { return "polling" }
