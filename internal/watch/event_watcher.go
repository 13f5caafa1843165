package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mlihgenel/trimview-cli/internal/logging"
)

// EventWatcher fsnotify ile event-driven izleme sağlar.
// Editörler dosyayı yeniden oluşturabildiği için üst dizin izlenir.
type EventWatcher struct {
	poller *Watcher
	fs     *fsnotify.Watcher

	events chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewEventWatcher fsnotify backend'i oluşturur.
func NewEventWatcher(path string, settleFor time.Duration) (*EventWatcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &EventWatcher{
		poller: NewWatcher(path, settleFor),
		fs:     fs,
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}, nil
}

// NewAdaptiveWatcher event backend'i dener; olmazsa polling fallback döner.
func NewAdaptiveWatcher(path string, settleFor time.Duration) (Engine, error) {
	eventWatcher, err := NewEventWatcher(path, settleFor)
	if err != nil {
		return NewWatcher(path, settleFor), err
	}
	return eventWatcher, nil
}

func (w *EventWatcher) Bootstrap() error {
	if err := w.poller.Bootstrap(); err != nil {
		return err
	}
	if err := w.fs.Add(filepath.Dir(w.poller.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

func (w *EventWatcher) Poll(now time.Time) (bool, error) {
	return w.poller.Poll(now)
}

func (w *EventWatcher) Events() <-chan struct{} {
	return w.events
}

func (w *EventWatcher) Close() error {
	w.once.Do(func() {
		close(w.done)
	})
	return w.fs.Close()
}

func (w *EventWatcher) Mode() string { return "event+polling" }

func (w *EventWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.poller.Path {
				continue
			}
			w.signal()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Polling devam ettiği için yalnızca kaydet
			logging.L().WithError(err).Debug("fsnotify hatası")
			w.signal()
		}
	}
}

func (w *EventWatcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}
