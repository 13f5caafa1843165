package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	logger = newDiscardLogger()
	sink   io.Closer
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// L uygulama genelindeki logger'ı döner
func L() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// ParseLevel boş değerde info döner
func ParseLevel(raw string) (logrus.Level, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("gecersiz log seviyesi: %s", raw)
	}
	return lvl, nil
}

// Setup logger'ı verilen seviye ve hedefe göre yapılandırır.
// filePath boşsa çıktı w'ye yazılır; w de nil ise loglar atılır.
func Setup(level string, filePath string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   filePath != "",
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := path.Base(f.File)
			return "", fmt.Sprintf("%s:%d", filename, f.Line)
		},
	})
	l.SetReportCaller(true)

	var closer io.Closer
	switch {
	case filePath != "":
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return fmt.Errorf("log dizini oluşturulamadı: %w", err)
		}
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("log dosyası açılamadı: %w", err)
		}
		l.SetOutput(f)
		closer = f
	case w != nil:
		l.SetOutput(w)
	default:
		l.SetOutput(io.Discard)
	}

	mu.Lock()
	old := sink
	logger = l
	sink = closer
	mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Close açık log dosyasını kapatır
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if sink == nil {
		return nil
	}
	err := sink.Close()
	sink = nil
	logger = newDiscardLogger()
	return err
}
