package trim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConflictPolicy çıktı dosyası zaten varsa ne yapılacağı
type ConflictPolicy string

const (
	ConflictOverwrite ConflictPolicy = "overwrite"
	ConflictSkip      ConflictPolicy = "skip"
	ConflictVersioned ConflictPolicy = "versioned"
)

// ParseConflictPolicy boş değerde versioned döner
func ParseConflictPolicy(raw string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return ConflictVersioned, nil
	case ConflictOverwrite, ConflictSkip, ConflictVersioned:
		return p, nil
	default:
		return "", fmt.Errorf("gecersiz on-conflict politikasi: %s", raw)
	}
}

// ResolveOutput hedef dosya çakışmasını politikaya göre çözer.
// skip=true dönerse kırpma yapılmamalıdır.
func ResolveOutput(path string, policy ConflictPolicy) (resolved string, skip bool, err error) {
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return path, false, nil
		}
		return "", false, statErr
	}

	switch policy {
	case ConflictOverwrite:
		return path, false, nil
	case ConflictSkip:
		return path, true, nil
	case ConflictVersioned, "":
		return nextVersion(path)
	default:
		return "", false, fmt.Errorf("gecersiz on-conflict politikasi: %s", policy)
	}
}

// nextVersion "isim (n).uzantı" biçiminde ilk boş adı bulur
func nextVersion(path string) (string, bool, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i < 10000; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, false, nil
		}
		if err != nil {
			return "", false, err
		}
	}
	return "", false, fmt.Errorf("uygun versioned dosya adi bulunamadi: %s", path)
}
