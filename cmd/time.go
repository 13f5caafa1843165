package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// parseTimeValue saniye, MM:SS veya HH:MM:SS biçimindeki değeri saniyeye
// çevirir. Ondalık ayırıcı olarak virgül de kabul edilir. Baştaki "-"
// reddedilmez; aralık sıkıştırması negatif değeri sıfıra çeker.
func parseTimeValue(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if normalized == "" {
		return 0, fmt.Errorf("boş değer")
	}

	sign := 1.0
	if rest, ok := strings.CutPrefix(normalized, "-"); ok {
		sign = -1
		normalized = strings.TrimSpace(rest)
	}

	seconds, err := parseClock(normalized)
	if err != nil {
		return 0, err
	}
	return sign * seconds, nil
}

func parseClock(value string) (float64, error) {
	if !strings.Contains(value, ":") {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("geçersiz sayı: %s", value)
		}
		return v, nil
	}

	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("zaman formatı hatalı")
	}

	parsed := make([]float64, len(parts))
	for i, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			return 0, fmt.Errorf("zaman formatı hatalı")
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("zaman formatı hatalı")
		}
		parsed[i] = v
	}

	if len(parsed) == 2 {
		if parsed[1] >= 60 {
			return 0, fmt.Errorf("saniye 60'tan küçük olmalı")
		}
		return parsed[0]*60 + parsed[1], nil
	}

	if parsed[1] >= 60 || parsed[2] >= 60 {
		return 0, fmt.Errorf("dakika/saniye 60'tan küçük olmalı")
	}
	return parsed[0]*3600 + parsed[1]*60 + parsed[2], nil
}

// parseWindowFlags --start/--end değerlerini çözer.
// --end verilmezse süre sonu kullanılır.
func parseWindowFlags(startRaw, endRaw string, duration float64) (float64, float64, error) {
	start := 0.0
	if strings.TrimSpace(startRaw) != "" {
		v, err := parseTimeValue(startRaw)
		if err != nil {
			return 0, 0, fmt.Errorf("--start: %w", err)
		}
		start = v
	}

	end := duration
	if strings.TrimSpace(endRaw) != "" {
		v, err := parseTimeValue(endRaw)
		if err != nil {
			return 0, 0, fmt.Errorf("--end: %w", err)
		}
		end = v
	}
	return start, end, nil
}
