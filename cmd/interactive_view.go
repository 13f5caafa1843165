package cmd

import (
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/trimview-cli/internal/preview"
	"github.com/mlihgenel/trimview-cli/internal/trim"
	"github.com/mlihgenel/trimview-cli/internal/ui"
)

func (m interactiveModel) View() string {
	if m.quitting {
		return dimStyle.Render("  Görüşmek üzere! 👋") + "\n"
	}

	switch m.state {
	case stateHelp:
		return m.viewHelp()
	case stateBrowser:
		return m.viewFileBrowser()
	case stateTrimming:
		return m.viewTrimming()
	default:
		return m.viewEditor()
	}
}

func (m interactiveModel) viewEditor() string {
	var b strings.Builder
	params := m.rec.Params()
	info, _ := m.rec.TrackInfo()

	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ✂️  TrimView "))
	b.WriteString("\n")
	b.WriteString(pathStyle.Render(fmt.Sprintf("  🎬 %s", shortenPath(params.InputPath))))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   toplam %s", ui.FormatClock(info.DurationSeconds))))
	b.WriteString("\n\n")

	if info.HasVideo {
		panels := lipgloss.JoinHorizontal(lipgloss.Top,
			m.viewPanel(preview.SlotStart, trim.EndpointStart, params.Start),
			" ",
			m.viewPanel(preview.SlotEnd, trim.EndpointEnd, params.End),
		)
		b.WriteString(panels)
		b.WriteString("\n")
	} else {
		b.WriteString(dimStyle.Render("  Bu girdide video stream yok; ön izleme gösterilmiyor."))
		b.WriteString("\n\n")
	}

	b.WriteString("  ")
	b.WriteString(m.timelineBar(max(m.width-6, 20), params, info.DurationSeconds))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("  Seçim: %s → %s  (%s)",
		ui.FormatClock(params.Start), ui.FormatClock(params.End), ui.FormatClock(params.Duration()))))
	b.WriteString(dimStyle.Render(fmt.Sprintf("   adım %s sn", trimFloat(stepSizes[m.stepIndex]))))
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(strings.Join([]string{
		checkbox("v", "video", params.CopyVideo, info.HasVideo),
		checkbox("a", "ses", params.CopyAudio, info.HasAudio),
		checkbox("s", "altyazı", params.CopySubtitles, info.HasSubtitles),
		checkbox("o", "diğer", params.CopyOtherTracks, info.HasOtherTracks),
	}, "  "))
	b.WriteString("\n")

	output := shortenPath(params.OutputPath)
	if params.OutputPathIsGenerated {
		output += dimStyle.Render(" (otomatik)")
	}
	b.WriteString(fmt.Sprintf("  💾 Çıktı: %s\n", output))

	switch m.state {
	case stateEditTime:
		label := "Başlangıç"
		if m.active == trim.EndpointEnd {
			label = "Bitiş"
		}
		b.WriteString("\n")
		b.WriteString(selectedItemStyle.Render(fmt.Sprintf("%s: %s█", label, m.textInput)))
		b.WriteString(dimStyle.Render("   saniye, MM:SS veya HH:MM:SS  •  Enter Uygula  •  Esc Vazgeç"))
		b.WriteString("\n")
	case stateEditOutput:
		b.WriteString("\n")
		b.WriteString(selectedItemStyle.Render(fmt.Sprintf("Çıktı yolu: %s█", m.textInput)))
		b.WriteString(dimStyle.Render("   boş bırakılırsa otomatik  •  Enter Uygula  •  Esc Vazgeç"))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render("  ❌ " + m.status))
		} else {
			b.WriteString(successStyle.Render("  " + m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ←→ Kaydır  •  [ ] Adım  •  Tab Uç  •  e Süre yaz  •  p Çıktı  •  v a s o Track  •  ctrl+s Kırp  •  b Dosya  •  ? Yardım  •  q Çıkış"))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) viewPanel(slot preview.Slot, which trim.Endpoint, at float64) string {
	cols, rows := m.panelSize()
	style := panelStyle
	title := slotLabel(slot)
	if m.active == which {
		style = activePanelStyle
		title = "▸ " + title
	}

	header := lipgloss.NewStyle().Bold(true).Render(title) + dimStyle.Render("  "+ui.FormatClock(at))
	if m.coord.InFlight(slot) {
		header += " " + infoStyle.Render(spinnerFrames[m.spinnerTick%len(spinnerFrames)])
	}

	body := m.rendered[slot]
	switch {
	case m.frameErr[slot] != "":
		body = errorStyle.Render(wrapText(m.frameErr[slot], cols))
	case body == "":
		body = dimStyle.Render("kare bekleniyor...")
	}
	body = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, body)

	return style.Render(header + "\n" + body)
}

// timelineBar toplam süre üzerinde seçili aralığı gösterir
func (m interactiveModel) timelineBar(width int, params trim.Params, duration float64) string {
	if duration <= 0 {
		return dimStyle.Render(strings.Repeat("─", width))
	}
	pos := func(v float64) int {
		p := int(v / duration * float64(width-1))
		return min(max(p, 0), width-1)
	}
	startPos, endPos := pos(params.Start), pos(params.End)

	var b strings.Builder
	for i := 0; i < width; i++ {
		switch {
		case i == startPos && m.active == trim.EndpointStart,
			i == endPos && m.active == trim.EndpointEnd:
			b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("┃"))
		case i == startPos || i == endPos:
			b.WriteString(lipgloss.NewStyle().Foreground(accentColor).Render("│"))
		case i > startPos && i < endPos:
			b.WriteString(lipgloss.NewStyle().Foreground(primaryColor).Render("█"))
		default:
			b.WriteString(dimStyle.Render("─"))
		}
	}
	return b.String()
}

func (m interactiveModel) viewTrimming() string {
	var b strings.Builder
	params := m.rec.Params()
	spinner := spinnerFrames[m.spinnerTick%len(spinnerFrames)]

	content := fmt.Sprintf("%s Kırpılıyor...\n\n%s\n%s → %s\n\n%s",
		spinner,
		pathStyle.Render(shortenPath(params.InputPath)),
		ui.FormatClock(params.Start), ui.FormatClock(params.End),
		dimStyle.Render("Esc İptal"),
	)
	b.WriteString("\n")
	b.WriteString(resultBoxStyle.Render(content))
	b.WriteString("\n")
	return b.String()
}

func (m interactiveModel) viewHelp() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(" ✂️  TrimView'e hoş geldiniz "))
	b.WriteString("\n")

	lines := []string{
		"Videoyu yeniden kodlamadan, kalite kaybı olmadan kırpar.",
		"Başlangıç ve bitiş kareleri kaydırırken güncellenir.",
		"Ön izleme en yakın keyframe'i gösterir; kırpma da keyframe'den başlar.",
		"",
		"←/→ veya h/l   seçili ucu adım kadar kaydır",
		"[ / ]          adımı küçült / büyüt",
		"Home / End     ucu videonun başına / sonuna taşı",
		"Tab            başlangıç ↔ bitiş",
		"e veya Enter   zamanı elle yaz",
		"p              çıktı yolunu düzenle",
		"v a s o        video / ses / altyazı / diğer track'ler",
		"r              girdiyi yeniden oku",
		"ctrl+s         kırp",
		"b              dosya seç",
		"q / Esc        çıkış",
	}
	b.WriteString(resultBoxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  Devam etmek için bir tuşa basın"))
	b.WriteString("\n")
	return b.String()
}

func checkbox(key, label string, on, present bool) string {
	mark := "[ ]"
	if on {
		mark = "[x]"
	}
	text := fmt.Sprintf("%s %s %s", dimStyle.Render(key), mark, label)
	if !present {
		return dimStyle.Render(fmt.Sprintf("%s %s %s", key, mark, label))
	}
	if on {
		return successStyle.Render(text)
	}
	return text
}

func wrapText(s string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 10)).Render(s)
}

func trimFloat(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}

func getHomeDir() string {
	u, err := user.Current()
	if err != nil {
		return "/"
	}
	return u.HomeDir
}

func shortenPath(path string) string {
	home := getHomeDir()
	if home != "/" && strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.2fµs", float64(d.Microseconds()))
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Milliseconds()))
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
