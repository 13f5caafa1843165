package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Tarayıcıda listelenen medya uzantıları
var mediaExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true, ".webm": true,
	".m4v": true, ".wmv": true, ".flv": true, ".ts": true, ".mts": true,
	".m2ts": true, ".mpg": true, ".mpeg": true, ".ogv": true, ".3gp": true,
	".mp3": true, ".m4a": true, ".flac": true, ".wav": true, ".ogg": true,
}

type browserEntry struct {
	name  string
	path  string
	isDir bool
}

func isMediaFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

func (m interactiveModel) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		// Yüklü bir girdi varsa editöre dön
		if m.rec.Params().InputPath != "" {
			m.state = stateEditor
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.browserItems)-1 {
			m.cursor++
		}

	case "backspace", "left", "h":
		parent := filepath.Dir(m.browserDir)
		if parent != m.browserDir {
			m.browserDir = parent
			m.cursor = 0
			m.loadBrowserItems()
		}

	case "enter", "right", "l":
		if m.cursor >= len(m.browserItems) {
			return m, nil
		}
		item := m.browserItems[m.cursor]
		if item.isDir {
			m.browserDir = item.path
			m.cursor = 0
			m.loadBrowserItems()
			return m, nil
		}
		return m.openInput(item.path)
	}
	return m, nil
}

func (m *interactiveModel) loadBrowserItems() {
	m.browserItems = nil

	entries, err := os.ReadDir(m.browserDir)
	if err != nil {
		return
	}

	// Üst dizin (.. )
	parent := filepath.Dir(m.browserDir)
	if parent != m.browserDir {
		m.browserItems = append(m.browserItems, browserEntry{
			name:  ".. (üst dizin)",
			path:  parent,
			isDir: true,
		})
	}

	var dirs []browserEntry
	var files []browserEntry

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue // Gizli dosyaları atla
		}

		fullPath := filepath.Join(m.browserDir, e.Name())

		if e.IsDir() {
			dirs = append(dirs, browserEntry{name: e.Name(), path: fullPath, isDir: true})
		} else if isMediaFile(e.Name()) {
			files = append(files, browserEntry{name: e.Name(), path: fullPath})
		}
	}

	// Önce klasörler, sonra dosyalar
	m.browserItems = append(m.browserItems, dirs...)
	m.browserItems = append(m.browserItems, files...)
}

func (m interactiveModel) viewFileBrowser() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(breadcrumbStyle.Render("  ✂️  TrimView › Dosya Seç"))
	b.WriteString("\n\n")

	b.WriteString(menuTitleStyle.Render(" ◆ Video Seçin "))
	b.WriteString("\n")

	b.WriteString(pathStyle.Render(fmt.Sprintf("  📁 %s", shortenPath(m.browserDir))))
	b.WriteString("\n\n")

	if len(m.browserItems) == 0 {
		b.WriteString(errorStyle.Render("  Bu dizinde medya dosyası veya klasör bulunamadı!"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("  ← Üst dizin  •  q Çıkış"))
		b.WriteString("\n")
		return b.String()
	}

	// Sayfala
	pageSize := max(m.height-14, 5)
	startIdx := 0
	if m.cursor >= pageSize {
		startIdx = m.cursor - pageSize + 1
	}
	endIdx := min(startIdx+pageSize, len(m.browserItems))

	for i := startIdx; i < endIdx; i++ {
		item := m.browserItems[i]

		if item.isDir {
			if i == m.cursor {
				b.WriteString(selectedItemStyle.Render(fmt.Sprintf("▸ 📁 %s/", item.name)))
			} else {
				b.WriteString(normalItemStyle.Render(fmt.Sprintf("  📁 %s/", folderStyle.Render(item.name))))
			}
		} else {
			if i == m.cursor {
				b.WriteString(selectedFileStyle.Render(fmt.Sprintf("▸ 🎬 %s", item.name)))
			} else {
				b.WriteString(normalItemStyle.Render(fmt.Sprintf("  🎬 %s", item.name)))
			}
		}
		b.WriteString("\n")
	}

	fileCount := 0
	dirCount := 0
	for _, item := range m.browserItems {
		if item.isDir {
			dirCount++
		} else {
			fileCount++
		}
	}

	b.WriteString("\n")
	info := fmt.Sprintf("  %d dosya", fileCount)
	if dirCount > 0 {
		info += fmt.Sprintf(", %d klasör", dirCount)
	}
	b.WriteString(infoStyle.Render(info))
	if len(m.browserItems) > pageSize {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d-%d arası)", startIdx+1, endIdx)))
	}
	b.WriteString("\n")

	if m.status != "" && m.statusErr {
		b.WriteString(errorStyle.Render("  ❌ " + m.status))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("  ↑↓ Gezin  •  Enter Seç/Gir  •  ← Üst dizin  •  Esc Geri  •  q Çıkış"))
	b.WriteString("\n")
	return b.String()
}
