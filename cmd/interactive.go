package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mlihgenel/trimview-cli/internal/config"
	"github.com/mlihgenel/trimview-cli/internal/logging"
	"github.com/mlihgenel/trimview-cli/internal/media"
	"github.com/mlihgenel/trimview-cli/internal/preview"
	"github.com/mlihgenel/trimview-cli/internal/trim"
	"github.com/mlihgenel/trimview-cli/internal/ui"
	"github.com/mlihgenel/trimview-cli/internal/watch"
)

// ========================================
// Renk paleti ve stiller
// ========================================

var (
	primaryColor   = lipgloss.Color("#7C3AED")
	secondaryColor = lipgloss.Color("#06B6D4")
	accentColor    = lipgloss.Color("#10B981")
	warningColor   = lipgloss.Color("#F59E0B")
	dangerColor    = lipgloss.Color("#EF4444")
	textColor      = lipgloss.Color("#E2E8F0")
	dimTextColor   = lipgloss.Color("#64748B")

	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 2).
			MarginBottom(1)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(secondaryColor).
				PaddingLeft(2)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(textColor).
			PaddingLeft(4)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimTextColor)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(dangerColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	pathStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	resultBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 3).
			MarginTop(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimTextColor).
			Padding(0, 1)

	activePanelStyle = panelStyle.
				BorderForeground(secondaryColor)

	breadcrumbStyle = lipgloss.NewStyle().
			Foreground(dimTextColor).
			PaddingLeft(2)

	selectedFileStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				PaddingLeft(2)

	folderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)
)

// Spinner karakterleri
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Kaydırma adımları (saniye)
var stepSizes = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60}

const (
	defaultStepIndex = 2
	watchSettle      = 1500 * time.Millisecond
	watchInterval    = 500 * time.Millisecond
)

// ========================================
// Ekran durumları
// ========================================

type screenState int

const (
	stateBrowser screenState = iota
	stateEditor
	stateEditTime
	stateEditOutput
	stateTrimming
	stateHelp
)

// ========================================
// Mesajlar
// ========================================

type tickMsg time.Time

type previewDoneMsg struct {
	result preview.Result
}

type trimDoneMsg struct {
	outcome trim.Outcome
	err     error
}

type watchTickMsg struct{ gen int }

type watchEventMsg struct{ gen int }

// trimRunner kırpma işlemini çalıştıran bileşen
type trimRunner interface {
	Execute(ctx context.Context, p trim.Params) (trim.Outcome, error)
}

// editorDeps editörün dış bağımlılıkları
type editorDeps struct {
	prober trim.Prober
	source preview.FrameSource
	runner trimRunner
	watch  bool
}

// ========================================
// Model
// ========================================

type interactiveModel struct {
	state     screenState
	prevState screenState
	ctx       context.Context
	deps      editorDeps

	coord *preview.Coordinator
	rec   *trim.Reconciler

	// Dosya tarayıcısı
	cursor       int
	browserDir   string
	browserItems []browserEntry

	// Editör
	active    trim.Endpoint
	stepIndex int
	textInput string
	frames    [2]*media.PreviewResult
	rendered  [2]string
	frameErr  [2]string

	status    string
	statusErr bool

	trimCancel  context.CancelFunc
	lastOutcome *trim.Outcome

	watcher   watch.Engine
	watchGen  int
	watchDone chan struct{}

	width       int
	height      int
	spinnerTick int
	quitting    bool
}

func newInteractiveModel(ctx context.Context, deps editorDeps) interactiveModel {
	dir := config.LastInputDir()
	if dir == "" {
		if cwd, err := os.Getwd(); err == nil {
			dir = cwd
		} else {
			dir = getHomeDir()
		}
	}

	coord := preview.NewCoordinator(ctx)
	m := interactiveModel{
		state:      stateBrowser,
		ctx:        ctx,
		deps:       deps,
		coord:      coord,
		rec:        trim.NewReconciler(deps.prober, coord),
		browserDir: dir,
		active:     trim.EndpointStart,
		stepIndex:  defaultStepIndex,
		width:      100,
		height:     32,
	}
	m.loadBrowserItems()
	return m
}

func (m interactiveModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func watchTickCmd(gen int) tea.Cmd {
	return tea.Tick(watchInterval, func(time.Time) tea.Msg {
		return watchTickMsg{gen: gen}
	})
}

// waitWatchEvent fsnotify sinyalini bekler; izleyici değişince biter
func waitWatchEvent(events <-chan struct{}, done <-chan struct{}, gen int) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-events:
			return watchEventMsg{gen: gen}
		case <-done:
			return nil
		}
	}
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderFrames()
		return m, nil

	case tickMsg:
		m.spinnerTick++
		return m, tickCmd()

	case previewDoneMsg:
		return m.applyPreview(msg.result), nil

	case trimDoneMsg:
		return m.finishTrim(msg), nil

	case watchTickMsg:
		if msg.gen != m.watchGen || m.watcher == nil {
			return m, nil
		}
		return m.pollWatcher(watchTickCmd(msg.gen))

	case watchEventMsg:
		if msg.gen != m.watchGen || m.watcher == nil {
			return m, nil
		}
		return m.pollWatcher(waitWatchEvent(m.watcher.Events(), m.watchDone, msg.gen))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.state {
		case stateHelp:
			return m.closeHelp(), nil
		case stateBrowser:
			return m.updateBrowser(msg)
		case stateEditor:
			return m.updateEditor(msg)
		case stateEditTime, stateEditOutput:
			return m.updateTextInput(msg)
		case stateTrimming:
			if msg.String() == "esc" && m.trimCancel != nil {
				m.trimCancel()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m interactiveModel) closeHelp() interactiveModel {
	if err := config.MarkFirstRunDone(); err != nil {
		logging.L().WithError(err).Warn("ayar dosyası yazılamadı")
	}
	m.state = m.prevState
	return m
}

// ========================================
// Editör
// ========================================

func (m interactiveModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.prevState = stateEditor
		m.state = stateHelp
		return m, nil

	case "b":
		m.state = stateBrowser
		m.status = ""
		m.loadBrowserItems()
		return m, nil

	case "tab":
		if m.active == trim.EndpointStart {
			m.active = trim.EndpointEnd
		} else {
			m.active = trim.EndpointStart
		}
		return m, nil

	case "left", "h":
		cmd := m.nudge(-stepSizes[m.stepIndex])
		return m, cmd

	case "right", "l":
		cmd := m.nudge(stepSizes[m.stepIndex])
		return m, cmd

	case "home":
		cmd := m.launch(m.rec.SetFromSlider(m.active, 0))
		return m, cmd

	case "end":
		cmd := m.launch(m.rec.SetFromSlider(m.active, m.trackDuration()))
		return m, cmd

	case "[":
		if m.stepIndex > 0 {
			m.stepIndex--
		}
		return m, nil

	case "]":
		if m.stepIndex < len(stepSizes)-1 {
			m.stepIndex++
		}
		return m, nil

	case "e", "enter":
		m.textInput = media.FormatSeconds(m.endpointValue())
		m.state = stateEditTime
		return m, nil

	case "p":
		m.textInput = m.rec.Params().OutputPath
		m.state = stateEditOutput
		return m, nil

	case "v":
		m.setToggleStatus("Video", m.rec.Toggle(media.KindVideo))
		return m, nil
	case "a":
		m.setToggleStatus("Ses", m.rec.Toggle(media.KindAudio))
		return m, nil
	case "s":
		m.setToggleStatus("Altyazı", m.rec.Toggle(media.KindSubtitle))
		return m, nil
	case "o":
		m.setToggleStatus("Diğer track'ler", m.rec.Toggle(media.KindData))
		return m, nil

	case "r":
		jobs, err := m.rec.Reprobe(m.ctx)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus("Girdi yeniden okundu", false)
		cmd := m.launch(jobs)
		return m, cmd

	case "ctrl+s", "shift+enter":
		return m.startTrim()
	}
	return m, nil
}

func (m *interactiveModel) nudge(delta float64) tea.Cmd {
	return m.launch(m.rec.SetFromSlider(m.active, m.endpointValue()+delta))
}

func (m interactiveModel) endpointValue() float64 {
	p := m.rec.Params()
	if m.active == trim.EndpointEnd {
		return p.End
	}
	return p.Start
}

func (m interactiveModel) trackDuration() float64 {
	info, _ := m.rec.TrackInfo()
	return info.DurationSeconds
}

func (m *interactiveModel) setToggleStatus(name string, on bool) {
	state := "kapalı"
	if on {
		state = "açık"
	}
	m.setStatus(fmt.Sprintf("%s kopyalama %s", name, state), false)
}

func (m *interactiveModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// updateTextInput süre ya da çıktı yolu düzenlemesi
func (m interactiveModel) updateTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = stateEditor
		m.textInput = ""
		return m, nil
	case tea.KeyBackspace:
		if r := []rune(m.textInput); len(r) > 0 {
			m.textInput = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeyEnter:
		if m.state == stateEditOutput {
			return m.commitOutput()
		}
		return m.commitTime()
	case tea.KeyRunes, tea.KeySpace:
		for _, r := range msg.Runes {
			if m.state == stateEditTime && !strings.ContainsRune("0123456789:.,-", r) {
				continue
			}
			m.textInput += string(r)
		}
	}
	return m, nil
}

func (m interactiveModel) commitTime() (tea.Model, tea.Cmd) {
	value, err := parseTimeValue(m.textInput)
	if err != nil {
		m.setStatus(fmt.Sprintf("Geçersiz zaman: %s", err.Error()), true)
		return m, nil
	}
	m.state = stateEditor
	m.textInput = ""
	m.rec.OnNumericEdit(m.active, value)
	m.status = ""
	cmd := m.launch(m.rec.Reconcile())
	return m, cmd
}

func (m interactiveModel) commitOutput() (tea.Model, tea.Cmd) {
	m.state = stateEditor
	m.rec.OnOutputEdited(strings.TrimSpace(m.textInput))
	m.textInput = ""
	jobs := m.rec.Reconcile()
	m.setStatus(fmt.Sprintf("Çıktı: %s", shortenPath(m.rec.Params().OutputPath)), false)
	cmd := m.launch(jobs)
	return m, cmd
}

// ========================================
// Girdi yükleme ve ön izleme
// ========================================

// openInput girdiyi yükler; hata olursa mevcut durum korunur
func (m interactiveModel) openInput(path string) (tea.Model, tea.Cmd) {
	previous := m.rec.Params().InputPath
	jobs, err := m.rec.OnInputChanged(m.ctx, path)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	if path != previous {
		m.frames = [2]*media.PreviewResult{}
		m.rendered = [2]string{}
		m.frameErr = [2]string{}
		m.lastOutcome = nil
	}
	if err := config.RememberInput(path); err != nil {
		logging.L().WithError(err).Debug("son dizin kaydedilemedi")
	}

	m.state = stateEditor
	m.active = trim.EndpointStart
	m.setStatus(fmt.Sprintf("Yüklendi: %s", filepath.Base(path)), false)
	info, _ := m.rec.TrackInfo()
	if !info.HasVideo {
		m.setStatus("Girdide video yok; ön izleme gösterilmeyecek", false)
	}

	cmds := []tea.Cmd{m.launch(jobs)}
	if m.deps.watch {
		cmds = append(cmds, m.startWatcher(path)...)
	}
	return m, tea.Batch(cmds...)
}

// launch işleri arka planda çalıştıran komutları üretir
func (m *interactiveModel) launch(jobs []*preview.Job) tea.Cmd {
	if len(jobs) == 0 {
		return nil
	}
	for _, job := range jobs {
		m.frameErr[job.Slot] = ""
	}
	ctx, src := m.ctx, m.deps.source
	cmds := make([]tea.Cmd, 0, len(jobs))
	for _, job := range jobs {
		cmds = append(cmds, func() tea.Msg {
			return previewDoneMsg{result: job.Run(ctx, src)}
		})
	}
	return tea.Batch(cmds...)
}

func (m interactiveModel) applyPreview(result preview.Result) interactiveModel {
	d, ok := m.coord.Deliver(result)
	if !ok {
		return m
	}
	switch {
	case d.Frame != nil:
		m.frames[d.Slot] = d.Frame
		m.frameErr[d.Slot] = ""
		m.renderSlot(d.Slot)
	case d.Err != nil:
		m.frameErr[d.Slot] = d.Err.Error()
	}
	return m
}

// panelSize ön izleme panelinin hücre boyutu
func (m interactiveModel) panelSize() (int, int) {
	cols := max((m.width-10)/2, 16)
	rows := max(m.height-16, 6)
	// 16:9 kare iki piksel/hücre ile cols x cols*9/32 hücre kaplar
	rows = min(rows, max(cols*9/32, 4))
	return cols, rows
}

func (m *interactiveModel) renderSlot(slot preview.Slot) {
	frame := m.frames[slot]
	if frame == nil {
		m.rendered[slot] = ""
		return
	}
	cols, rows := m.panelSize()
	m.rendered[slot] = ui.RenderHalfBlocks(frame.Image(), cols, rows)
}

func (m *interactiveModel) renderFrames() {
	m.renderSlot(preview.SlotStart)
	m.renderSlot(preview.SlotEnd)
}

// ========================================
// Kırpma
// ========================================

func (m interactiveModel) startTrim() (tea.Model, tea.Cmd) {
	params := m.rec.Params()
	if err := params.Validate(); err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.trimCancel = cancel
	m.state = stateTrimming
	m.status = ""
	runner := m.deps.runner
	return m, func() tea.Msg {
		defer cancel()
		outcome, err := runner.Execute(ctx, params)
		return trimDoneMsg{outcome: outcome, err: err}
	}
}

func (m interactiveModel) finishTrim(msg trimDoneMsg) interactiveModel {
	m.state = stateEditor
	m.trimCancel = nil
	switch {
	case msg.err != nil:
		m.setStatus(msg.err.Error(), true)
	case msg.outcome.Skipped:
		m.setStatus(fmt.Sprintf("Çıktı zaten var, atlandı: %s", shortenPath(msg.outcome.OutputPath)), false)
	default:
		outcome := msg.outcome
		m.lastOutcome = &outcome
		m.setStatus(fmt.Sprintf("Kırpıldı → %s (%s)", shortenPath(outcome.OutputPath), formatDuration(outcome.Elapsed)), false)
	}
	return m
}

// ========================================
// Girdi izleme
// ========================================

func (m *interactiveModel) startWatcher(path string) []tea.Cmd {
	m.stopWatcher()

	engine, err := watch.NewAdaptiveWatcher(path, watchSettle)
	if err != nil {
		logging.L().WithError(err).Debug("fsnotify kullanılamıyor, polling'e geçildi")
	}
	if err := engine.Bootstrap(); err != nil {
		// fsnotify dizini ekleyemezse polling yeterli
		logging.L().WithError(err).Debug("izleyici başlatılamadı")
		_ = engine.Close()
		engine = watch.NewWatcher(path, watchSettle)
		if err := engine.Bootstrap(); err != nil {
			return nil
		}
	}

	m.watchGen++
	m.watcher = engine
	m.watchDone = make(chan struct{})
	logging.L().WithField("mode", engine.Mode()).WithField("input", path).Debug("girdi izleniyor")

	return []tea.Cmd{
		watchTickCmd(m.watchGen),
		waitWatchEvent(engine.Events(), m.watchDone, m.watchGen),
	}
}

func (m *interactiveModel) stopWatcher() {
	if m.watcher == nil {
		return
	}
	close(m.watchDone)
	_ = m.watcher.Close()
	m.watcher = nil
	m.watchDone = nil
}

func (m interactiveModel) pollWatcher(next tea.Cmd) (tea.Model, tea.Cmd) {
	changed, err := m.watcher.Poll(time.Now())
	if err != nil {
		logging.L().WithError(err).Debug("girdi izleme hatası")
	}
	if !changed || m.state == stateTrimming {
		return m, next
	}

	jobs, err := m.rec.Reprobe(m.ctx)
	if err != nil {
		m.setStatus(fmt.Sprintf("Girdi değişti ama okunamadı: %s", err.Error()), true)
		return m, next
	}
	m.setStatus("Girdi diskte değişti, yeniden okundu", false)
	cmd := m.launch(jobs)
	return m, tea.Batch(next, cmd)
}

// ========================================
// Giriş noktası
// ========================================

// RunInteractive kırpma editörünü başlatır. input boş değilse doğrudan açılır.
func RunInteractive(input string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := editorDeps{
		prober: media.NewProber(tools),
		source: newDecoder(),
		runner: trim.Executor{FFmpeg: tools.FFmpeg, Policy: conflictPolicy},
		watch:  projectCfg.WatchInput,
	}
	firstRun := config.IsFirstRun()
	m := newInteractiveModel(ctx, deps)
	if missing := tools.Missing(); len(missing) > 0 {
		m.setStatus(fmt.Sprintf("%s bulunamadı; kurulum için: trimview-cli doctor", strings.Join(missing, ", ")), true)
	}

	var initCmd tea.Cmd
	if input != "" {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		opened, cmd := m.openInput(abs)
		m = opened.(interactiveModel)
		initCmd = cmd
	}
	if firstRun {
		m.prevState = m.state
		m.state = stateHelp
	}

	p := tea.NewProgram(startModel{interactiveModel: m, initCmd: initCmd}, tea.WithAltScreen())
	final, err := p.Run()

	m.coord.CancelAll()
	if sm, ok := final.(startModel); ok {
		sm.stopWatcher()
	} else if im, ok := final.(interactiveModel); ok {
		im.stopWatcher()
	}
	return err
}

// startModel ilk Init'e girdi yüklemesinin komutlarını ekler
type startModel struct {
	interactiveModel
	initCmd tea.Cmd
}

func (s startModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), s.initCmd)
}
