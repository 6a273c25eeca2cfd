// Package ui is the terminal front end: it turns key events into session
// actions and draws the session with tcell.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qcalc/internal/config"
	"github.com/kobzarvs/qcalc/internal/engine"
	"github.com/kobzarvs/qcalc/internal/history"
	"github.com/kobzarvs/qcalc/internal/logger"
	"github.com/kobzarvs/qcalc/internal/solver"
)

type Mode int

const (
	ModeCalculator Mode = iota
	ModeEquation
)

type keymapSet struct {
	calculator map[string]string
	equation   map[string]string
}

// UI owns one engine session and its history.
type UI struct {
	session *engine.Session
	history *history.List
	keymap  keymapSet
	mode    Mode

	equation      []rune
	statusMessage string
	exportDir     string
	dirty         bool

	styleMain          tcell.Style
	styleDisplay       tcell.Style
	stylePrevious      tcell.Style
	stylePreview       tcell.Style
	styleError         tcell.Style
	styleStatus        tcell.Style
	styleIndicator     tcell.Style
	styleHistory       tcell.Style
	styleHistoryResult tcell.Style
	styleKeyHint       tcell.Style

	// actionHook sees every action before it runs. Tests only.
	actionHook func(action string)
}

// New builds the session from cfg and registers the UI as its display.
func New(cfg config.Config, h *history.List) *UI {
	calculator := make(map[string]string, len(cfg.Keymap.Calculator))
	for k, v := range cfg.Keymap.Calculator {
		calculator[k] = v
	}
	equation := make(map[string]string, len(cfg.Keymap.Equation))
	for k, v := range cfg.Keymap.Equation {
		equation[k] = v
	}

	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorWhite)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorBlack)
	displayFg := parseColor(cfg.Theme.DisplayForeground, mainFg)
	displayBg := parseColor(cfg.Theme.DisplayBackground, mainBg)
	previousFg := parseColor(cfg.Theme.PreviousForeground, tcell.ColorGray)
	previewFg := parseColor(cfg.Theme.PreviewForeground, tcell.ColorGreen)
	errorFg := parseColor(cfg.Theme.ErrorForeground, tcell.ColorRed)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, tcell.ColorGray)
	indicatorFg := parseColor(cfg.Theme.IndicatorForeground, tcell.ColorYellow)
	historyFg := parseColor(cfg.Theme.HistoryForeground, mainFg)
	historyResultFg := parseColor(cfg.Theme.HistoryResultForeground, tcell.ColorBlue)
	keyHintFg := parseColor(cfg.Theme.KeyHintForeground, tcell.ColorGray)

	exportDir, err := config.ConfigDir()
	if err != nil {
		exportDir = "."
	}

	u := &UI{
		history:            h,
		keymap:             keymapSet{calculator: calculator, equation: equation},
		exportDir:          exportDir,
		styleMain:          tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleDisplay:       tcell.StyleDefault.Foreground(displayFg).Background(displayBg).Bold(true),
		stylePrevious:      tcell.StyleDefault.Foreground(previousFg).Background(displayBg),
		stylePreview:       tcell.StyleDefault.Foreground(previewFg).Background(mainBg),
		styleError:         tcell.StyleDefault.Foreground(errorFg).Background(mainBg),
		styleStatus:        tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		styleIndicator:     tcell.StyleDefault.Foreground(indicatorFg).Background(statusBg).Bold(true),
		styleHistory:       tcell.StyleDefault.Foreground(historyFg).Background(mainBg),
		styleHistoryResult: tcell.StyleDefault.Foreground(historyResultFg).Background(mainBg),
		styleKeyHint:       tcell.StyleDefault.Foreground(keyHintFg).Background(mainBg),
	}
	u.session = engine.New(engine.Config{
		Angle:            cfg.Calculator.Angle(),
		Format:           cfg.Calculator.Format(),
		Precision:        cfg.Calculator.Precision,
		ExpressionLimit:  cfg.Calculator.ExpressionMemoryLimit,
		SolverIterations: cfg.Calculator.SolverIterations,
	}, h, u)
	return u
}

func (u *UI) Session() *engine.Session { return u.session }
func (u *UI) History() *history.List   { return u.history }
func (u *UI) Mode() Mode               { return u.mode }
func (u *UI) Equation() string         { return string(u.equation) }

// SetExportDir sets where history exports are written.
func (u *UI) SetExportDir(dir string) { u.exportDir = dir }

// OnBufferChanged marks the screen for redraw.
func (u *UI) OnBufferChanged(text string, cursor int) {
	u.dirty = true
}

// ConsumeDirty reports whether the session changed since the last call.
func (u *UI) ConsumeDirty() bool {
	d := u.dirty
	u.dirty = false
	return d
}

// HandleKey runs the key's action. It returns true when the UI should quit.
func (u *UI) HandleKey(ev *tcell.EventKey) bool {
	u.statusMessage = ""
	if u.mode == ModeEquation {
		return u.handleEquation(ev)
	}
	return u.handleCalculator(ev)
}

func (u *UI) handleCalculator(ev *tcell.EventKey) bool {
	key := keyString(ev)
	if key != "" {
		if action, ok := u.keymap.calculator[key]; ok {
			return u.execAction(action)
		}
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) == 0 {
		u.session.Insert(string(ev.Rune()))
	}
	return false
}

func (u *UI) handleEquation(ev *tcell.EventKey) bool {
	key := keyString(ev)
	if key != "" {
		if action, ok := u.keymap.equation[key]; ok {
			return u.execAction(action)
		}
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) == 0 {
		u.equation = append(u.equation, ev.Rune())
		u.dirty = true
	}
	return false
}

// execAction runs a keymap action. Actions take an optional argument after
// a space, e.g. "press pi" or "use-expression 0".
func (u *UI) execAction(action string) bool {
	if u.actionHook != nil {
		u.actionHook(action)
	}
	name, arg, _ := strings.Cut(action, " ")
	switch name {
	case "quit":
		return true
	case "enter-equation":
		u.mode = ModeEquation
	case "leave-equation":
		u.mode = ModeCalculator
	case "equation-delete":
		if n := len(u.equation); n > 0 {
			u.equation = u.equation[:n-1]
		}
	case "equation-clear":
		u.equation = u.equation[:0]
	case engine.ActSolveLinear, engine.ActSolveQuadratic:
		u.solve(name)
	case "export-text":
		u.export("history.txt", u.history.ExportText())
	case "export-csv":
		u.export("history.csv", u.history.ExportCSV())
	default:
		if err := u.session.Dispatch(engine.Action{Name: name, Text: arg}); err != nil {
			logger.Warn("action failed", "action", action, "error", err)
			u.statusMessage = err.Error()
		}
	}
	u.dirty = true
	return false
}

func (u *UI) solve(name string) {
	mode := solver.Linear
	if name == engine.ActSolveQuadratic {
		mode = solver.Quadratic
	}
	if strings.TrimSpace(string(u.equation)) == "" {
		u.statusMessage = "Type an equation in x first"
		return
	}
	u.session.Solve(string(u.equation), mode)
}

func (u *UI) export(name, content string) {
	if err := os.MkdirAll(u.exportDir, 0o755); err != nil {
		u.statusMessage = err.Error()
		return
	}
	path := filepath.Join(u.exportDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		logger.Error("export failed", "path", path, "error", err)
		u.statusMessage = err.Error()
		return
	}
	logger.Info("history exported", "path", path, "entries", u.history.Len())
	u.statusMessage = fmt.Sprintf("Exported %d entries to %s", u.history.Len(), path)
}
