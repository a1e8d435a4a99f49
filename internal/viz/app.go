package viz

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/trendscatter/internal/controls"
	"github.com/san-kum/trendscatter/internal/dataset"
	"github.com/san-kum/trendscatter/internal/engine"
	"github.com/san-kum/trendscatter/internal/render"
	"github.com/san-kum/trendscatter/internal/theme"
)

const (
	frameRate   = time.Second / 30
	gutterWidth = 6
	headerRows  = 2
	panelWidth  = 34
)

type frameMsg time.Time

// invokeMsg carries a timer callback onto the program's event loop.
type invokeMsg struct{ f func() }

type loadedMsg struct {
	result *dataset.LoadResult
	err    error
}

// Options configures the terminal chart.
type Options struct {
	Title    string
	Theme    string
	Autoplay bool
	// Canvas size in terminal cells.
	Cols, Rows int
	Load       func() (*dataset.LoadResult, error)
	Logger     *slog.Logger
}

// App is the bubbletea model around an engine. The engine is only touched
// from Update.
type App struct {
	eng  *engine.Engine
	opts Options
	log  *slog.Logger

	theme      theme.Theme
	keys       keyMap
	help       help.Model
	canvas     *Canvas
	plot       plot
	categories []string
	counts     []float64
	problems   int
	duplicates []error

	ready bool
	frame int
	err   error
}

func NewApp(eng *engine.Engine, layout render.Layout, opts Options) *App {
	if opts.Cols <= 0 {
		opts.Cols = 60
	}
	if opts.Rows <= 0 {
		opts.Rows = 18
	}
	if opts.Title == "" {
		opts.Title = "trendscatter"
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		eng:    eng,
		opts:   opts,
		log:    opts.Logger.With("component", "viz"),
		theme:  theme.Get(opts.Theme),
		keys:   defaultKeys(),
		help:   help.New(),
		canvas: NewCanvas(opts.Cols, opts.Rows),
		plot: plot{
			cols: opts.Cols, rows: opts.Rows,
			width: layout.Width, height: layout.Height,
			left: gutterWidth, top: headerRows,
		},
	}
}

// Err is the error that ended the program, if any.
func (m *App) Err() error { return m.err }

func (m *App) Ready() bool { return m.ready }

func (m *App) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *App) load() tea.Cmd {
	load := m.opts.Load
	return func() tea.Msg {
		if load == nil {
			return loadedMsg{err: errors.New("no dataset source")}
		}
		res, err := load()
		return loadedMsg{result: res, err: err}
	}
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return m, m.loaded(msg)
	case invokeMsg:
		msg.f()
	case frameMsg:
		m.frame++
		return m, tick()
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m *App) loaded(msg loadedMsg) tea.Cmd {
	if msg.err != nil {
		return m.fail(fmt.Errorf("load dataset: %w", msg.err))
	}
	for _, p := range msg.result.Problems {
		m.log.Warn("skipped row", "err", p)
	}
	records := msg.result.Records
	m.duplicates = dataset.Validate(records)
	for _, d := range m.duplicates {
		m.log.Warn("duplicate record", "err", d)
	}
	if err := m.eng.Initialize(records); err != nil {
		return m.fail(fmt.Errorf("initialize: %w", err))
	}

	years := m.eng.Store.Years()
	m.categories = dataset.Categories(records)
	m.counts = dataset.CountByYear(records, years.Min(), years.Max())
	m.problems = len(msg.result.Problems)
	m.ready = true
	m.log.Info("dataset ready", "records", len(records), "years", years.Len())

	if m.opts.Autoplay {
		if err := m.eng.Store.ToggleAnimation(); err != nil {
			return m.fail(err)
		}
	}
	return nil
}

func (m *App) fail(err error) tea.Cmd {
	m.log.Error("fatal", "err", err)
	m.err = err
	return m.quit()
}

func (m *App) quit() tea.Cmd {
	m.eng.Scheduler.Stop()
	return tea.Quit
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Theme):
		m.theme = theme.Next(m.theme.Name)
		return nil
	}
	if !m.ready {
		return nil
	}
	if _, err := controls.HandleKey(msg.String(), m.eng.Store); err != nil {
		m.log.Warn("toggle failed", "err", err)
	}
	return nil
}

func (m *App) handleMouse(msg tea.MouseMsg) {
	if !m.ready {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && msg.Y == 0 && msg.X < lipgloss.Width(m.button()) {
			if err := m.eng.Store.ToggleAnimation(); err != nil {
				m.log.Warn("toggle failed", "err", err)
			}
		}
	case tea.MouseActionMotion:
		if px, py, ok := m.plot.fromCell(msg.X, msg.Y); ok {
			m.eng.Scene.PointerMove(px, py)
		} else {
			m.eng.Scene.PointerLeave()
		}
	}
}

func (m *App) button() string {
	if m.eng.Controls.Playing() {
		return StatusRunning.Render("[ ❚❚ pause ]")
	}
	return StatusPaused.Render("[ ▶ play ]")
}

func (m *App) View() string {
	if m.err != nil {
		return ErrorStyle.Render("error: "+m.err.Error()) + "\n"
	}
	if !m.ready {
		return fmt.Sprintf("\n  %s loading dataset...\n", AnimatedSpinner(m.frame))
	}

	header := m.button() + "  " + GradientText(m.opts.Title, m.theme.Primary, m.theme.Secondary)

	drawChart(m.canvas, m.plot, m.eng.Scene.Snapshot(), m.eng.Scene.Hovered(), m.theme, m.categories)
	axes := m.eng.Scene.Axes()
	chart := lipgloss.JoinHorizontal(lipgloss.Top, yAxis(m.plot, axes, gutterWidth), m.canvas.Render())
	chart = lipgloss.JoinVertical(lipgloss.Left, chart, xAxis(m.plot, axes, gutterWidth))

	body := lipgloss.JoinHorizontal(lipgloss.Top, chart, "  ", m.panel())
	return header + "\n\n" + body + "\n"
}

func (m *App) panel() string {
	var s strings.Builder
	years := m.eng.Store.Years()
	sel := m.eng.Store.Selection()

	s.WriteString(YearStyle.Foreground(m.theme.Text).Render(m.eng.Controls.Label()) + "  ")
	if m.eng.Controls.Playing() {
		s.WriteString(StatusRunning.Render(m.eng.Controls.Indicator()))
	} else {
		s.WriteString(StatusPaused.Render(m.eng.Controls.Indicator()))
	}
	s.WriteString("\n")
	progress := 0.0
	if years.Len() > 1 {
		progress = float64(years.Index(sel.Year)) / float64(years.Len()-1)
	}
	s.WriteString(Timeline(progress, panelWidth-6) + "\n\n")

	if text := m.eng.Tooltip.Text(); text != "" {
		s.WriteString(TooltipStyle.Render(text) + "\n\n")
	} else {
		s.WriteString(Subtle.Render("hover a point") + "\n\n")
	}

	st := m.eng.Renderer.Stats()
	s.WriteString(MetricLabel.Render("visible") + MetricValue.Render(fmt.Sprint(m.eng.Scene.Len())) + "\n")
	s.WriteString(MetricLabel.Render("entered") + MetricValue.Render(fmt.Sprint(st.Entered)) + "\n")
	s.WriteString(MetricLabel.Render("exited") + MetricValue.Render(fmt.Sprint(st.Exited)) + "\n")
	if m.problems > 0 {
		s.WriteString(MetricLabel.Render("skipped") + ErrorStyle.Render(fmt.Sprint(m.problems)) + "\n")
	}
	if len(m.duplicates) > 0 {
		s.WriteString(MetricLabel.Render("duplicate") + ErrorStyle.Render(fmt.Sprint(len(m.duplicates))) + "\n")
		var die *dataset.DataIntegrityError
		if errors.As(m.duplicates[0], &die) {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("%s/%d", die.Entity, die.Year)) + "\n")
		}
	}

	if len(m.counts) > 1 {
		graph := asciigraph.Plot(m.counts,
			asciigraph.Height(4),
			asciigraph.Width(panelWidth-12),
			asciigraph.Caption("entities per year"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(m.theme.Secondary).Render(graph) + "\n")
	}

	s.WriteString("\n" + Separator(panelWidth-4) + "\n")
	s.WriteString(legend(m.theme, m.categories) + "\n\n")
	s.WriteString(m.help.View(m.keys))

	return GlassPanel.BorderForeground(m.theme.Muted).Width(panelWidth).Render(s.String())
}

// Run starts the terminal chart. Timer callbacks are sent to the program and
// run inside Update.
func Run(cfg engine.Config, opts Options) error {
	var p *tea.Program
	cfg.Dispatch = func(f func()) { p.Send(invokeMsg{f: f}) }
	cfg.Logger = opts.Logger

	layout := cfg.Layout
	app := NewApp(engine.New(cfg), layout, opts)
	p = tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return app.Err()
}
