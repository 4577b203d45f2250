package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"thoughtgraph/application/visualization"
	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/valueobjects"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/interfaces/render"
	"thoughtgraph/pkg/utils"
)

const (
	headerLines     = 1
	footerLines     = 3
	doubleClickGap  = 400 * time.Millisecond
	wheelZoomFactor = 1.1
	panCells        = 4
)

type frameMsg time.Time

type searchSettledMsg struct{ query string }

type thresholdSettledMsg struct{ value float64 }

type resizeSettledMsg struct{}

type storeChangedMsg struct{}

// mouseState tracks an in-progress press
type mouseState struct {
	dragging    string
	panning     bool
	moved       bool
	lastX       int
	lastY       int
	lastClickID string
	lastClickAt time.Time
}

// Model is the bubbletea model of the graph view
type Model struct {
	ctx      context.Context
	session  *visualization.Session
	viewport *render.Viewport
	config   *config.DomainConfig
	logger   *zap.Logger
	send     func(tea.Msg)
	now      func() time.Time

	search            textinput.Model
	searchDebounce    *utils.Debouncer
	thresholdDebounce *utils.Debouncer
	resizeDebounce    *utils.Debouncer

	width, height    int
	initialized      bool
	framesActive     bool
	pendingThreshold float64
	detail           *visualization.Detail
	cursor           int
	mouse            mouseState
	quitting         bool
}

// NewModel creates the graph view model around a session
func NewModel(ctx context.Context, session *visualization.Session, cfg *config.DomainConfig, logger *zap.Logger) *Model {
	search := textinput.New()
	search.Placeholder = "search thoughts"
	search.Prompt = "/ "
	search.CharLimit = 120

	return &Model{
		ctx:               ctx,
		session:           session,
		viewport:          render.NewViewport(cfg.MinZoom, cfg.MaxZoom),
		config:            cfg,
		logger:            logger,
		now:               time.Now,
		search:            search,
		searchDebounce:    utils.NewDebouncer(cfg.SearchDebounce),
		thresholdDebounce: utils.NewDebouncer(cfg.SearchDebounce),
		resizeDebounce:    utils.NewDebouncer(cfg.ResizeSettle),
		pendingThreshold:  session.Threshold(),
		cursor:            -1,
	}
}

// SetSender connects the model to a running program so timer callbacks can
// deliver messages
func (m *Model) SetSender(send func(tea.Msg)) {
	m.send = send
}

func (m *Model) dispatch(msg tea.Msg) {
	if m.send != nil {
		m.send(msg)
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.handleResize(msg)

	case resizeSettledMsg:
		if err := m.session.Resize(m.ctx, m.canvasSize()); err != nil {
			m.logger.Warn("resize failed", zap.Error(err))
		}
		m.afterRebuild()
		return m, m.ensureFrames()

	case frameMsg:
		if m.session.Tick() || m.session.Animating() {
			return m, m.frame()
		}
		m.framesActive = false
		return m, nil

	case searchSettledMsg:
		m.session.SetSearchQuery(msg.query)
		return m, nil

	case thresholdSettledMsg:
		m.session.SetThreshold(m.ctx, msg.value)
		m.pendingThreshold = m.session.Threshold()
		m.afterRebuild()
		return m, m.ensureFrames()

	case storeChangedMsg:
		m.logger.Debug("entry store changed, rebuilding")
		if err := m.session.Initialize(m.ctx); err != nil {
			m.logger.Warn("rebuild failed", zap.Error(err))
		}
		m.afterRebuild()
		return m, m.ensureFrames()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) tea.Cmd {
	m.width, m.height = msg.Width, msg.Height
	m.search.Width = max(10, msg.Width-4)

	if !m.initialized {
		m.initialized = true
		if err := m.session.Resize(m.ctx, m.canvasSize()); err != nil {
			m.logger.Warn("initial resize failed", zap.Error(err))
		}
		if err := m.session.Initialize(m.ctx); err != nil {
			m.logger.Warn("initialize failed", zap.Error(err))
		}
		return m.ensureFrames()
	}

	m.resizeDebounce.Trigger(func() { m.dispatch(resizeSettledMsg{}) })
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		case "ctrl+c":
			return m, m.quit()
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		query := m.search.Value()
		m.searchDebounce.Trigger(func() { m.dispatch(searchSettledMsg{query: query}) })
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, m.quit()

	case "/":
		return m, m.search.Focus()

	case "+", "=":
		m.nudgeThreshold(1)
	case "-", "_":
		m.nudgeThreshold(-1)

	case "l":
		m.session.CycleLayoutMode(m.ctx)
		m.detail = nil
		return m, m.ensureFrames()

	case "tab":
		m.moveCursor(1)
	case "shift+tab":
		m.moveCursor(-1)

	case "enter":
		if id := m.session.Hovered(); id != "" {
			if d, ok := m.session.Click(id); ok {
				m.detail = &d
			}
		}

	case "e":
		if id := m.session.Hovered(); id != "" && m.session.DoubleClick(id) {
			return m, m.quit()
		}

	case "esc":
		m.detail = nil
		m.cursor = -1
		m.session.Unhover()

	case "r":
		m.viewport.Reset()

	case "up":
		m.viewport.Pan(0, panCells*cellHeight)
	case "down":
		m.viewport.Pan(0, -panCells*cellHeight)
	case "left":
		m.viewport.Pan(panCells*cellWidth, 0)
	case "right":
		m.viewport.Pan(-panCells*cellWidth, 0)
	}

	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	sx, sy, inCanvas := m.screenPoint(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inCanvas:
		m.viewport.ZoomAt(sx, sy, wheelZoomFactor)
		return m, nil

	case msg.Button == tea.MouseButtonWheelDown && inCanvas:
		m.viewport.ZoomAt(sx, sy, 1/wheelZoomFactor)
		return m, nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !inCanvas {
			return m, nil
		}
		m.mouse.lastX, m.mouse.lastY = msg.X, msg.Y
		m.mouse.moved = false

		id, ok := m.nodeAt(sx, sy)
		if !ok {
			m.mouse.panning = true
			return m, nil
		}

		now := m.now()
		if id == m.mouse.lastClickID && now.Sub(m.mouse.lastClickAt) <= doubleClickGap {
			m.mouse.lastClickID = ""
			if m.session.DoubleClick(id) {
				return m, m.quit()
			}
			return m, nil
		}
		m.mouse.lastClickID, m.mouse.lastClickAt = id, now

		if m.session.BeginDrag(id) {
			m.mouse.dragging = id
		}
		return m, m.ensureFrames()

	case msg.Action == tea.MouseActionMotion:
		dx, dy := msg.X-m.mouse.lastX, msg.Y-m.mouse.lastY
		if dx != 0 || dy != 0 {
			m.mouse.moved = true
		}
		m.mouse.lastX, m.mouse.lastY = msg.X, msg.Y

		switch {
		case m.mouse.dragging != "":
			wx, wy := m.viewport.ScreenToWorld(sx, sy)
			m.session.DragTo(m.mouse.dragging, wx, wy)
		case m.mouse.panning:
			m.viewport.Pan(float64(dx)*cellWidth, float64(dy)*cellHeight)
		case inCanvas:
			if id, ok := m.nodeAt(sx, sy); ok {
				m.session.Hover(id)
			} else {
				m.session.Unhover()
			}
		}
		return m, nil

	case msg.Action == tea.MouseActionRelease:
		if id := m.mouse.dragging; id != "" {
			m.session.EndDrag(id)
			if !m.mouse.moved {
				if d, ok := m.session.Click(id); ok {
					m.detail = &d
				}
			}
		}
		m.mouse.dragging = ""
		m.mouse.panning = false
		return m, m.ensureFrames()
	}

	return m, nil
}

func (m *Model) nudgeThreshold(steps int) {
	m.pendingThreshold = domainservices.ClampThreshold(m.pendingThreshold + float64(steps)*m.config.ThresholdStep)
	value := m.pendingThreshold
	m.thresholdDebounce.Trigger(func() { m.dispatch(thresholdSettledMsg{value: value}) })
}

func (m *Model) moveCursor(delta int) {
	nodes := m.session.Scene().Nodes
	if len(nodes) == 0 {
		return
	}
	switch {
	case m.cursor < 0 && delta < 0:
		m.cursor = len(nodes) - 1
	case m.cursor < 0:
		m.cursor = 0
	default:
		m.cursor = ((m.cursor+delta)%len(nodes) + len(nodes)) % len(nodes)
	}
	m.session.Hover(nodes[m.cursor].ID)
}

func (m *Model) afterRebuild() {
	m.detail = nil
	m.cursor = -1
	m.mouse = mouseState{}
	m.viewport.Reset()
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.searchDebounce.Cancel()
	m.thresholdDebounce.Cancel()
	m.resizeDebounce.Cancel()
	m.session.Close()
	return tea.Quit
}

func (m *Model) frame() tea.Cmd {
	return tea.Tick(m.config.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// ensureFrames starts the frame loop if the simulation wants frames and no
// loop is running
func (m *Model) ensureFrames() tea.Cmd {
	if m.framesActive || !m.session.Animating() {
		return nil
	}
	m.framesActive = true
	return m.frame()
}

func (m *Model) canvasRows() int {
	return max(1, m.height-headerLines-footerLines)
}

func (m *Model) canvasSize() valueobjects.Size {
	return valueobjects.NewSize(float64(m.width)*cellWidth, float64(m.canvasRows())*cellHeight)
}

// screenPoint converts a terminal cell to the center of that cell in screen
// units, reporting whether it lies on the canvas
func (m *Model) screenPoint(x, y int) (float64, float64, bool) {
	row := y - headerLines
	inCanvas := row >= 0 && row < m.canvasRows() && x >= 0 && x < m.width
	return (float64(x) + 0.5) * cellWidth, (float64(row) + 0.5) * cellHeight, inCanvas
}

// nodeAt finds the node nearest the screen point. A node smaller than a
// cell is still hit anywhere inside its cell.
func (m *Model) nodeAt(sx, sy float64) (string, bool) {
	wx, wy := m.viewport.ScreenToWorld(sx, sy)
	tolerance := cellHeight / 2 / m.viewport.Scale()

	best, bestDist := "", math.MaxFloat64
	for _, n := range m.session.Scene().Nodes {
		d := math.Hypot(n.X-wx, n.Y-wy)
		if d <= math.Max(n.Radius, tolerance) && d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != ""
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting || !m.initialized {
		return ""
	}

	scene := m.session.Scene()

	var b strings.Builder
	b.WriteString(m.header(scene))
	b.WriteByte('\n')

	if scene.IsDrawable() {
		b.WriteString(DrawScene(scene, m.viewport, m.width, m.canvasRows()).String())
	} else {
		b.WriteString(m.placeholder(scene))
	}
	b.WriteByte('\n')
	b.WriteString(m.footer(scene))
	return b.String()
}

func (m *Model) header(scene visualization.Scene) string {
	threshold := fmt.Sprintf("threshold %.0f%%", scene.Threshold*100)
	if math.Abs(m.pendingThreshold-scene.Threshold) > 1e-9 {
		threshold = pendingStyle.Render(fmt.Sprintf("threshold %.0f%% → %.0f%%", scene.Threshold*100, m.pendingThreshold*100))
	}

	parts := []string{
		titleStyle.Render("thoughts"),
		fmt.Sprintf("%d thoughts", scene.Stats.NodeCount),
		fmt.Sprintf("%d connections", scene.Stats.EdgeCount),
		threshold,
		scene.Layout.String(),
		fmt.Sprintf("zoom %.1fx", m.viewport.Scale()),
	}
	if scene.Animating {
		parts = append(parts, okStyle.Render("settling"))
	}
	return strings.Join(parts, subtleStyle.Render(" · "))
}

func (m *Model) placeholder(scene visualization.Scene) string {
	box := messageStyle.Render(scene.Message)
	rows := m.canvasRows()
	lines := strings.Split(box, "\n")
	pad := max(0, (rows-len(lines))/2)

	var b strings.Builder
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= pad && i-pad < len(lines) {
			b.WriteString("  " + lines[i-pad])
		}
	}
	return b.String()
}

func (m *Model) footer(scene visualization.Scene) string {
	if m.detail != nil {
		d := m.detail
		tags := make([]string, len(d.Tags))
		for i, t := range d.Tags {
			tags[i] = tagStyle.Render("#" + t)
		}
		line1 := statusStyle.Render(visualization.Truncate(d.Text, max(10, m.width-4)))
		line2 := fmt.Sprintf("%s  %s  %s", subtleStyle.Render(d.FormattedDate),
			strings.Join(tags, " "), subtleStyle.Render(fmt.Sprintf("%d connections · esc close · e edit", d.ConnectionCount)))
		return detailStyle.Width(max(10, m.width)).Render(line1 + "\n" + line2)
	}

	status := subtleStyle.Render("tab select · enter details · e edit · drag node to pin · drag space to pan · wheel zoom · +/- threshold · l layout · / search · q quit")
	if id := scene.Hovered; id != "" {
		for _, n := range scene.Nodes {
			if n.ID == id {
				status = statusStyle.Render(visualization.Truncate(n.Text, max(10, m.width-4)))
				break
			}
		}
	}

	search := m.search.View()
	if !m.search.Focused() && m.search.Value() == "" {
		search = subtleStyle.Render("/ search")
	}
	return "\n" + status + "\n" + search
}
