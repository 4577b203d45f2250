package visualization

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	appservices "thoughtgraph/application/services"
	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"
	"thoughtgraph/domain/layout"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/pkg/utils"
)

// dragAlphaTarget keeps the simulation warm while a node is held
const dragAlphaTarget = 0.3

// Detail is what a click on a node reveals
type Detail struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Tags            []string `json:"tags"`
	FormattedDate   string   `json:"date"`
	ConnectionCount int      `json:"connectionCount"`
}

// Options are the initial control-surface settings of a session
type Options struct {
	Threshold float64
	Mode      layout.Mode
	Size      valueobjects.Size
}

// Session owns one visualization: the current graph, its layout and the
// interaction state on top of it. It is not safe for concurrent use; a
// single goroutine (the UI loop) drives it.
type Session struct {
	id         string
	lister     ports.EntryLister
	editor     ports.EditRequester
	graphs     *appservices.GraphService
	config     *config.DomainConfig
	dispatcher *events.Dispatcher
	logger     *zap.Logger
	clock      func() time.Time

	state       State
	unavailable string
	threshold   float64
	mode        layout.Mode
	size        valueobjects.Size
	search      string
	hovered     string
	dragging    string

	graph    *aggregates.Graph
	stats    aggregates.Stats // of graph, computed once per build
	sim      *layout.Simulation
	emphasis *emphasis
	settled  bool
}

// NewSession creates a session. Nothing is built until Initialize.
func NewSession(
	lister ports.EntryLister,
	editor ports.EditRequester,
	graphs *appservices.GraphService,
	dispatcher *events.Dispatcher,
	logger *zap.Logger,
	opts Options,
) *Session {
	if dispatcher == nil {
		dispatcher = events.NewDispatcher()
	}
	if opts.Mode == "" {
		opts.Mode = layout.ModeForce
	}
	return &Session{
		id:         uuid.New().String(),
		lister:     lister,
		editor:     editor,
		graphs:     graphs,
		config:     graphs.Config(),
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "visualization")),
		clock:      time.Now,
		threshold:  domainservices.ClampThreshold(opts.Threshold),
		mode:       opts.Mode,
		size:       valueobjects.NewSize(opts.Size.Width, opts.Size.Height),
	}
}

// ID returns the session id used as the aggregate id of its events
func (s *Session) ID() string { return s.id }

// State returns the lifecycle state
func (s *Session) State() State { return s.state }

// Threshold returns the current similarity threshold
func (s *Session) Threshold() float64 { return s.threshold }

// Mode returns the current layout mode
func (s *Session) Mode() layout.Mode { return s.mode }

// SearchQuery returns the active search text
func (s *Session) SearchQuery() string { return s.search }

// Size returns the canvas size
func (s *Session) Size() valueobjects.Size { return s.size }

// Initialize performs a fresh build and layout from the current entry
// snapshot. Calling it again resets positions, pins, hover and drag state;
// threshold, layout mode and search query carry over.
func (s *Session) Initialize(ctx context.Context) error {
	if s.state == StateUnavailable {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.hovered = ""
	s.dragging = ""
	s.rebuild(ctx)
	return nil
}

// MarkUnavailable switches the session into the static error state. There
// is no retry; only a new session recovers.
func (s *Session) MarkUnavailable(reason string) {
	s.stopSimulation()
	s.state = StateUnavailable
	s.unavailable = reason
	s.graph = nil
	s.stats = aggregates.Stats{}
	s.emphasis = nil
	s.logger.Warn("visualization unavailable", zap.String("reason", reason))
}

// SetThreshold clamps f to [0,1] and rebuilds the graph from a fresh entry
// snapshot
func (s *Session) SetThreshold(ctx context.Context, f float64) {
	s.threshold = domainservices.ClampThreshold(f)
	if !s.isLive() {
		return
	}
	s.hovered = ""
	s.dragging = ""
	s.rebuild(ctx)
}

// AdjustThreshold moves the threshold by delta steps of the configured size
func (s *Session) AdjustThreshold(ctx context.Context, steps int) {
	s.SetThreshold(ctx, s.threshold+float64(steps)*s.config.ThresholdStep)
}

// SetLayoutMode re-lays out the existing graph without rebuilding it
func (s *Session) SetLayoutMode(ctx context.Context, m layout.Mode) {
	s.mode = m
	if s.state != StateReady {
		return
	}
	s.dragging = ""
	s.relayout(ctx, s.graph)
}

// CycleLayoutMode switches to the next layout mode
func (s *Session) CycleLayoutMode(ctx context.Context) {
	s.SetLayoutMode(ctx, s.mode.Next())
}

// SetSearchQuery updates the search emphasis. Only opacities change. The
// query is matched as typed; an all-whitespace query clears the search.
func (s *Session) SetSearchQuery(q string) {
	if strings.TrimSpace(q) == "" {
		q = ""
	}
	s.search = q
	s.applyEmphasis()
}

// Resize records the new canvas size and re-initializes. Callers debounce
// bursts of resize events before calling it.
func (s *Session) Resize(ctx context.Context, size valueobjects.Size) error {
	s.size = valueobjects.NewSize(size.Width, size.Height)
	if !s.isLive() {
		return nil
	}
	return s.Initialize(ctx)
}

// Hover highlights id and its neighbors. It reports false for unknown ids.
func (s *Session) Hover(id string) bool {
	if s.state != StateReady || !s.graph.HasNode(id) {
		return false
	}
	s.hovered = id
	s.applyEmphasis()
	return true
}

// Unhover drops the hover highlight, restoring the search emphasis if a
// query is active
func (s *Session) Unhover() {
	if s.hovered == "" {
		return
	}
	s.hovered = ""
	s.applyEmphasis()
}

// Hovered returns the hovered node id, if any
func (s *Session) Hovered() string { return s.hovered }

// Click returns the detail view of a node without changing any state
func (s *Session) Click(id string) (Detail, bool) {
	if s.state != StateReady {
		return Detail{}, false
	}
	node, ok := s.graph.GetNode(id)
	if !ok {
		return Detail{}, false
	}
	return Detail{
		ID:              node.ID,
		Text:            node.Text,
		Tags:            append([]string(nil), node.Tags...),
		FormattedDate:   utils.FormatDate(node.Date),
		ConnectionCount: node.ConnectionCount,
	}, true
}

// DoubleClick asks the host to edit the entry and closes the session
func (s *Session) DoubleClick(id string) bool {
	if s.state != StateReady || !s.graph.HasNode(id) {
		return false
	}

	s.logger.Debug("edit requested", zap.String("entryID", id))
	s.dispatcher.Publish(events.NewEditRequested(s.id, id, s.clock()))
	if s.editor != nil {
		s.editor.RequestEditMode(id)
	}
	s.Close()
	return true
}

// BeginDrag takes control of a node away from the layout
func (s *Session) BeginDrag(id string) bool {
	if s.state != StateReady {
		return false
	}
	node, ok := s.graph.GetNode(id)
	if !ok {
		return false
	}

	s.dragging = id
	node.PinAt(node.Position)
	if s.sim != nil {
		s.sim.Reheat(dragAlphaTarget)
		s.settled = false
	}
	return true
}

// DragTo moves the dragged node to (x, y) in layout coordinates
func (s *Session) DragTo(id string, x, y float64) bool {
	if s.dragging == "" || s.dragging != id {
		return false
	}
	node, ok := s.graph.GetNode(id)
	if !ok {
		return false
	}
	node.PinAt(valueobjects.Pos(x, y))
	return true
}

// EndDrag finishes a drag. Under the permanent pin policy the node stays
// where it was dropped for the rest of the session.
func (s *Session) EndDrag(id string) bool {
	if s.dragging == "" || s.dragging != id {
		return false
	}
	s.dragging = ""

	node, ok := s.graph.GetNode(id)
	if !ok {
		return false
	}

	if s.sim != nil {
		s.sim.Reheat(0)
	}

	if s.config.PinPolicy == config.PinReleaseOnDrop {
		node.Release()
		s.dispatcher.Publish(events.NewNodeReleased(s.id, id, s.clock()))
		return true
	}

	s.dispatcher.Publish(events.NewNodePinned(s.id, id, node.X(), node.Y(), s.clock()))
	return true
}

// Dragging returns the id of the node being dragged, if any
func (s *Session) Dragging() string { return s.dragging }

// Tick advances the force simulation one step. It reports whether another
// frame is needed; ticks on a closed or static session are ignored.
func (s *Session) Tick() bool {
	if s.state != StateReady || s.sim == nil {
		return false
	}
	if s.sim.Step() {
		return true
	}

	if !s.settled && s.sim.Alpha() < s.config.AlphaMin {
		s.settled = true
		s.dispatcher.Publish(events.NewSimulationSettled(s.id, s.sim.Ticks(), s.clock()))
	}
	return false
}

// Settle runs frames back to back until the simulation cools or maxTicks
// frames have run, for views that have no frame clock. It returns the
// number of frames run.
func (s *Session) Settle(maxTicks int) int {
	n := 0
	for n < maxTicks && s.Tick() {
		n++
	}
	return n
}

// Animating reports whether the simulation still wants frames
func (s *Session) Animating() bool {
	return s.state == StateReady && s.sim != nil && s.sim.IsRunning()
}

// Close stops the simulation and drops all graph state. Later ticks are
// ignored; Initialize starts over with a fresh build.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	s.stopSimulation()
	s.graph = nil
	s.stats = aggregates.Stats{}
	s.emphasis = nil
	s.hovered = ""
	s.dragging = ""
	s.state = StateClosed
	s.dispatcher.Publish(events.NewSessionClosed(s.id, s.clock()))
}

// Scene returns a snapshot for rendering
func (s *Session) Scene() Scene {
	scene := Scene{
		State:     s.state,
		Size:      s.size,
		Layout:    s.mode,
		Threshold: s.threshold,
		Search:    s.search,
		Hovered:   s.hovered,
		Animating: s.Animating(),
		Nodes:     []NodeView{},
		Edges:     []EdgeView{},
	}

	switch s.state {
	case StateEmpty:
		scene.Message = emptyMessage
		return scene
	case StateUnavailable:
		scene.Message = s.unavailable
		return scene
	case StateClosed:
		scene.Message = closedMessage
		return scene
	case StateReady:
	default:
		return scene
	}

	cfg := s.config
	scene.Stats = s.stats
	scene.Nodes = make([]NodeView, 0, s.graph.Len())
	for _, n := range s.graph.Nodes() {
		opacity := 1.0
		if s.emphasis != nil {
			opacity = s.emphasis.nodes[n.ID]
		}
		scene.Nodes = append(scene.Nodes, NodeView{
			ID:              n.ID,
			Label:           Truncate(n.Text, cfg.LabelLength),
			Text:            n.Text,
			Tags:            append([]string(nil), n.Tags...),
			ConnectionCount: n.ConnectionCount,
			X:               n.X(),
			Y:               n.Y(),
			Radius:          NodeRadius(n.ConnectionCount, cfg.BaseRadius, cfg.RadiusPerConnection, cfg.MaxRadius),
			Color:           ColorFor(n.FirstTag()),
			Opacity:         opacity,
			Pinned:          n.Pin.IsPinned(),
			Hovered:         n.ID == s.hovered,
		})
	}

	scene.Edges = make([]EdgeView, 0, len(s.graph.Edges()))
	for i, e := range s.graph.Edges() {
		source, _ := s.graph.GetNode(e.SourceID)
		target, _ := s.graph.GetNode(e.TargetID)
		opacity := EdgeOpacity(e.Strength)
		if s.emphasis != nil {
			opacity = s.emphasis.edges[i]
		}
		scene.Edges = append(scene.Edges, EdgeView{
			SourceID: e.SourceID,
			TargetID: e.TargetID,
			X1:       source.X(),
			Y1:       source.Y(),
			X2:       target.X(),
			Y2:       target.Y(),
			Strength: e.Strength,
			Width:    EdgeWidth(e.Strength),
			Opacity:  opacity,
		})
	}

	return scene
}

func (s *Session) isLive() bool {
	return s.state == StateReady || s.state == StateEmpty
}

// rebuild builds and lays out a new graph off to the side and swaps it in
// with a single assignment
func (s *Session) rebuild(ctx context.Context) {
	s.stopSimulation()

	entries := s.lister.ListActiveEntries(ctx)
	start := time.Now()
	graph := s.graphs.Build(ctx, entries, s.threshold)
	took := time.Since(start)

	stats := graph.Stats()
	s.dispatcher.Publish(events.NewGraphRebuilt(s.id, stats.NodeCount, stats.EdgeCount, s.threshold, took, s.clock()))

	if graph.IsEmpty() {
		s.graph = nil
		s.stats = aggregates.Stats{}
		s.sim = nil
		s.emphasis = nil
		s.state = StateEmpty
		s.logger.Info("no active entries to visualize")
		return
	}

	s.stats = stats
	s.relayout(ctx, graph)
	s.state = StateReady
}

// relayout runs the current layout mode over graph and installs it
func (s *Session) relayout(ctx context.Context, graph *aggregates.Graph) {
	s.stopSimulation()

	start := time.Now()
	strategy := s.graphs.Layout(ctx, graph, s.mode, s.size)
	took := time.Since(start)

	sim, _ := strategy.(*layout.Simulation)
	s.graph = graph
	s.sim = sim
	s.settled = false
	s.applyEmphasis()

	s.dispatcher.Publish(events.NewLayoutApplied(s.id, s.mode.String(), took, s.clock()))
}

func (s *Session) stopSimulation() {
	if s.sim != nil {
		s.sim.Stop()
	}
}

// applyEmphasis recomputes opacities. Hover takes precedence over search.
func (s *Session) applyEmphasis() {
	if s.graph == nil {
		s.emphasis = nil
		return
	}

	switch {
	case s.hovered != "" && s.graph.HasNode(s.hovered):
		s.emphasis = hoverEmphasis(s.graph, s.hovered)
	case s.search != "":
		s.emphasis = searchEmphasis(s.graph, strings.ToLower(s.search))
	default:
		s.emphasis = nil
	}
}

func containsFold(text, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(text), lowerQuery)
}
