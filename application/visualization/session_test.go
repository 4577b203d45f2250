package visualization

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appservices "thoughtgraph/application/services"
	"thoughtgraph/domain/config"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/events"
	"thoughtgraph/domain/layout"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/tests/fixtures"
	"thoughtgraph/tests/mocks"
)

// sliceLister serves a fixed, replaceable entry snapshot
type sliceLister struct {
	entries []*entities.Entry
}

func (l *sliceLister) ListActiveEntries(context.Context) []*entities.Entry {
	active := []*entities.Entry{}
	for _, e := range l.entries {
		if e.IsActive() {
			active = append(active, e)
		}
	}
	return active
}

type harness struct {
	session *Session
	lister  *sliceLister
	editor  *mocks.MockEditRequester
	events  []events.DomainEvent
}

func newHarness(t *testing.T, cfg *config.DomainConfig, entries ...*entities.Entry) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	analyzer := domainservices.NewDefaultTextAnalyzer(cfg.MinTokenLength)
	builder := domainservices.NewGraphBuilder(domainservices.NewWeightedJaccardCalculator(cfg, analyzer))
	graphs := appservices.NewGraphService(builder, cfg, nil, zap.NewNop())

	h := &harness{
		lister: &sliceLister{entries: entries},
		editor: new(mocks.MockEditRequester),
	}
	dispatcher := events.NewDispatcher()
	dispatcher.SubscribeAll(func(e events.DomainEvent) { h.events = append(h.events, e) })

	h.session = NewSession(h.lister, h.editor, graphs, dispatcher, zap.NewNop(), Options{
		Threshold: cfg.DefaultThreshold,
		Mode:      layout.ModeForce,
		Size:      valueobjects.NewSize(800, 600),
	})
	return h
}

func (h *harness) eventTypes() []string {
	types := make([]string, 0, len(h.events))
	for _, e := range h.events {
		types = append(types, e.GetEventType())
	}
	return types
}

// gardenEntries builds a small graph: two gardening notes connected by a
// shared tag, a third connected to the first by text, and an isolated one
func gardenEntries() (a, b, c, lone *entities.Entry) {
	a = fixtures.NewEntryBuilder().WithText("Planning tomatoes for spring").WithTags("garden").Build()
	b = fixtures.NewEntryBuilder().WithText("Watering schedule").WithTags("garden").Build()
	c = fixtures.NewEntryBuilder().WithText("Planning tomatoes for spring").Build()
	lone = fixtures.NewEntryBuilder().WithText("Quarterly taxes").WithTags("money").Build()
	return
}

func opacityByID(scene Scene) map[string]float64 {
	out := map[string]float64{}
	for _, n := range scene.Nodes {
		out[n.ID] = n.Opacity
	}
	return out
}

func TestSession_EmptyStore(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.session.Initialize(context.Background()))

	scene := h.session.Scene()
	assert.Equal(t, StateEmpty, scene.State)
	assert.NotEmpty(t, scene.Message)
	assert.Empty(t, scene.Nodes)
	assert.Empty(t, scene.Edges)
	assert.False(t, scene.IsDrawable())
	assert.False(t, h.session.Tick())
}

func TestSession_InitializeBuildsAndLaysOut(t *testing.T) {
	a, b, c, lone := gardenEntries()
	h := newHarness(t, nil, a, b, c, lone)
	require.NoError(t, h.session.Initialize(context.Background()))

	scene := h.session.Scene()
	require.Equal(t, StateReady, scene.State)
	assert.Len(t, scene.Nodes, 4)
	assert.Len(t, scene.Edges, 2)
	assert.True(t, scene.Animating)
	require.NoError(t, h.session.graph.Validate())

	for _, n := range scene.Nodes {
		assert.Equal(t, 1.0, n.Opacity)
		switch n.ID {
		case a.ID().String():
			assert.Equal(t, 12.0, n.Radius)
			assert.Equal(t, ColorFor("garden"), n.Color)
		case c.ID().String():
			assert.Equal(t, NeutralColor, n.Color)
		case lone.ID().String():
			assert.Equal(t, 8.0, n.Radius)
		}
	}
	for _, e := range scene.Edges {
		assert.InDelta(t, EdgeOpacity(e.Strength), e.Opacity, 1e-9)
	}

	assert.Equal(t, []string{events.TypeGraphRebuilt, events.TypeLayoutApplied}, h.eventTypes())
}

func TestSession_ThresholdRebuild(t *testing.T) {
	// one shared tag out of two, no shared words: similarity 0.3
	x := fixtures.NewEntryBuilder().WithText("Morning coffee").WithTags("a", "b").Build()
	y := fixtures.NewEntryBuilder().WithText("Evening reading").WithTags("b").Build()
	h := newHarness(t, nil, x, y)
	ctx := context.Background()
	require.NoError(t, h.session.Initialize(ctx))
	require.Len(t, h.session.Scene().Edges, 1)

	h.session.SetThreshold(ctx, 0.4)
	assert.Empty(t, h.session.Scene().Edges)
	assert.Equal(t, 0.4, h.session.Threshold())

	h.session.SetThreshold(ctx, -3)
	assert.Equal(t, 0.0, h.session.Threshold())
	assert.Len(t, h.session.Scene().Edges, 1)

	h.session.AdjustThreshold(ctx, 2)
	assert.InDelta(t, 0.1, h.session.Threshold(), 1e-9)
}

func TestSession_RebuildPicksUpEntryChanges(t *testing.T) {
	a, b, _, _ := gardenEntries()
	h := newHarness(t, nil, a)
	ctx := context.Background()
	require.NoError(t, h.session.Initialize(ctx))
	require.Len(t, h.session.Scene().Nodes, 1)

	h.lister.entries = append(h.lister.entries, b)
	h.session.SetThreshold(ctx, h.session.Threshold())
	assert.Len(t, h.session.Scene().Nodes, 2)

	h.lister.entries = nil
	h.session.SetThreshold(ctx, h.session.Threshold())
	assert.Equal(t, StateEmpty, h.session.State())
}

func TestSession_HoverHighlightsNeighbors(t *testing.T) {
	a, b, c, lone := gardenEntries()
	h := newHarness(t, nil, a, b, c, lone)
	require.NoError(t, h.session.Initialize(context.Background()))

	require.True(t, h.session.Hover(b.ID().String()))
	scene := h.session.Scene()
	opacity := opacityByID(scene)
	assert.Equal(t, 1.0, opacity[b.ID().String()])
	assert.Equal(t, 1.0, opacity[a.ID().String()])
	assert.Equal(t, 0.15, opacity[c.ID().String()])
	assert.Equal(t, 0.15, opacity[lone.ID().String()])
	for _, e := range scene.Edges {
		if e.SourceID == b.ID().String() || e.TargetID == b.ID().String() {
			assert.Equal(t, 1.0, e.Opacity)
		} else {
			assert.Equal(t, 0.05, e.Opacity)
		}
	}

	h.session.Unhover()
	scene = h.session.Scene()
	for _, n := range scene.Nodes {
		assert.Equal(t, 1.0, n.Opacity)
	}
	for _, e := range scene.Edges {
		assert.InDelta(t, EdgeOpacity(e.Strength), e.Opacity, 1e-9)
	}

	assert.False(t, h.session.Hover("missing"))
}

func TestSession_SearchEmphasis(t *testing.T) {
	a, b, c, lone := gardenEntries()
	h := newHarness(t, nil, a, b, c, lone)
	require.NoError(t, h.session.Initialize(context.Background()))

	h.session.SetSearchQuery("TOMATOES")
	scene := h.session.Scene()
	opacity := opacityByID(scene)
	assert.Equal(t, 1.0, opacity[a.ID().String()])
	assert.Equal(t, 1.0, opacity[c.ID().String()])
	assert.Equal(t, 0.1, opacity[b.ID().String()])
	assert.Equal(t, 0.1, opacity[lone.ID().String()])
	for _, e := range scene.Edges {
		bothMatch := (e.SourceID == a.ID().String() && e.TargetID == c.ID().String())
		if bothMatch {
			assert.Equal(t, 0.6, e.Opacity)
		} else {
			assert.Equal(t, 0.05, e.Opacity)
		}
	}

	t.Run("hover overrides and un-hover restores search", func(t *testing.T) {
		h.session.Hover(lone.ID().String())
		assert.Equal(t, 1.0, opacityByID(h.session.Scene())[lone.ID().String()])

		h.session.Unhover()
		assert.Equal(t, 0.1, opacityByID(h.session.Scene())[lone.ID().String()])
	})

	t.Run("empty query restores defaults", func(t *testing.T) {
		h.session.SetSearchQuery("  ")
		for _, n := range h.session.Scene().Nodes {
			assert.Equal(t, 1.0, n.Opacity)
		}
	})
}

func TestSession_SearchMatchesQueryAsTyped(t *testing.T) {
	a, b, _, _ := gardenEntries()
	h := newHarness(t, nil, a, b)
	require.NoError(t, h.session.Initialize(context.Background()))

	h.session.SetSearchQuery("tomatoes ")
	assert.Equal(t, "tomatoes ", h.session.SearchQuery())
	opacity := opacityByID(h.session.Scene())
	assert.Equal(t, 1.0, opacity[a.ID().String()])
	assert.Equal(t, 0.1, opacity[b.ID().String()])

	// "Watering schedule" has nothing after the last word
	h.session.SetSearchQuery("schedule ")
	opacity = opacityByID(h.session.Scene())
	assert.Equal(t, 0.1, opacity[b.ID().String()])

	h.session.SetSearchQuery("\t ")
	assert.Equal(t, "", h.session.SearchQuery())
}

func TestSession_SceneStatsFollowRebuilds(t *testing.T) {
	a, b, c, lone := gardenEntries()
	h := newHarness(t, nil, a, b, c, lone)
	ctx := context.Background()
	require.NoError(t, h.session.Initialize(ctx))

	graph := h.session.graph
	assert.Equal(t, graph.Stats(), h.session.Scene().Stats)
	assert.Equal(t, 4, h.session.Scene().Stats.NodeCount)

	h.session.SetSearchQuery("garden")
	h.session.Hover(a.ID().String())
	assert.Equal(t, graph.Stats(), h.session.Scene().Stats)

	h.session.SetThreshold(ctx, 1)
	assert.Equal(t, 0, h.session.Scene().Stats.EdgeCount)
	assert.Equal(t, h.session.graph.Stats(), h.session.Scene().Stats)

	h.session.Close()
	assert.Equal(t, 0, h.session.Scene().Stats.NodeCount)
}

func TestSession_SearchDoesNotRebuild(t *testing.T) {
	a, b, _, _ := gardenEntries()
	h := newHarness(t, nil, a, b)
	require.NoError(t, h.session.Initialize(context.Background()))
	graph := h.session.graph

	h.session.SetSearchQuery("water")
	assert.Same(t, graph, h.session.graph)
}

func TestSession_LayoutModes(t *testing.T) {
	a, b, c, lone := gardenEntries()
	h := newHarness(t, nil, a, b, c, lone)
	ctx := context.Background()
	require.NoError(t, h.session.Initialize(ctx))
	graph := h.session.graph

	h.session.SetLayoutMode(ctx, layout.ModeCircular)
	assert.Same(t, graph, h.session.graph, "layout changes reuse the graph")
	assert.False(t, h.session.Animating())
	assert.False(t, h.session.Tick())

	first := h.session.Scene().Nodes[0]
	assert.InDelta(t, 400+200, first.X, 1e-9)
	assert.InDelta(t, 300, first.Y, 1e-9)

	h.session.CycleLayoutMode(ctx)
	assert.Equal(t, layout.ModeHierarchical, h.session.Mode())
	assert.False(t, h.session.Animating())

	h.session.CycleLayoutMode(ctx)
	assert.Equal(t, layout.ModeForce, h.session.Mode())
	assert.True(t, h.session.Animating())
}

func TestSession_DragPinsNode(t *testing.T) {
	a, b, c, lone := gardenEntries()
	h := newHarness(t, nil, a, b, c, lone)
	ctx := context.Background()
	require.NoError(t, h.session.Initialize(ctx))
	id := a.ID().String()

	require.True(t, h.session.BeginDrag(id))
	require.True(t, h.session.DragTo(id, 50, 60))
	assert.False(t, h.session.DragTo(b.ID().String(), 0, 0), "only the grabbed node moves")
	require.True(t, h.session.EndDrag(id))

	for i := 0; i < 50; i++ {
		h.session.Tick()
	}
	node, _ := h.session.graph.GetNode(id)
	assert.Equal(t, 50.0, node.X())
	assert.Equal(t, 60.0, node.Y())
	assert.Contains(t, h.eventTypes(), events.TypeNodePinned)

	// switching back to force discards pins
	h.session.SetLayoutMode(ctx, layout.ModeCircular)
	h.session.SetLayoutMode(ctx, layout.ModeForce)
	node, _ = h.session.graph.GetNode(id)
	assert.False(t, node.Pin.IsPinned())
}

func TestSession_ReleaseOnDropPolicy(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	cfg.PinPolicy = config.PinReleaseOnDrop
	a, b, _, _ := gardenEntries()
	h := newHarness(t, cfg, a, b)
	require.NoError(t, h.session.Initialize(context.Background()))
	id := a.ID().String()

	require.True(t, h.session.BeginDrag(id))
	require.True(t, h.session.DragTo(id, 10, 10))
	require.True(t, h.session.EndDrag(id))

	node, _ := h.session.graph.GetNode(id)
	assert.False(t, node.Pin.IsPinned())
	assert.Contains(t, h.eventTypes(), events.TypeNodeReleased)
}

func TestSession_SimulationSettles(t *testing.T) {
	a, b, c, lone := gardenEntries()
	h := newHarness(t, nil, a, b, c, lone)
	require.NoError(t, h.session.Initialize(context.Background()))

	frames := 0
	for h.session.Tick() {
		frames++
		require.Less(t, frames, 1000)
	}
	assert.False(t, h.session.Animating())
	assert.Contains(t, h.eventTypes(), events.TypeSimulationSettled)
}

func TestSession_SettleStopsAtCap(t *testing.T) {
	a, b, c, lone := gardenEntries()
	h := newHarness(t, nil, a, b, c, lone)
	require.NoError(t, h.session.Initialize(context.Background()))

	assert.Equal(t, 5, h.session.Settle(5))
	assert.True(t, h.session.Animating())

	h.session.Settle(1000)
	assert.False(t, h.session.Animating())

	h.session.SetLayoutMode(context.Background(), layout.ModeCircular)
	assert.Zero(t, h.session.Settle(10))
}

func TestSession_ClickShowsDetail(t *testing.T) {
	a, _, _, _ := gardenEntries()
	h := newHarness(t, nil, a)
	require.NoError(t, h.session.Initialize(context.Background()))
	graph := h.session.graph

	detail, ok := h.session.Click(a.ID().String())
	require.True(t, ok)
	assert.Equal(t, "Planning tomatoes for spring", detail.Text)
	assert.Equal(t, []string{"garden"}, detail.Tags)
	assert.NotEqual(t, "unknown date", detail.FormattedDate)
	assert.Same(t, graph, h.session.graph)

	_, ok = h.session.Click("missing")
	assert.False(t, ok)
}

func TestSession_DoubleClickRequestsEditAndCloses(t *testing.T) {
	a, _, _, _ := gardenEntries()
	h := newHarness(t, nil, a)
	h.editor.On("RequestEditMode", a.ID().String()).Return()
	ctx := context.Background()
	require.NoError(t, h.session.Initialize(ctx))

	require.True(t, h.session.DoubleClick(a.ID().String()))
	h.editor.AssertExpectations(t)
	assert.Equal(t, StateClosed, h.session.State())
	assert.False(t, h.session.Tick(), "ticks after close are ignored")
	assert.Contains(t, h.eventTypes(), events.TypeEditRequested)
	assert.Contains(t, h.eventTypes(), events.TypeSessionClosed)

	// re-entering builds from scratch
	require.NoError(t, h.session.Initialize(ctx))
	assert.Equal(t, StateReady, h.session.State())
}

func TestSession_Unavailable(t *testing.T) {
	a, _, _, _ := gardenEntries()
	h := newHarness(t, nil, a)
	h.session.MarkUnavailable("terminal is not interactive")

	require.NoError(t, h.session.Initialize(context.Background()))
	scene := h.session.Scene()
	assert.Equal(t, StateUnavailable, scene.State)
	assert.Equal(t, "terminal is not interactive", scene.Message)
	assert.Empty(t, scene.Nodes)
	h.editor.AssertNotCalled(t, "RequestEditMode", mock.Anything)
}

func TestSession_ResizeReinitializes(t *testing.T) {
	a, b, _, _ := gardenEntries()
	h := newHarness(t, nil, a, b)
	ctx := context.Background()
	require.NoError(t, h.session.Initialize(ctx))
	h.session.SetLayoutMode(ctx, layout.ModeCircular)

	require.NoError(t, h.session.Resize(ctx, valueobjects.NewSize(300, 300)))
	scene := h.session.Scene()
	assert.Equal(t, 300.0, scene.Size.Width)
	assert.InDelta(t, 150+100, scene.Nodes[0].X, 1e-9)
}
