package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	"thoughtgraph/application/queries"
	"thoughtgraph/application/queries/bus"
	appservices "thoughtgraph/application/services"
	"thoughtgraph/domain/core/entities"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/layout"
	domainservices "thoughtgraph/domain/services"
	"thoughtgraph/pkg/utils"
)

// QueryHandlers answers the read-side queries
type QueryHandlers struct {
	repo         ports.EntryRepository
	lister       ports.EntryLister
	graphs       *appservices.GraphService
	textAnalyzer domainservices.TextAnalyzer
	clock        func() time.Time
	logger       *zap.Logger
}

// NewQueryHandlers creates the query handlers
func NewQueryHandlers(
	repo ports.EntryRepository,
	lister ports.EntryLister,
	graphs *appservices.GraphService,
	textAnalyzer domainservices.TextAnalyzer,
	logger *zap.Logger,
) *QueryHandlers {
	return &QueryHandlers{
		repo:         repo,
		lister:       lister,
		graphs:       graphs,
		textAnalyzer: textAnalyzer,
		clock:        time.Now,
		logger:       logger,
	}
}

// Register wires every query into the bus
func (h *QueryHandlers) Register(b *bus.QueryBus) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandlerFunc
	}{
		{queries.ListEntriesQuery{}, h.handleListEntries},
		{queries.GetGraphDataQuery{}, h.handleGetGraphData},
		{queries.GetInsightsQuery{}, h.handleGetInsights},
	}

	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *QueryHandlers) handleListEntries(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.ListEntriesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", q)
	}

	all, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]queries.EntryView, 0, len(all))
	for _, e := range all {
		if e.IsArchived() && !query.IncludeArchived {
			continue
		}
		views = append(views, toEntryView(e))
	}

	// the repository lists oldest first with undated entries trailing
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].Date, views[j].Date
		if (a == "") != (b == "") {
			return a != ""
		}
		return a > b
	})

	total := len(views)
	if query.Limit > 0 && len(views) > query.Limit {
		views = views[:query.Limit]
	}

	return &queries.ListEntriesResult{Entries: views, Total: total}, nil
}

func (h *QueryHandlers) handleGetGraphData(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetGraphDataQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", q)
	}

	mode, err := layout.ParseMode(query.Layout)
	if err != nil {
		return nil, err
	}
	size := valueobjects.NewSize(query.Width, query.Height)

	graph := h.graphs.Build(ctx, h.lister.ListActiveEntries(ctx), query.Threshold)
	h.graphs.LayoutStable(ctx, graph, mode, size)

	return queries.NewGraphDataResult(graph, mode), nil
}

func (h *QueryHandlers) handleGetInsights(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetInsightsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid query type %T", q)
	}

	all, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// the builder drops archived entries itself
	graph := h.graphs.Build(ctx, all, query.Threshold)
	insights := domainservices.NewInsightsService(h.textAnalyzer, query.TopN).Compute(all, graph, h.clock())

	h.logger.Debug("insights computed",
		zap.Int("activeEntries", insights.ActiveEntries),
		zap.Int("clusterCount", len(insights.Clusters)))

	return &queries.GetInsightsResult{
		Insights: insights,
		Graph:    queries.NewGraphStats(graph.Stats()),
	}, nil
}

func toEntryView(e *entities.Entry) queries.EntryView {
	return queries.EntryView{
		ID:       e.ID().String(),
		Text:     e.Text(),
		Tags:     e.Tags(),
		Date:     utils.FormatTimestamp(e.Date()),
		Archived: e.IsArchived(),
	}
}
