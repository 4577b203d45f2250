package services

import (
	"sort"
	"time"

	"thoughtgraph/domain/core/aggregates"
	"thoughtgraph/domain/core/entities"
)

// Count pairs a label with how often it occurs
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TagPair counts how often two tags appear on the same entry. A sorts
// before B.
type TagPair struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// Cluster is one connected component of the similarity graph
type Cluster struct {
	EntryIDs []string `json:"entryIds"`
	TopTags  []string `json:"topTags"`
}

// Insights is a statistical summary of the entry collection
type Insights struct {
	ActiveEntries   int       `json:"activeEntries"`
	ArchivedEntries int       `json:"archivedEntries"`
	TopWords        []Count   `json:"topWords"`
	VocabularySize  int       `json:"vocabularySize"`
	TagFrequencies  []Count   `json:"tagFrequencies"`
	TagCooccurrence []TagPair `json:"tagCooccurrence"`
	ByWeekday       [7]int    `json:"byWeekday"`
	ByHour          [24]int   `json:"byHour"`
	Undated         int       `json:"undated"`
	CurrentStreak   int       `json:"currentStreak"`
	LongestStreak   int       `json:"longestStreak"`
	Clusters        []Cluster `json:"clusters"`
}

// InsightsService computes summaries over entries and their graph
type InsightsService struct {
	textAnalyzer TextAnalyzer
	topN         int
}

// NewInsightsService creates a new insights service. topN bounds every
// ranked list in the result.
func NewInsightsService(textAnalyzer TextAnalyzer, topN int) *InsightsService {
	if textAnalyzer == nil {
		textAnalyzer = NewDefaultTextAnalyzer(3)
	}
	if topN <= 0 {
		topN = 10
	}
	return &InsightsService{textAnalyzer: textAnalyzer, topN: topN}
}

// Compute summarizes entries. Only active entries feed the word, tag and
// time statistics. Entries without a date are counted as undated and left
// out of the temporal figures. graph may be nil, in which case no clusters
// are reported.
func (s *InsightsService) Compute(all []*entities.Entry, graph *aggregates.Graph, now time.Time) Insights {
	var out Insights

	words := make(map[string]int)
	tags := make(map[string]int)
	pairs := make(map[[2]string]int)
	days := make(map[time.Time]bool)
	loc := now.Location()

	for _, e := range all {
		if e == nil {
			continue
		}
		if e.IsArchived() {
			out.ArchivedEntries++
			continue
		}
		out.ActiveEntries++

		for _, w := range s.textAnalyzer.ExtractKeywords(e.Text()) {
			words[w]++
		}

		entryTags := e.Tags()
		for i, t := range entryTags {
			tags[t]++
			for _, u := range entryTags[i+1:] {
				a, b := t, u
				if b < a {
					a, b = b, a
				}
				pairs[[2]string{a, b}]++
			}
		}

		if !e.HasDate() {
			out.Undated++
			continue
		}
		d := e.Date().In(loc)
		out.ByWeekday[d.Weekday()]++
		out.ByHour[d.Hour()]++
		days[truncateDay(d)] = true
	}

	out.VocabularySize = len(words)
	out.TopWords = topCounts(words, s.topN)
	out.TagFrequencies = topCounts(tags, s.topN)
	out.TagCooccurrence = topPairs(pairs, s.topN)
	out.CurrentStreak, out.LongestStreak = streaks(days, truncateDay(now))

	if graph != nil {
		out.Clusters = s.clusters(graph)
	}

	return out
}

// clusters reports multi-node components with their most common tags
func (s *InsightsService) clusters(graph *aggregates.Graph) []Cluster {
	var out []Cluster
	for _, ids := range graph.GetClusters() {
		if len(ids) < 2 {
			continue
		}
		tags := make(map[string]int)
		for _, id := range ids {
			if node, ok := graph.GetNode(id); ok {
				for _, t := range node.Tags {
					tags[t]++
				}
			}
		}
		top := topCounts(tags, 3)
		names := make([]string, len(top))
		for i, c := range top {
			names[i] = c.Value
		}
		out = append(out, Cluster{EntryIDs: ids, TopTags: names})
		if len(out) == s.topN {
			break
		}
	}
	return out
}

// streaks returns the run of consecutive days ending today (or yesterday, if
// nothing was written yet today) and the longest run overall
func streaks(days map[time.Time]bool, today time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	var prev time.Time
	for i, d := range sorted {
		if i > 0 && truncateDay(prev.AddDate(0, 0, 1)).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d
	}

	day := today
	if !days[day] {
		day = truncateDay(day.AddDate(0, 0, -1))
	}
	for days[day] {
		current++
		day = truncateDay(day.AddDate(0, 0, -1))
	}

	return current, longest
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func topCounts(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for v, c := range counts {
		out = append(out, Count{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topPairs(counts map[[2]string]int, n int) []TagPair {
	out := make([]TagPair, 0, len(counts))
	for k, c := range counts {
		out = append(out, TagPair{A: k[0], B: k[1], Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
