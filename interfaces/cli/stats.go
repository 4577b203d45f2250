package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"thoughtgraph/application/queries"
	"thoughtgraph/domain/services"
)

func (a *app) statsCmd() *cobra.Command {
	var (
		topN   int
		asJSON bool
		flags  graphFlags
	)

	cmd := &cobra.Command{
		Use:         "stats",
		Annotations: readOnly,
		Aliases:     []string{"insights"},
		Short:       "Summarize vocabulary, tags, habits and clusters",
		Args:        exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold, err := flags.resolveThreshold(a)
			if err != nil {
				return err
			}

			result, err := a.container.QueryBus.Ask(cmd.Context(), queries.GetInsightsQuery{
				Threshold: threshold,
				TopN:      topN,
			})
			if err != nil {
				return err
			}
			insights := result.(*queries.GetInsightsResult)

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(insights)
			}

			a.printInsights(insights)
			return nil
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 10, "Length of ranked lists")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().Float64VarP(&flags.threshold, "threshold", "t", -1, "Similarity threshold for clusters, in percent (default from config)")
	return cmd
}

func (a *app) printInsights(result *queries.GetInsightsResult) {
	in := result.Insights
	w := a.out

	if in.ActiveEntries == 0 {
		fmt.Fprintln(w, "  No thoughts yet. Capture one with `thoughts add`.")
		return
	}

	row := func(label string, value interface{}) {
		fmt.Fprintf(w, "  %s  %v\n", Brand.Sprintf("%-16s", label), value)
	}

	row("Thoughts", in.ActiveEntries)
	if in.ArchivedEntries > 0 {
		row("Archived", in.ArchivedEntries)
	}
	row("Vocabulary", in.VocabularySize)
	row("Connections", result.Graph.EdgeCount)
	row("Density", fmt.Sprintf("%.1f%%", result.Graph.Density*100))
	row("Current streak", plural(in.CurrentStreak, "day"))
	row("Longest streak", plural(in.LongestStreak, "day"))
	if in.Undated > 0 {
		row("Undated", in.Undated)
	}

	section(w, "Top words")
	printCounts(a, in.TopWords, "")

	section(w, "Tags")
	printCounts(a, in.TagFrequencies, "#")

	if len(in.TagCooccurrence) > 0 {
		section(w, "Tags used together")
		for _, p := range in.TagCooccurrence {
			fmt.Fprintf(w, "  %s + %s  %d\n", Tag.Sprint("#"+p.A), Tag.Sprint("#"+p.B), p.Count)
		}
	}

	section(w, "By weekday")
	for i, n := range in.ByWeekday {
		fmt.Fprintf(w, "  %-4s %s %d\n", time.Weekday(i).String()[:3], bar(n, maxOf(in.ByWeekday[:])), n)
	}

	section(w, "Clusters")
	clusters := 0
	for _, c := range in.Clusters {
		if len(c.EntryIDs) < 2 {
			continue
		}
		clusters++
		tags := make([]string, len(c.TopTags))
		for i, t := range c.TopTags {
			tags[i] = "#" + t
		}
		fmt.Fprintf(w, "  %s  %s\n", Brand.Sprint(plural(len(c.EntryIDs), "thought")), Tag.Sprint(strings.Join(tags, " ")))
	}
	if clusters == 0 {
		fmt.Fprintln(w, Subtle.Sprint("  No connected thoughts at this threshold."))
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	Info.Fprintln(w, "  "+title)
}

func printCounts(a *app, counts []services.Count, prefix string) {
	if len(counts) == 0 {
		fmt.Fprintln(a.out, Subtle.Sprint("  none"))
		return
	}
	max := counts[0].Count
	for _, c := range counts {
		fmt.Fprintf(a.out, "  %-18s %s %d\n", prefix+c.Value, bar(c.Count, max), c.Count)
	}
}

// bar draws n scaled against max in at most 20 cells
func bar(n, max int) string {
	if max <= 0 || n <= 0 {
		return ""
	}
	width := n * 20 / max
	if width == 0 {
		width = 1
	}
	return Good.Sprint(strings.Repeat("█", width))
}

func maxOf(values []int) int {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
