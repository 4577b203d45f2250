package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"thoughtgraph/application/commands"
	"thoughtgraph/application/queries"
	"thoughtgraph/domain/core/valueobjects"
	pkgerrors "thoughtgraph/pkg/errors"
)

func (a *app) addCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:     "add <text>",
		Aliases: []string{"capture", "a"},
		Short:   "Capture a thought",
		Example: `  thoughts add "Sketched the pergola #garden"
  thoughts add --tag reading "Finished the second chapter"`,
		Args: minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := valueobjects.NewEntryID()
			err := a.container.CommandBus.Send(cmd.Context(), commands.CreateEntryCommand{
				EntryID: id.String(),
				Text:    strings.Join(args, " "),
				Tags:    tags,
			})
			if err != nil {
				return err
			}

			entry, err := a.container.Entries.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "  %s %s  %s\n", Good.Sprint("✓"), Brand.Sprint(shortID(id.String())), formatTags(entry.Tags()))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id> [text]",
		Short: "Replace a thought's text, in $EDITOR when no text is given",
		Long: "Replace a thought's text. Hashtags are re-derived from the new text.\n" +
			"The id may be shortened to any unique prefix.",
		Args: minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			text := strings.Join(args[1:], " ")
			if text == "" {
				edited, changed, err := a.editText(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Fprintln(a.out, Subtle.Sprint("  Unchanged."))
					return nil
				}
				text = edited
			}

			if err := a.container.CommandBus.Send(cmd.Context(), commands.UpdateEntryCommand{
				EntryID: id,
				Text:    text,
			}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "  %s updated %s\n", Good.Sprint("✓"), Brand.Sprint(shortID(id)))
			return nil
		},
	}
	return cmd
}

func (a *app) archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Hide a thought from the graph and statistics",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.container.CommandBus.Send(cmd.Context(), commands.ArchiveEntryCommand{EntryID: id}); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "  %s archived %s\n", Good.Sprint("✓"), Brand.Sprint(shortID(id)))
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var (
		all    bool
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:         "list",
		Annotations: readOnly,
		Aliases:     []string{"ls"},
		Short:       "List thoughts, newest first",
		Args:        exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.container.QueryBus.Ask(cmd.Context(), queries.ListEntriesQuery{
				IncludeArchived: all,
				Limit:           limit,
			})
			if err != nil {
				return err
			}
			listed := result.(*queries.ListEntriesResult)

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(listed)
			}

			if listed.Total == 0 {
				fmt.Fprintln(a.out, "  No thoughts yet. Capture one:")
				fmt.Fprintln(a.out)
				Info.Fprintln(a.out, `  thoughts add "Something worth remembering #idea"`)
				return nil
			}

			rows := make([][]string, 0, len(listed.Entries))
			for _, e := range listed.Entries {
				date := e.Date
				if date == "" {
					date = Subtle.Sprint("undated")
				}
				text := truncate(e.Text, 48)
				if e.Archived {
					text = Subtle.Sprint(text + " (archived)")
				}
				rows = append(rows, []string{Brand.Sprint(shortID(e.ID)), date, text, formatTags(e.Tags)})
			}
			table(a.out, []string{"ID", "Date", "Text", "Tags"}, rows)

			if len(listed.Entries) < listed.Total {
				fmt.Fprintln(a.out)
				Subtle.Fprintf(a.out, "  Showing %d of %d\n", len(listed.Entries), listed.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include archived thoughts")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n thoughts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func (a *app) purgeCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete archived thoughts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := &commands.PurgeArchivedResult{}
			if err := a.container.CommandBus.Send(cmd.Context(), commands.PurgeArchivedCommand{
				DryRun: dryRun,
				Result: result,
			}); err != nil {
				return err
			}

			if len(result.Deleted) == 0 {
				fmt.Fprintln(a.out, "  Nothing archived.")
				return nil
			}

			verb := "deleted"
			if dryRun {
				verb = "would delete"
			}
			for _, id := range result.Deleted {
				fmt.Fprintf(a.out, "  %s %s\n", Subtle.Sprint(verb), shortID(id))
			}
			fmt.Fprintf(a.out, "  %s %d archived thought(s)\n", Warn.Sprint(verb), len(result.Deleted))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted")
	return cmd
}

// resolveID expands a unique id prefix to the full entry id
func (a *app) resolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", pkgerrors.NewValidationError("id is required")
	}
	if _, err := uuid.Parse(prefix); err == nil {
		return prefix, nil
	}

	entries, err := a.container.Entries.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, e := range entries {
		if strings.HasPrefix(e.ID().String(), prefix) {
			matches = append(matches, e.ID().String())
		}
	}

	switch len(matches) {
	case 0:
		return "", pkgerrors.NewNotFoundError("entry " + prefix)
	case 1:
		return matches[0], nil
	default:
		return "", pkgerrors.NewValidationError(fmt.Sprintf("id prefix %q matches %d entries", prefix, len(matches)))
	}
}
