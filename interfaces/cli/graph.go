package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thoughtgraph/application/commands"
	"thoughtgraph/application/ports"
	"thoughtgraph/application/visualization"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/domain/layout"
	"thoughtgraph/infrastructure/di"
	"thoughtgraph/infrastructure/watch"
	"thoughtgraph/interfaces/tui"
	pkgerrors "thoughtgraph/pkg/errors"
)

// graphFlags are shared by graph and export
type graphFlags struct {
	threshold float64 // percent
	layout    string
}

func (f *graphFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.threshold, "threshold", "t", -1, "Minimum similarity for a connection, in percent (default from config)")
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "Layout: force, circular or hierarchical (default from config)")
}

// resolveThreshold converts the percent flag to a fraction, falling back
// to the configured default
func (f *graphFlags) resolveThreshold(a *app) (float64, error) {
	if f.threshold < 0 {
		return a.container.DomainConfig.DefaultThreshold, nil
	}
	if f.threshold > 100 {
		return 0, pkgerrors.NewValidationError("threshold must be between 0 and 100")
	}
	return f.threshold / 100, nil
}

// options resolves the flags against the loaded configuration
func (f *graphFlags) options(a *app, size valueobjects.Size) (visualization.Options, error) {
	cfg := a.container.Config

	threshold, err := f.resolveThreshold(a)
	if err != nil {
		return visualization.Options{}, err
	}

	name := cfg.Visualization.Layout
	if f.layout != "" {
		name = f.layout
	}
	mode, err := layout.ParseMode(name)
	if err != nil {
		return visualization.Options{}, pkgerrors.NewValidationError(err.Error())
	}

	return visualization.Options{Threshold: threshold, Mode: mode, Size: size}, nil
}

func (a *app) graphCmd() *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:         "graph",
		Annotations: readOnly,
		Aliases:     []string{"g", "view"},
		Short:       "Explore connections between thoughts interactively",
		Long: "Open the interactive connection graph.\n\n" +
			"  drag a node to pin it, drag the background to pan, scroll to zoom\n" +
			"  tab/enter to select, e or double-click to edit, / to search\n" +
			"  +/- to change the threshold, l to switch layout, q to quit",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Real size arrives with the first window size message
			opts, err := flags.options(a, valueobjects.NewSize(640, 384))
			if err != nil {
				return err
			}
			return a.runGraph(cmd.Context(), opts)
		},
	}

	flags.register(cmd)
	return cmd
}

func (a *app) runGraph(ctx context.Context, opts visualization.Options) error {
	c := a.container

	var requested string
	editor := ports.EditRequesterFunc(func(id string) { requested = id })

	session := visualization.NewSession(c.Entries, editor, c.Graphs, c.Dispatcher, c.Logger, opts)

	var watcher *watch.StoreWatcher
	if c.Config.WatchStore && c.Config.DBPath != di.MemoryDBPath {
		watcher = watch.NewStoreWatcher(c.Config.DBPath, c.DomainConfig.SearchDebounce, c.Logger)
	}

	err := tui.Run(ctx, tui.Options{
		Session: session,
		Config:  c.DomainConfig,
		Logger:  c.Logger,
		Watcher: watcher,
		Probe:   a.probe,
	})
	if err != nil {
		if pkgerrors.IsUnavailable(err) {
			fmt.Fprintf(a.out, "  %s\n", Warn.Sprint(session.Scene().Message))
		}
		return err
	}

	if requested == "" {
		return nil
	}

	c.Logger.Info("Edit requested from graph", zap.String("entryId", requested))
	text, changed, err := a.editText(ctx, requested)
	if err != nil || !changed {
		return err
	}
	if err := c.CommandBus.Send(ctx, commands.UpdateEntryCommand{EntryID: requested, Text: text}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "  %s updated %s\n", Good.Sprint("✓"), Brand.Sprint(shortID(requested)))
	return nil
}

// editText opens the entry's text in the editor and reports whether it
// changed
func (a *app) editText(ctx context.Context, id string) (string, bool, error) {
	entryID, err := valueobjects.NewEntryIDFromString(id)
	if err != nil {
		return "", false, pkgerrors.NewValidationError(err.Error())
	}
	entry, err := a.container.Entries.GetByID(ctx, entryID)
	if err != nil {
		return "", false, err
	}

	edited, err := a.editor(ctx, a.container.Config.ResolveEditor(), entry.Text())
	if err != nil {
		return "", false, err
	}
	edited = strings.TrimSpace(edited)
	return edited, edited != "" && edited != entry.Text(), nil
}

// editInEditor writes text to a temporary file, runs the editor command on
// it attached to the terminal and returns the saved contents
func editInEditor(ctx context.Context, command, text string) (string, error) {
	file, err := os.CreateTemp("", "thought-*.md")
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to create edit file")
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(text + "\n"); err != nil {
		file.Close()
		return "", pkgerrors.Wrap(err, "failed to write edit file")
	}
	if err := file.Close(); err != nil {
		return "", pkgerrors.Wrap(err, "failed to write edit file")
	}

	argv := strings.Fields(command)
	if len(argv) == 0 {
		return "", pkgerrors.NewConfigError("no editor configured", nil)
	}
	editor := exec.CommandContext(ctx, argv[0], append(argv[1:], file.Name())...)
	editor.Stdin = os.Stdin
	editor.Stdout = os.Stdout
	editor.Stderr = os.Stderr
	if err := editor.Run(); err != nil {
		return "", pkgerrors.NewUnavailableError(argv[0]).WithCause(err)
	}

	saved, err := os.ReadFile(file.Name())
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to read edit file")
	}
	return string(saved), nil
}
