// Package cli is the thoughts command line: entry capture and editing,
// listings, the interactive graph and static exports.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/di"
	pkgerrors "thoughtgraph/pkg/errors"
)

var version = "0.3.0"

// readOnly annotates commands that only read entries. They show an empty
// graph instead of failing when the entry store cannot be opened.
var readOnly = map[string]string{"readonly": "true"}

// app carries the state shared by every subcommand of one invocation
type app struct {
	configPath string
	dbPath     string
	debug      bool

	out    io.Writer
	errOut io.Writer

	container *di.Container

	// probe and editor are replaced in tests
	probe  func() error
	editor func(ctx context.Context, command, text string) (string, error)
}

// Execute runs the command line with args and returns the process exit
// code
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut, editor: editInEditor}
	return a.execute(ctx, args)
}

func (a *app) execute(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	executed, err := root.ExecuteContextC(ctx)
	if err != nil && !pkgerrors.IsAppError(err) && strings.HasPrefix(err.Error(), "unknown command") {
		err = pkgerrors.NewValidationError(err.Error())
	}

	logger := zap.NewNop()
	if a.container != nil {
		logger = a.container.Logger
	}

	name := "thoughts"
	if executed != nil && executed != root {
		name = executed.Name()
	}

	errPrinter := &colorWriter{w: a.errOut}
	code := pkgerrors.NewErrorHandler(logger, errPrinter, a.debug).Handle(name, err)

	if a.container != nil {
		if shutdownErr := a.container.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Warn("Shutdown incomplete", zap.Error(shutdownErr))
		}
	}
	return code
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "thoughts",
		Short: "Capture short thoughts and see how they connect",
		Long: Brand.Sprint("thoughts") + " keeps short notes locally and draws the network of\n" +
			"connections between them, scored by shared tags and words.\n" +
			Subtle.Sprint("Tag a note with #hashtags in the text or with --tag."),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return a.open(cmd.Context(), isReadOnly(cmd))
		},
	}
	root.SetVersionTemplate("thoughts {{ .Version }}\n")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return pkgerrors.NewValidationError(err.Error())
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (yaml or toml)")
	flags.StringVar(&a.dbPath, "db", "", "Entry database path")
	flags.BoolVar(&a.debug, "debug", false, "Print error causes and stack traces")

	root.AddCommand(
		a.addCmd(),
		a.editCmd(),
		a.archiveCmd(),
		a.listCmd(),
		a.purgeCmd(),
		a.graphCmd(),
		a.exportCmd(),
		a.statsCmd(),
	)

	return root
}

// open loads configuration and wires the container
func (a *app) open(ctx context.Context, tolerateStoreErrors bool) error {
	cfg, err := config.NewLoader(a.configPath).Load()
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	cfg.TolerateStoreErrors = tolerateStoreErrors

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return err
	}
	a.container = container

	container.Logger.Debug("Configuration loaded",
		zap.Strings("sources", cfg.LoadedFrom),
		zap.String("dbPath", cfg.DBPath),
	)
	return nil
}

// needsStore is false for cobra's own help and completion commands
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "completion":
			return false
		}
	}
	return true
}

func isReadOnly(cmd *cobra.Command) bool {
	return cmd.Annotations["readonly"] == "true"
}

// exactArgs is cobra.ExactArgs reporting a usage error
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return pkgerrors.NewValidationError(err.Error())
		}
		return nil
	}
}

// minimumArgs is cobra.MinimumNArgs reporting a usage error
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return pkgerrors.NewValidationError(err.Error())
		}
		return nil
	}
}

// colorWriter prints error lines in red
type colorWriter struct {
	w io.Writer
}

func (c *colorWriter) Write(p []byte) (int, error) {
	text := string(p)
	if strings.TrimSpace(text) == "" {
		return c.w.Write(p)
	}
	if _, err := Bad.Fprint(c.w, text); err != nil {
		return 0, err
	}
	return len(p), nil
}
