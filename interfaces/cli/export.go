package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thoughtgraph/application/ports"
	"thoughtgraph/application/visualization"
	"thoughtgraph/domain/core/valueobjects"
	"thoughtgraph/interfaces/render"
	pkgerrors "thoughtgraph/pkg/errors"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		flags  graphFlags
		format string
		output string
		width  float64
		height float64
		search string
	)

	cmd := &cobra.Command{
		Use:         "export",
		Annotations: readOnly,
		Short:       "Write the connection graph to a file (svg, html, json or dot)",
		Example: `  thoughts export -o graph.html
  thoughts export --format dot --layout circular | dot -Tpng > graph.png`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.container

			if width <= 0 {
				width = c.Config.Visualization.ExportWidth
			}
			if height <= 0 {
				height = c.Config.Visualization.ExportHeight
			}
			opts, err := flags.options(a, valueobjects.NewSize(width, height))
			if err != nil {
				return err
			}

			f, err := exportFormat(format, output)
			if err != nil {
				return err
			}

			session := visualization.NewSession(c.Entries, ports.EditRequesterFunc(func(string) {}), c.Graphs, c.Dispatcher, c.Logger, opts)
			defer session.Close()

			if err := session.Initialize(cmd.Context()); err != nil {
				return err
			}
			ticks := session.Settle(c.DomainConfig.MaxTicksHeadless)
			session.SetSearchQuery(search)
			scene := session.Scene()

			var w io.Writer = a.out
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return pkgerrors.NewValidationError(fmt.Sprintf("cannot write %s: %v", output, err))
				}
				defer file.Close()
				w = file
			}

			vp := render.NewViewport(c.DomainConfig.MinZoom, c.DomainConfig.MaxZoom)
			if err := render.Export(w, f, scene, vp); err != nil {
				return pkgerrors.Wrap(err, "export failed")
			}

			c.Logger.Info("Graph exported",
				zap.String("format", string(f)),
				zap.String("output", output),
				zap.Int("nodes", len(scene.Nodes)),
				zap.Int("edges", len(scene.Edges)),
				zap.Int("ticks", ticks),
			)

			if w != a.out {
				fmt.Fprintf(a.out, "  %s wrote %s (%d thoughts, %d connections)\n",
					Good.Sprint("✓"), output, len(scene.Nodes), len(scene.Edges))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "svg, html, json or dot (default from the output extension, else svg)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().Float64Var(&width, "width", 0, "Canvas width (default from config)")
	cmd.Flags().Float64Var(&height, "height", 0, "Canvas height (default from config)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Emphasize thoughts containing this text")
	return cmd
}

// exportFormat picks the explicit format, else the output extension, else
// svg
func exportFormat(format, output string) (render.Format, error) {
	if format == "" {
		switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(output), ".")); ext {
		case "":
			format = "svg"
		case "htm":
			format = "html"
		default:
			format = ext
		}
	}
	f, err := render.ParseFormat(format)
	if err != nil {
		return "", pkgerrors.NewValidationError(err.Error())
	}
	return f, nil
}
