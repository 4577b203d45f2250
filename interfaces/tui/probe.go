package tui

import (
	"os"

	"github.com/mattn/go-isatty"

	pkgerrors "thoughtgraph/pkg/errors"
)

// Probe reports whether an interactive view can be drawn
type Probe func() error

// ProbeTerminal requires both stdin and stdout to be terminals
func ProbeTerminal() error {
	for _, f := range []*os.File{os.Stdout, os.Stdin} {
		fd := f.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return pkgerrors.NewUnavailableError("terminal").WithDetails(map[string]interface{}{
				"reason": f.Name() + " is not a terminal",
			})
		}
	}
	return nil
}
