package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the fluent banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"   __ _                  _   ", "#34d399"},
		{"  / _| |_   _  ___ _ __ | |_ ", "#2dd4bf"},
		{" | |_| | | | |/ _ \\ '_ \\| __|", "#22d3ee"},
		{" |  _| | |_| |  __/ | | | |_ ", "#38bdf8"},
		{" |_| |_|\\__,_|\\___|_| |_|\\__|", "#60a5fa"},
	}
	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(" "+version).Faint())
	fmt.Fprintln(w)
}
