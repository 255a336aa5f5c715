package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the frost banner in an icy gradient.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __                _   ", "#e0f2fe"},
		{"  / _|_ __ ___  ___| |_ ", "#bae6fd"},
		{" | |_| '__/ _ \\/ __| __|", "#7dd3fc"},
		{" |  _| | | (_) \\__ \\ |_ ", "#38bdf8"},
		{" |_| |_|  \\___/|___/\\__|", "#0ea5e9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
