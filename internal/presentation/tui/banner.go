// Package tui holds terminal decorations for the console chat.
package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the venuebot banner and version to w.
// Colors degrade to plain text when w is not a color terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`                              _           _   `, "#818cf8"},
		{` __   _____ _ __  _   _  ___| |__   ___ | |_ `, "#a78bfa"},
		{` \ \ / / _ \ '_ \| | | |/ _ \ '_ \ / _ \| __|`, "#c084fc"},
		{`  \ V /  __/ | | | |_| |  __/ |_) | (_) | |_ `, "#e879f9"},
		{`   \_/ \___|_| |_|\__,_|\___|_.__/ \___/ \__|`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
