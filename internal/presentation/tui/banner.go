package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`                       __ _           _`,
	` __ __ ____ _ _  _ ___/ _(_)_ _  __| |___ _ _`,
	` \ V  V / _' | || |___|  _| | ' \/ _' / -_) '_|`,
	`  \_/\_/\__,_|\_, |   |_| |_|_||_\__,_\___|_|`,
	`              |__/`,
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa"}

// PrintBanner writes the wayfinder banner, coloured when w supports it.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, out.String(line).Foreground(out.Color(bannerColors[i%len(bannerColors)])))
	}
	fmt.Fprintln(w, out.String("  regular path queries over property graphs  "+version).Faint())
	fmt.Fprintln(w)
}
