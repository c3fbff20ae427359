package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`  ____  _ _                 ____                            _   `, "#34d399"},
	{` / ___|(_) |_   _____ _ __ / ___|___  _ __  _ __   ___  ___| |_ `, "#2dd4bf"},
	{` \___ \| | \ \ / / _ \ '__| |   / _ \| '_ \| '_ \ / _ \/ __| __|`, "#22d3ee"},
	{`  ___) | | |\ V /  __/ |  | |__| (_) | | | | | | |  __/ (__| |_ `, "#38bdf8"},
	{` |____/|_|_| \_/ \___|_|   \____\___/|_| |_|_| |_|\___|\___|\__|`, "#60a5fa"},
}

// PrintBanner writes the SilverConnect banner to w, colored when w supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w)
}
