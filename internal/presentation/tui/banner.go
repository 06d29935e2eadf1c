package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	` __      __       _        _              `,
	` \ \    / /__ _ _| |__ ___| |_  ___ _ __  `,
	`  \ \/\/ / _ \ '_| / /(_-<| ' \/ _ \ '_ \ `,
	`   \_/\_/\___/_| |_\_\/__/|_||_\___/ .__/ `,
	`                                   |_|    `,
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6"}

// PrintBanner writes the workshop banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i%len(bannerColors)])))
	}
	fmt.Fprintln(w, termenv.String("  grammar drills, one drop at a time  v"+version).Faint())
	fmt.Fprintln(w)
}
