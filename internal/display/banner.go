package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

const tagline = "interval timer for constrained workouts"

// RenderBanner returns the banner art horizontally centred for the
// current terminal width, with the tagline underneath. No scaling is
// applied — the art is displayed at its native size. To change the
// banner just replace banner.txt.
func RenderBanner() string {
	width := termWidth()

	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")
	if len(lines) == 0 {
		return ""
	}

	// Find the widest line.
	maxW := 0
	for _, l := range lines {
		if len(l) > maxW {
			maxW = len(l)
		}
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(centerPad(l, maxW, width))
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	b.WriteString(centerPad(tagline, len(tagline), width))
	b.WriteString(secondaryStyle.Render(tagline))
	b.WriteByte('\n')
	return b.String()
}

// centerPad returns the left padding that centres a block of width maxW
// in a terminal of the given width.
func centerPad(_ string, maxW, width int) string {
	if width <= maxW {
		return ""
	}
	return strings.Repeat(" ", (width-maxW)/2)
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
