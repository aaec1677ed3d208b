package styletmpl

import (
	"log/slog"
	"strings"
)

// Options controls which optional template regions survive rendering.
type Options struct {
	// IncludeBanner keeps the banner sub-block and its reserve-space padding
	// sub-block. False renders the styling-only variant.
	IncludeBanner bool
	// IncludeStyling keeps the name/color styling sub-block. False leaves
	// only the structural banner rules (banner enabled, extra styling off).
	IncludeStyling bool
}

// Render produces the CSS block for a layout. Every {{key}} occurrence is
// substituted from placeholders; excluded regions are removed whole, and
// sentinel marker lines never appear in the output. Same inputs always yield
// byte-identical output. An unknown layout logs and returns "" — a missing
// block must never take down the rest of the render pass.
func Render(layout Layout, placeholders map[string]string, opts Options) string {
	tpl, ok := templates[layout]
	if !ok {
		slog.Warn("unknown style layout", "layout", string(layout))
		return ""
	}

	out := cutBlock(tpl, stylingStart, stylingEnd, opts.IncludeStyling)
	out = cutBlock(out, bannerStart, bannerEnd, opts.IncludeBanner)
	out = cutBlock(out, bannerPadStart, bannerPadEnd, opts.IncludeBanner)

	return substitute(out, placeholders)
}

// cutBlock removes the region between a sentinel pair. When keep is true only
// the marker lines are dropped; when false the whole region goes. A missing
// or unpaired marker leaves the text untouched.
func cutBlock(s, start, end string, keep bool) string {
	for {
		i := strings.Index(s, start)
		if i < 0 {
			return s
		}
		j := strings.Index(s[i:], end)
		if j < 0 {
			return s
		}
		j += i

		inner := s[i+len(start) : j]
		rest := s[j+len(end):]
		rest = strings.TrimPrefix(rest, "\n")

		if keep {
			inner = strings.TrimPrefix(inner, "\n")
			s = s[:i] + inner + rest
		} else {
			s = s[:i] + rest
		}
	}
}

// substitute replaces every {{key}} with its placeholder value.
func substitute(s string, placeholders map[string]string) string {
	if len(placeholders) == 0 {
		return s
	}
	pairs := make([]string, 0, len(placeholders)*2)
	for k, v := range placeholders {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
