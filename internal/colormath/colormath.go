// Package colormath provides the color parsing and formatting primitives used
// by the stylesheet composer. Every function is total: malformed input falls
// back to a fixed default instead of returning an error, because a bad color
// must never abort a render pass.
package colormath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RGB is a parsed color with 8-bit channels.
type RGB struct {
	R, G, B int
}

// Fallback is the color used when input cannot be parsed.
var Fallback = RGB{R: 231, G: 159, B: 168}

// DefaultTolerance is the per-channel tolerance used by Equal.
const DefaultTolerance = 3

var (
	hex3Re = regexp.MustCompile(`^#?([0-9a-fA-F])([0-9a-fA-F])([0-9a-fA-F])$`)
	hex6Re = regexp.MustCompile(`^#?([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})$`)
	rgbRe  = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[\d.]+\s*)?\)$`)
)

// Parse accepts "#rgb", "#rrggbb", "rgb(r, g, b)" or "rgba(r, g, b, a)" text
// and returns the parsed color. Unrecognized input yields Fallback.
func Parse(input string) RGB {
	s := strings.TrimSpace(input)

	if m := hex6Re.FindStringSubmatch(s); m != nil {
		return RGB{hexByte(m[1]), hexByte(m[2]), hexByte(m[3])}
	}
	if m := hex3Re.FindStringSubmatch(s); m != nil {
		// Shorthand: each nibble doubles, #03f -> #0033ff.
		return RGB{hexByte(m[1] + m[1]), hexByte(m[2] + m[2]), hexByte(m[3] + m[3])}
	}
	if m := rgbRe.FindStringSubmatch(s); m != nil {
		r, okR := channel(m[1])
		g, okG := channel(m[2])
		b, okB := channel(m[3])
		if okR && okG && okB {
			return RGB{r, g, b}
		}
	}
	return Fallback
}

func hexByte(s string) int {
	v, _ := strconv.ParseInt(s, 16, 32)
	return int(v)
}

func channel(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 255 {
		return 0, false
	}
	return v, true
}

// RGBA formats the color as a CSS rgba() value with the given alpha.
func (c RGB) RGBA(alpha float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, trimFloat(alpha))
}

// Channels formats the color as "r, g, b" for use inside rgba() templates.
func (c RGB) Channels() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Equal reports whether two color strings parse to the same color within
// DefaultTolerance per channel. Used to detect "user picked the inherited
// default", so the override can be stored as inherit instead of a duplicate.
func Equal(a, b string) bool {
	return EqualTolerance(a, b, DefaultTolerance)
}

// EqualTolerance is Equal with an explicit per-channel tolerance.
func EqualTolerance(a, b string, tolerance int) bool {
	ca, cb := Parse(a), Parse(b)
	return abs(ca.R-cb.R) <= tolerance &&
		abs(ca.G-cb.G) <= tolerance &&
		abs(ca.B-cb.B) <= tolerance
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
