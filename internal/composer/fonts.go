package composer

import (
	"net/url"
	"regexp"
	"strings"
)

// Font is the parsed result of the free-text font setting.
type Font struct {
	// Family is the bare font family name, empty when the input was empty.
	Family string
	// ImportURL is the stylesheet URL to @import for the family.
	ImportURL string
}

// defaultFontFamily is the CSS value used when no font is configured.
const defaultFontFamily = `"Caveat", cursive`

var (
	fontURLRe    = regexp.MustCompile(`https://fonts\.googleapis\.com/css2?\?[^"'\s)]+`)
	fontFamilyRe = regexp.MustCompile(`family=([^&:]+)`)
)

// ParseFontInput interprets the font setting, which is either a plain family
// name (a font-service URL is derived from it) or free text containing an
// already-formed font-service URL (the family is extracted from its query).
func ParseFontInput(input string) Font {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Font{}
	}

	if u := fontURLRe.FindString(trimmed); u != "" {
		var family string
		if m := fontFamilyRe.FindStringSubmatch(u); m != nil {
			if dec, err := url.QueryUnescape(m[1]); err == nil {
				family = strings.ReplaceAll(dec, "+", " ")
			} else {
				family = strings.ReplaceAll(m[1], "+", " ")
			}
		}
		return Font{Family: family, ImportURL: u}
	}

	derived := "https://fonts.googleapis.com/css2?family=" +
		strings.ReplaceAll(trimmed, " ", "+") + "&display=swap"
	return Font{Family: trimmed, ImportURL: derived}
}

// FamilyCSS returns the font-family property value, quoted with the cursive
// fallback the templates expect.
func (f Font) FamilyCSS() string {
	if f.Family == "" {
		return defaultFontFamily
	}
	return `"` + f.Family + `", cursive`
}

// ImportStatement returns the @import line for the font, or "" when there is
// nothing to import.
func (f Font) ImportStatement() string {
	if f.ImportURL == "" {
		return ""
	}
	return "@import url('" + f.ImportURL + "');"
}
