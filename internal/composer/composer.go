// Package composer turns "which entities are visible right now, plus the
// current settings" into one stylesheet string and a small set of document
// flags. It pulls overrides from the entity store, resolves color inheritance
// through colormath and renders per-entity blocks via styletmpl. Composition
// never fails: a bad entity degrades to no styling for that entity, the rest
// of the pass continues.
package composer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dohr-michael/banner/internal/colormath"
	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/entitystore"
	"github.com/dohr-michael/banner/internal/styletmpl"
)

// Host theme custom properties read at render time.
const (
	botBlurTintVar  = "--SmartThemeBotMesBlurTintColor"
	userBlurTintVar = "--SmartThemeUserMesBlurTintColor"
	quoteColorVar   = "--SmartThemeQuoteColor"
)

// MarkerClass is the per-message class the host toggles on messages that
// carry a real banner image. The padding sub-blocks key off it.
const MarkerClass = "has-banner"

// mobileBreakpoint matches the media queries in the layout templates.
const mobileBreakpoint = "768px"

// dataURLRe is the accepted banner image shape. Anything stored that does
// not match is treated as absent, never rendered.
var dataURLRe = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/=]+$`)

// ValidBanner returns the image when it conforms to the accepted data-URL
// shape, "" otherwise.
func ValidBanner(image *string) string {
	if image == nil {
		return ""
	}
	if !dataURLRe.MatchString(*image) {
		return ""
	}
	return *image
}

// EntityRender is the per-entity slice of a render state the reconciler
// needs: the resolved banner image (empty when none) and, when the
// display-name swap is active for this entity, the name pair to swap between.
type EntityRender struct {
	Banner       string `json:"banner,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
}

// RenderState is the full output of one compose pass. CSS is the stylesheet
// text for the sink; the flags map to document-level classes; Entities is
// keyed by card name and reused by the reconciler so banner presence is
// decided exactly once per pass.
type RenderState struct {
	CSS           string                  `json:"css"`
	CompactMode   bool                    `json:"compact_mode"`
	PanelBanner   bool                    `json:"panel_banner"`
	AnyBanner     bool                    `json:"any_banner"`
	Entities      map[string]EntityRender `json:"entities"`
	PersonaBanner string                  `json:"persona_banner,omitempty"`
}

// Compose runs one full pass. Same inputs always produce byte-identical CSS.
func Compose(ctx Context, settings config.Settings, store *entitystore.Store) RenderState {
	state := RenderState{Entities: map[string]EntityRender{}}
	if !settings.Enabled {
		return state
	}

	layout := styletmpl.LayoutStandard
	if settings.CompactThemeMode {
		layout = styletmpl.LayoutCompact
		state.CompactMode = true
		// Compact rules attach to the message block, which only exists in
		// the flat and bubble displays. Suppress the pass instead of
		// emitting rules the host layout cannot honor.
		if ctx.ChatDisplay != DisplayUnknown &&
			ctx.ChatDisplay != DisplayFlat && ctx.ChatDisplay != DisplayBubble {
			return state
		}
	}

	font := ParseFontInput(settings.FontFamily)

	var blocks []string
	seen := map[string]bool{}
	for _, ch := range ctx.Characters {
		name := ch.CardName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		rec := store.GetData(entitystore.Character(name))
		banner := ValidBanner(rec.BannerImage)

		er := EntityRender{Banner: banner}
		if banner != "" && settings.ExtraStylingEnabled && settings.UseDisplayName &&
			ch.DisplayName != "" && ch.DisplayName != name {
			er.OriginalName = name
			er.DisplayName = ch.DisplayName
		}
		state.Entities[name] = er

		if banner != "" {
			state.AnyBanner = true
		}
		if banner == "" && !settings.ExtraStylingEnabled {
			continue
		}

		selector := `.mes[ch_name="` + escapeCSS(name) + `"]`
		css := styletmpl.Render(layout,
			placeholders(selector, botBlurTintVar, rec, settings, ctx, font),
			styletmpl.Options{IncludeBanner: banner != "", IncludeStyling: settings.ExtraStylingEnabled})
		if css != "" {
			blocks = append(blocks, css)
		}
	}

	if settings.EnableUserBanners && ctx.PersonaAvatar != "" {
		rec := store.GetData(entitystore.Persona(ctx.PersonaAvatar))
		state.PersonaBanner = ValidBanner(rec.BannerImage)
		if state.PersonaBanner != "" {
			state.AnyBanner = true
		}
	}

	// Persona messages receive banner-mode structural CSS whenever any
	// participant has a banner, so mixed chats keep a consistent layout even
	// when the persona itself has no image.
	if state.AnyBanner || settings.ExtraStylingEnabled {
		var rec entitystore.Record
		if ctx.PersonaAvatar != "" {
			rec = store.GetData(entitystore.Persona(ctx.PersonaAvatar))
		}
		css := styletmpl.Render(layout,
			placeholders(`.mes[is_user="true"]`, userBlurTintVar, rec, settings, ctx, font),
			styletmpl.Options{IncludeBanner: state.AnyBanner, IncludeStyling: settings.ExtraStylingEnabled})
		if css != "" {
			blocks = append(blocks, css)
		}
	}

	if state.AnyBanner {
		blocks = append(blocks, mobileBannerBlock(settings.BannerHeight))
	}

	var b strings.Builder
	if settings.ExtraStylingEnabled {
		if imp := font.ImportStatement(); imp != "" {
			b.WriteString(imp)
			b.WriteString("\n\n")
		}
	}
	b.WriteString(strings.Join(blocks, "\n"))
	state.CSS = b.String()

	state.PanelBanner = settings.EnablePanelBanner && !ctx.IsGroup() && activeHasBanner(state, ctx)
	return state
}

// activeHasBanner reports whether the single active counterpart carries a
// valid banner.
func activeHasBanner(state RenderState, ctx Context) bool {
	if len(ctx.Characters) == 0 {
		return false
	}
	return state.Entities[ctx.Characters[0].CardName()].Banner != ""
}

// placeholders builds the substitution map for one entity block. Everything
// here is computed per pass, nothing is stored.
func placeholders(selector, blurTintVar string, rec entitystore.Record, settings config.Settings, ctx Context, font Font) map[string]string {
	accent, quote := resolveColors(rec, settings, ctx)
	h := settings.BannerHeight
	return map[string]string{
		"selector":           selector,
		"marker":             MarkerClass,
		"blur_tint_var":      blurTintVar,
		"accent_rgb":         accent.Channels(),
		"quote_color":        quote,
		"font_family":        font.FamilyCSS(),
		"font_size":          fnum(settings.FontSize),
		"font_size_mobile":   fnum(math.Max(round2(settings.FontSize*0.7), 1.25)),
		"name_padding_tb":    fnum(settings.NamePaddingTB),
		"name_padding_lr":    fnum(settings.NamePaddingLR),
		"banner_height":      fnum(h),
		"padding_top":        fnum(math.Max(h-4, 6.5)),
		"padding_top_mobile": fnum(math.Max(round2(h*0.45-3), 2.5)),
	}
}

// resolveColors applies the inheritance chain: entity override, then global
// setting, then (quote only) the host theme variable before falling back to
// the resolved accent.
func resolveColors(rec entitystore.Record, settings config.Settings, ctx Context) (colormath.RGB, string) {
	accentInput := settings.AccentColor
	if rec.AccentColor != nil && *rec.AccentColor != "" {
		accentInput = *rec.AccentColor
	}
	accent := colormath.Parse(accentInput)

	quote := accent.Hex()
	if v := ctx.ThemeVar(quoteColorVar); v != "" {
		quote = v
	}
	if rec.QuoteColor != nil && *rec.QuoteColor != "" {
		quote = *rec.QuoteColor
	}
	return accent, quote
}

// mobileBannerBlock scales every banner to the mobile height at the shared
// breakpoint, regardless of which entity owns it.
func mobileBannerBlock(height float64) string {
	return "@media screen and (max-width: " + mobileBreakpoint + ") {\n" +
		"    .avatar-banner {\n" +
		"        height: " + fnum(round2(height*0.65)) + "vh !important;\n" +
		"    }\n" +
		"}\n"
}

// escapeCSS makes a name safe inside a double-quoted attribute-selector
// literal.
func escapeCSS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
