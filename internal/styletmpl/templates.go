// Package styletmpl renders the per-entity CSS blocks. Each layout variant
// has one template; optional regions are bounded by sentinel comment pairs so
// the same template serves the "has banner image" and "styling only" cases.
package styletmpl

// Layout selects where the banner and name styling attach in the host's
// message DOM.
type Layout string

const (
	// LayoutStandard styles the message root and hides the avatar while a
	// banner is shown.
	LayoutStandard Layout = "standard"
	// LayoutCompact targets compact-theme hosts: styling attaches to the
	// inner message block and the avatar is left to the theme.
	LayoutCompact Layout = "compact"
)

// Sentinel markers. A start/end pair bounds a region Render can excise as a
// unit. Marker lines themselves never survive into rendered output.
const (
	bannerStart  = "/* banner:start */"
	bannerEnd    = "/* banner:end */"
	bannerPadStart = "/* banner-pad:start */"
	bannerPadEnd   = "/* banner-pad:end */"
	stylingStart = "/* styling:start */"
	stylingEnd   = "/* styling:end */"
)

// Placeholder keys used by the layout templates:
//
//	selector            entity-scoped selector, e.g. .mes[ch_name="Seraphina"]
//	marker              banner marker class, without the dot
//	blur_tint_var       host theme blur-tint custom property name
//	accent_rgb          accent channels, "r, g, b"
//	quote_color         resolved quote color value
//	font_family         CSS font-family value, quoted with fallback
//	font_size           em
//	font_size_mobile    em
//	name_padding_tb     em
//	name_padding_lr     em
//	banner_height       vh
//	padding_top         vh, space reserved for the banner
//	padding_top_mobile  vh
var templates = map[Layout]string{
	LayoutStandard: standardTemplate,
	LayoutCompact:  compactTemplate,
}

const standardTemplate = `/* styling:start */
#chat {{selector}} .name_text,
#chat {{selector}} .ch_name .name_text {
    font-size: {{font_size}}em !important;
    font-family: {{font_family}} !important;
    line-height: 1.6 !important;
    padding: {{name_padding_tb}}em {{name_padding_lr}}em !important;
    overflow: visible !important;
    white-space: normal !important;
    background-image: linear-gradient(to bottom, rgba(255, 255, 255, 0.8), rgba({{accent_rgb}}, 1)) !important;
    -webkit-background-clip: text !important;
    background-clip: text !important;
    -webkit-text-fill-color: transparent !important;
    color: transparent !important;
    text-shadow: none !important;
    filter: drop-shadow(0 0 5px rgba({{accent_rgb}}, 0.3)) drop-shadow(0 0 1px rgba(255, 255, 255, 0.3)) !important;
}

{{selector}} .ch_name,
{{selector}} .mes_block,
{{selector}} .mes_text_container {
    overflow: visible !important;
    text-overflow: unset !important;
}

{{selector}} .mes_text q {
    color: {{quote_color}} !important;
}

{{selector}} .mes_button,
{{selector}} .extraMesButtons > div {
    align-self: center;
    font-size: 14px;
    padding: 5px;
    margin-left: 3px;
    border-radius: 50%;
    background: linear-gradient(to bottom, rgba({{accent_rgb}}, 0.8), rgba(255, 255, 255, 0.5));
    color: rgba(255, 255, 255, 0.9);
    box-shadow: 0 0 5px rgba({{accent_rgb}}, 0.8);
    transition: all 0.3s ease-in-out;
}

#chat {{selector}} {
    position: relative;
    background:
        linear-gradient(to bottom, rgba(0, 0, 0, 0.3) 0%, rgba(0, 0, 0, 0) 90%, rgba({{accent_rgb}}, 0.5) 100%),
        var({{blur_tint_var}});
    border: rgba({{accent_rgb}}, 0.7) solid 2px !important;
    box-shadow: 3px 3px 10px rgba({{accent_rgb}}, 0.25) !important;
}

@media screen and (max-width: 768px) {
    #chat {{selector}} .name_text {
        font-size: {{font_size_mobile}}em !important;
        padding: {{name_padding_tb}}em {{name_padding_lr}}em !important;
    }
}
/* styling:end */
/* banner:start */
#chat {{selector}} .avatar {
    display: none !important;
}

{{selector}} .avatar-banner {
    position: absolute;
    top: 0;
    left: 0;
    width: 100%;
    height: {{banner_height}}vh;
    background-size: cover;
    background-position: top center;
    background-repeat: no-repeat;
    mask-image: linear-gradient(to bottom, black 60%, rgba(0, 0, 0, 0) 100%);
    -webkit-mask-image: linear-gradient(to bottom, black 60%, rgba(0, 0, 0, 0) 100%);
    z-index: 1;
    pointer-events: none;
}
/* banner:end */
/* banner-pad:start */
#chat {{selector}}.{{marker}} {
    padding-top: {{padding_top}}vh !important;
}

@media screen and (max-width: 768px) {
    #chat {{selector}}.{{marker}} {
        padding-top: {{padding_top_mobile}}vh !important;
    }
}
/* banner-pad:end */
`

const compactTemplate = `/* styling:start */
#chat {{selector}} .name_text,
#chat {{selector}}.{{marker}} .ch_name .name_text {
    font-size: {{font_size}}em !important;
    font-family: {{font_family}} !important;
    line-height: 1.6 !important;
    padding: {{name_padding_tb}}em {{name_padding_lr}}em !important;
    overflow: visible !important;
    white-space: normal !important;
    background-image: linear-gradient(to bottom, rgba(255, 255, 255, 0.8), rgba({{accent_rgb}}, 1)) !important;
    -webkit-background-clip: text !important;
    background-clip: text !important;
    -webkit-text-fill-color: transparent !important;
    color: transparent !important;
    filter: drop-shadow(0 0 5px rgba({{accent_rgb}}, 0.3)) !important;
}

{{selector}} .mes_text q {
    color: {{quote_color}} !important;
}

#chat {{selector}}.{{marker}} .mes_block {
    background:
        linear-gradient(to bottom, rgba(0, 0, 0, 0.3) 0%, rgba(0, 0, 0, 0) 90%, rgba({{accent_rgb}}, 0.5) 100%),
        var({{blur_tint_var}});
    border: rgba({{accent_rgb}}, 0.7) solid 2px !important;
    box-shadow: 3px 3px 10px rgba({{accent_rgb}}, 0.25) !important;
}

@media screen and (max-width: 768px) {
    #chat {{selector}} .name_text {
        font-size: {{font_size_mobile}}em !important;
    }
}
/* styling:end */
/* banner:start */
{{selector}} .avatar-banner {
    position: absolute;
    top: 0;
    left: 0;
    width: 100%;
    height: {{banner_height}}vh;
    background-size: cover;
    background-position: top center;
    background-repeat: no-repeat;
    mask-image: linear-gradient(to bottom, black 60%, rgba(0, 0, 0, 0) 100%);
    -webkit-mask-image: linear-gradient(to bottom, black 60%, rgba(0, 0, 0, 0) 100%);
}
/* banner:end */
/* banner-pad:start */
#chat {{selector}}.{{marker}} .mes_block {
    position: relative;
    padding-top: {{padding_top}}vh !important;
}

@media screen and (max-width: 768px) {
    #chat {{selector}}.{{marker}} .mes_block {
        padding-top: {{padding_top_mobile}}vh !important;
    }
}
/* banner-pad:end */
`
